// Package handlers adapts the board, user and activity services to HTTP.
package handlers

import (
	"context"

	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/board"
	"github.com/monocle-dev/taskboard/internal/logging"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/rs/zerolog"
)

// UserStore is the user half of the store.
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// ActivityFeed reads the activity log.
type ActivityFeed interface {
	Recent(ctx context.Context, limit int) ([]types.ActionResponse, error)
	All(ctx context.Context) ([]models.ActionLog, error)
}

// Subscriber hands out change signals for websocket clients.
type Subscriber interface {
	Subscribe() (<-chan struct{}, func())
}

type Deps struct {
	Board          *board.Service
	Users          UserStore
	Activity       ActivityFeed
	Issuer         *auth.Issuer
	Changes        Subscriber
	AllowedOrigins []string
}

type Handler struct {
	board    *board.Service
	users    UserStore
	activity ActivityFeed
	issuer   *auth.Issuer
	changes  Subscriber
	origins  map[string]struct{}
	log      zerolog.Logger
}

func New(deps Deps) *Handler {
	origins := make(map[string]struct{}, len(deps.AllowedOrigins))
	for _, origin := range deps.AllowedOrigins {
		origins[origin] = struct{}{}
	}

	return &Handler{
		board:    deps.Board,
		users:    deps.Users,
		activity: deps.Activity,
		issuer:   deps.Issuer,
		changes:  deps.Changes,
		origins:  origins,
		log:      logging.Component("handlers"),
	}
}
