package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/middleware"
	"github.com/monocle-dev/taskboard/internal/types"
)

var (
	ErrNotAuthenticated = errors.New("User not authenticated")
	ErrInvalidTaskID    = errors.New("Invalid task ID")
)

// CurrentUser returns the user set by middleware.AuthMiddleware.
func CurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, ErrNotAuthenticated
	}

	user, ok := value.(middleware.AuthenticatedUser)

	if !ok || user.ID == 0 {
		return middleware.AuthenticatedUser{}, ErrNotAuthenticated
	}

	return user, nil
}

// TaskID parses the :id route parameter.
func TaskID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)

	if err != nil || id == 0 {
		return 0, ErrInvalidTaskID
	}

	return uint(id), nil
}
