package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/board"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Register(ctx *gin.Context) {
	var req CredentialsRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	if req.Username == "" || req.Password == "" {
		badRequest(ctx, "Username and password required")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
	}

	if err := h.users.CreateUser(ctx.Request.Context(), &user); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.log.Info().Ctx(ctx.Request.Context()).Uint("user_id", user.ID).Msg("user registered")

	ctx.JSON(http.StatusCreated, gin.H{"message": "User registered"})
}

func (h *Handler) Login(ctx *gin.Context) {
	var req CredentialsRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	user, err := h.users.FindUserByUsername(ctx.Request.Context(), strings.TrimSpace(req.Username))

	if err != nil {
		if errors.Is(err, board.ErrUserNotFound) {
			badRequest(ctx, "Invalid credentials")
			return
		}
		h.respondError(ctx, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		badRequest(ctx, "Invalid credentials")
		return
	}

	token, err := h.issuer.Generate(user.ID, user.Username)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.LoginResponse{
		Token:    token,
		Username: user.Username,
		ID:       user.ID,
	})
}
