package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/monocle-dev/taskboard/internal/utils"
)

func (h *Handler) ListUsers(ctx *gin.Context) {
	users, err := h.users.ListUsers(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	resp := make([]types.UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, types.UserResponse{ID: user.ID, Username: user.Username})
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *Handler) Me(ctx *gin.Context) {
	current, err := utils.CurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	user, err := h.users.GetUser(ctx.Request.Context(), current.ID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.UserResponse{ID: user.ID, Username: user.Username})
}
