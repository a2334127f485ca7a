package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/board"
	"github.com/monocle-dev/taskboard/internal/store"
)

// respondError maps service errors to status codes. Anything unrecognised is
// logged and reported as a 500 without details.
func (h *Handler) respondError(ctx *gin.Context, err error) {
	var conflict *board.ConflictError

	switch {
	case errors.As(err, &conflict):
		client := conflict.Client
		if len(client) == 0 {
			client = json.RawMessage("{}")
		}

		ctx.JSON(http.StatusConflict, gin.H{
			"message":    board.ErrConflict.Error(),
			"serverTask": conflict.Server,
			"clientTask": client,
		})
	case errors.Is(err, board.ErrValidation),
		errors.Is(err, board.ErrNoUsersAvailable),
		errors.Is(err, store.ErrUsernameTaken):
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, board.ErrTaskNotFound), errors.Is(err, board.ErrUserNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, board.ErrTaskBusy):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"message": err.Error()})
	default:
		_ = ctx.Error(err)
		h.log.Error().Ctx(ctx.Request.Context()).Err(err).
			Str("path", ctx.FullPath()).
			Msg("request failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"message": message})
}

func unauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
}
