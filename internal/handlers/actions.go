package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/activity"
)

func (h *Handler) RecentActions(ctx *gin.Context) {
	actions, err := h.activity.Recent(ctx.Request.Context(), activity.DefaultLimit)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, actions)
}
