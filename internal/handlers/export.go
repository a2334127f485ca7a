package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ExportBoard(ctx *gin.Context) {
	tasks, err := h.board.ListTasks(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	entries, err := h.activity.All(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	workbook, err := export.Build(tasks, entries)

	if err != nil {
		h.respondError(ctx, err)
		return
	}
	defer func() { _ = workbook.Close() }()

	filename := fmt.Sprintf("board-%s.xlsx", time.Now().UTC().Format("20060102-150405"))

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Header("Content-Type", xlsxContentType)
	ctx.Status(http.StatusOK)

	if err := workbook.Write(ctx.Writer); err != nil {
		h.log.Error().Ctx(ctx.Request.Context()).Err(err).Msg("failed to write workbook")
	}
}
