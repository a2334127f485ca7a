package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/board"
	"github.com/monocle-dev/taskboard/internal/utils"
)

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

func (h *Handler) ListTasks(ctx *gin.Context) {
	tasks, err := h.board.ListTasks(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(ctx *gin.Context) {
	user, err := utils.CurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	task, err := h.board.CreateTask(ctx.Request.Context(), user.ID, board.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(ctx *gin.Context) {
	user, err := utils.CurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	taskID, err := utils.TaskID(ctx)

	if err != nil {
		h.respondError(ctx, board.ErrTaskNotFound)
		return
	}

	raw, err := ctx.GetRawData()

	if err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	in, err := parseUpdate(raw)

	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	task, err := h.board.UpdateTask(ctx.Request.Context(), user.ID, taskID, in)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	user, err := utils.CurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	taskID, err := utils.TaskID(ctx)

	if err != nil {
		h.respondError(ctx, board.ErrTaskNotFound)
		return
	}

	if _, err := h.board.DeleteTask(ctx.Request.Context(), user.ID, taskID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func (h *Handler) SmartAssign(ctx *gin.Context) {
	user, err := utils.CurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	taskID, err := utils.TaskID(ctx)

	if err != nil {
		h.respondError(ctx, board.ErrTaskNotFound)
		return
	}

	task, err := h.board.SmartAssign(ctx.Request.Context(), user.ID, taskID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// parseUpdate keeps track of which fields the client actually sent. An
// absent field and a null one both leave the task untouched, except for
// assignedTo where null means unassign.
func parseUpdate(raw []byte) (board.UpdateInput, error) {
	in := board.UpdateInput{Raw: json.RawMessage(raw)}

	if len(raw) == 0 {
		in.Raw = json.RawMessage("{}")
		return in, nil
	}

	var fields map[string]json.RawMessage

	if err := json.Unmarshal(raw, &fields); err != nil {
		return board.UpdateInput{}, fmt.Errorf("Invalid request")
	}

	var err error

	if in.Title, err = optionalString(fields, "title"); err != nil {
		return board.UpdateInput{}, err
	}

	if in.Description, err = optionalString(fields, "description"); err != nil {
		return board.UpdateInput{}, err
	}

	if in.Status, err = optionalString(fields, "status"); err != nil {
		return board.UpdateInput{}, err
	}

	if in.Priority, err = optionalString(fields, "priority"); err != nil {
		return board.UpdateInput{}, err
	}

	if value, ok := fields["assignedTo"]; ok {
		in.AssignedTo = board.ParseAssignee(value)
	}

	if value, ok := fields["version"]; ok && !isNull(value) {
		version, err := parseVersion(value)
		if err != nil {
			return board.UpdateInput{}, err
		}
		in.Version = &version
	}

	return in, nil
}

// parseVersion accepts any JSON number with an integral value, so 3 and 3.0
// name the same version. Strings are rejected rather than compared.
func parseVersion(value json.RawMessage) (int, error) {
	var f float64

	if err := json.Unmarshal(value, &f); err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("version must be an integer")
	}

	return int(f), nil
}

func optionalString(fields map[string]json.RawMessage, key string) (*string, error) {
	value, ok := fields[key]

	if !ok || isNull(value) {
		return nil, nil
	}

	var s string

	if err := json.Unmarshal(value, &s); err != nil {
		return nil, fmt.Errorf("%s must be a string", key)
	}

	return &s, nil
}

func isNull(value json.RawMessage) bool {
	return string(value) == "null"
}
