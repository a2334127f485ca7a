package board

import (
	"encoding/json"
	"errors"

	"github.com/monocle-dev/taskboard/internal/models"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrTaskNotFound     = errors.New("Task not found")
	ErrUserNotFound     = errors.New("User not found")
	ErrNoUsersAvailable = errors.New("No users found")
	ErrConflict         = errors.New("Conflict detected")
	ErrTaskBusy         = errors.New("Task is being updated, try again")

	// ErrStaleWrite is returned by a Store when a conditional update matched
	// no row: the task was changed or removed after it was read.
	ErrStaleWrite = errors.New("stale write")
)

var (
	ErrInvalidTitle    = &ValidationError{Field: "title", Message: "Title must be unique and not a column name"}
	ErrTitleRequired   = &ValidationError{Field: "title", Message: "Title is required"}
	ErrInvalidStatus   = &ValidationError{Field: "status", Message: "Status must be one of Todo, In Progress, Done"}
	ErrInvalidPriority = &ValidationError{Field: "priority", Message: "Priority must be one of Low, Medium, High"}
)

// ValidationError reports bad client input. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError carries both competing states of a task so the caller can
// pick one or merge them by hand.
type ConflictError struct {
	Server models.Task
	Client json.RawMessage
}

func (e *ConflictError) Error() string { return ErrConflict.Error() }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
