package board

import (
	"fmt"

	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
)

// Changes records which semantically significant fields an update touched.
type Changes struct {
	Status     bool
	Assignment bool
}

// updateRules is checked top to bottom; the first matching rule names the
// update. A status change dominates an assignment made in the same request.
var updateRules = []struct {
	matches func(Changes) bool
	kind    types.ActionKind
}{
	{func(c Changes) bool { return c.Status }, types.ActionDragDrop},
	{func(c Changes) bool { return c.Assignment }, types.ActionAssign},
}

// Classify returns the action kind for an update with the given changes.
func Classify(c Changes) types.ActionKind {
	for _, rule := range updateRules {
		if rule.matches(c) {
			return rule.kind
		}
	}

	return types.ActionUpdate
}

// Describe renders the human readable detail stored with a log entry.
func Describe(kind types.ActionKind, task models.Task, assignee *models.User) string {
	switch kind {
	case types.ActionCreate:
		return fmt.Sprintf("Created task '%s'", task.Title)
	case types.ActionDragDrop:
		return fmt.Sprintf("Moved to '%s'", task.Status)
	case types.ActionAssign:
		if task.AssignedTo == nil {
			return "Unassigned"
		}
		return fmt.Sprintf("Assigned to user %d", *task.AssignedTo)
	case types.ActionSmartAssign:
		if assignee != nil {
			return fmt.Sprintf("Smart assigned to %s", assignee.Username)
		}
		return "Smart assigned"
	case types.ActionDelete:
		return fmt.Sprintf("Deleted task '%s'", task.Title)
	default:
		return fmt.Sprintf("Updated task '%s'", task.Title)
	}
}
