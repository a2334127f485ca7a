package board

import (
	"encoding/json"

	"github.com/monocle-dev/taskboard/internal/models"
)

// CheckVersion decides whether an update was based on the stored state.
// A nil expected version skips the check.
func CheckVersion(stored models.Task, expected *int, client json.RawMessage) error {
	if expected == nil || *expected == stored.Version {
		return nil
	}

	return &ConflictError{Server: stored, Client: client}
}
