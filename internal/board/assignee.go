package board

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AssigneeChange is the normalised assignedTo field of an update request.
type AssigneeChange struct {
	// Set is false when the request did not mention assignedTo at all.
	Set bool
	// UserID is nil for an unassignment.
	UserID *uint
}

// ParseAssignee normalises a raw assignedTo value. null, "" and anything
// that is not a positive integer id (as a JSON number or numeric string)
// mean "unassign"; malformed references are never rejected.
func ParseAssignee(raw json.RawMessage) AssigneeChange {
	if len(raw) == 0 {
		return AssigneeChange{}
	}

	change := AssigneeChange{Set: true}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return change
	}

	switch v := value.(type) {
	case string:
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err == nil && id > 0 && id <= math.MaxUint32 {
			userID := uint(id)
			change.UserID = &userID
		}
	case float64:
		if v > 0 && v <= math.MaxUint32 && v == math.Trunc(v) {
			userID := uint(v)
			change.UserID = &userID
		}
	}

	return change
}

func sameAssignee(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
