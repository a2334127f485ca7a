package board

import (
	"testing"

	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		changes Changes
		want    types.ActionKind
	}{
		{name: "nothing significant", changes: Changes{}, want: types.ActionUpdate},
		{name: "status only", changes: Changes{Status: true}, want: types.ActionDragDrop},
		{name: "assignment only", changes: Changes{Assignment: true}, want: types.ActionAssign},
		{name: "status wins over assignment", changes: Changes{Status: true, Assignment: true}, want: types.ActionDragDrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.changes))
		})
	}
}

func TestDescribe(t *testing.T) {
	userID := uint(7)
	task := models.Task{Title: "Write docs", Status: types.StatusInProgress, AssignedTo: &userID}

	assert.Equal(t, "Created task 'Write docs'", Describe(types.ActionCreate, task, nil))
	assert.Equal(t, "Moved to 'In Progress'", Describe(types.ActionDragDrop, task, nil))
	assert.Equal(t, "Assigned to user 7", Describe(types.ActionAssign, task, nil))
	assert.Equal(t, "Smart assigned to bob", Describe(types.ActionSmartAssign, task, &models.User{Username: "bob"}))
	assert.Equal(t, "Smart assigned", Describe(types.ActionSmartAssign, task, nil))
	assert.Equal(t, "Deleted task 'Write docs'", Describe(types.ActionDelete, task, nil))
	assert.Equal(t, "Updated task 'Write docs'", Describe(types.ActionUpdate, task, nil))

	task.AssignedTo = nil
	assert.Equal(t, "Unassigned", Describe(types.ActionAssign, task, nil))
}
