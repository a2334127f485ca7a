package types

const ContextUserKey = "user"

// Status is the board column a task sits in.
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Columns returns the board columns in display order.
func Columns() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ActionKind classifies an activity log entry.
type ActionKind string

const (
	ActionCreate      ActionKind = "create"
	ActionUpdate      ActionKind = "update"
	ActionDragDrop    ActionKind = "drag-drop"
	ActionAssign      ActionKind = "assign"
	ActionSmartAssign ActionKind = "smart-assign"
	ActionDelete      ActionKind = "delete"
)
