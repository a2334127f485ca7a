package types

import "time"

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type TaskRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// ActionResponse is an activity log entry with its user and task resolved.
// User and Task are nil when the referenced row no longer exists.
type ActionResponse struct {
	ID        uint          `json:"id"`
	Action    ActionKind    `json:"action"`
	User      *UserResponse `json:"user"`
	Task      *TaskRef      `json:"task"`
	Details   string        `json:"details"`
	Changes   []string      `json:"changes"`
	CreatedAt time.Time     `json:"createdAt"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	ID       uint   `json:"id"`
}
