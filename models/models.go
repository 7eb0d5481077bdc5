package models

import (
	"encoding/json"
	"time"
)

// Conversation roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message in a conversation transcript.
// Ordering is conversation order; a Turn is never mutated after creation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnEvent is a completed call turn as published on the transcript exchange
// and archived to redis.
type TurnEvent struct {
	CallID  string `json:"callId"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (t *TurnEvent) MarshalBinary() ([]byte, error) {
	return json.Marshal(t)
}

func (t *TurnEvent) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, t)
}

// Task is one user-created assistant task.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	TaskType    string     `json:"task_type"`
	AIResponse  string     `json:"ai_response,omitempty"`
	Status      string     `json:"status"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (t *Task) MarshalBinary() ([]byte, error) {
	return json.Marshal(t)
}

func (t *Task) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, t)
}

// TaskUpdate is the allow-list of fields a task update may touch. Nil fields
// are left unchanged; anything not named here cannot be updated at all.
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	TaskType    *string    `json:"task_type,omitempty"`
	Status      *string    `json:"status,omitempty"`
}
