package events

import (
	"time"

	"github.com/spec-kit/todo-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventTodoCreated    EventType = "todo_created"
	EventTodoCompleted  EventType = "todo_completed"
	EventTodoDeleted    EventType = "todo_deleted"
)

// Event represents a domain event emitted by services. ActorID is the user
// who triggered the action.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// TodoCreatedPayload payload.
type TodoCreatedPayload struct {
	TodoID   int64  `json:"todo_id"`
	Title    string `json:"title"`
	Priority int    `json:"priority"`
}

// TodoCompletedPayload payload.
type TodoCompletedPayload struct {
	TodoID int64 `json:"todo_id"`
}

// TodoDeletedPayload payload.
type TodoDeletedPayload struct {
	TodoID  int64 `json:"todo_id"`
	ByAdmin bool  `json:"by_admin"`
}
