package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/events"
	"github.com/spec-kit/todo-service/internal/repository"
)

// ErrTodoNotFound covers both a missing record and an ownership miss, so a
// non-owner cannot learn whether the record exists.
var ErrTodoNotFound = errors.New("todo not found")

// TodoService coordinates todo workflows. Ownership is enforced here before
// any mutating call reaches the repository.
type TodoService struct {
	todos      repository.TodoRepository
	dispatcher events.Dispatcher
}

// NewTodoService constructs the service.
func NewTodoService(todos repository.TodoRepository, dispatcher events.Dispatcher) *TodoService {
	return &TodoService{todos: todos, dispatcher: dispatcher}
}

// TodoInput describes a create/replace payload.
type TodoInput struct {
	Title       string
	Description string
	Priority    int
	Completed   bool
}

// Create stores a new todo owned by the caller.
func (s *TodoService) Create(ctx context.Context, ownerID int64, input TodoInput) (*domain.Todo, error) {
	todo := &domain.Todo{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Completed:   input.Completed,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTodoCreated,
		ActorID:   ownerID,
		Timestamp: time.Now(),
		Payload:   events.TodoCreatedPayload{TodoID: todo.ID, Title: todo.Title, Priority: todo.Priority},
	})
	return todo, nil
}

// ListForOwner returns the caller's todos.
func (s *TodoService) ListForOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return s.todos.ListByOwner(ctx, ownerID)
}

// GetForOwner returns one of the caller's todos by id.
func (s *TodoService) GetForOwner(ctx context.Context, ownerID, todoID int64) (*domain.Todo, error) {
	todo, err := s.todos.GetByOwner(ctx, todoID, ownerID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return todo, nil
}

// UpdateForOwner replaces the fields of one of the caller's todos.
func (s *TodoService) UpdateForOwner(ctx context.Context, ownerID, todoID int64, input TodoInput) (*domain.Todo, error) {
	todo, err := s.todos.GetByOwner(ctx, todoID, ownerID)
	if err != nil {
		return nil, mapNoRows(err)
	}

	justCompleted := !todo.Completed && input.Completed

	todo.Title = input.Title
	todo.Description = input.Description
	todo.Priority = input.Priority
	todo.Completed = input.Completed
	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, mapNoRows(err)
	}

	if justCompleted {
		s.publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTodoCompleted,
			ActorID:   ownerID,
			Timestamp: time.Now(),
			Payload:   events.TodoCompletedPayload{TodoID: todo.ID},
		})
	}
	return todo, nil
}

// DeleteForOwner removes one of the caller's todos.
func (s *TodoService) DeleteForOwner(ctx context.Context, ownerID, todoID int64) error {
	if err := s.todos.DeleteByOwner(ctx, todoID, ownerID); err != nil {
		return mapNoRows(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTodoDeleted,
		ActorID:   ownerID,
		Timestamp: time.Now(),
		Payload:   events.TodoDeletedPayload{TodoID: todoID},
	})
	return nil
}

// ListAll returns every todo regardless of owner. Callers must be
// role-gated before reaching this.
func (s *TodoService) ListAll(ctx context.Context) ([]domain.Todo, error) {
	return s.todos.ListAll(ctx)
}

// DeleteAny removes any todo by id regardless of owner.
func (s *TodoService) DeleteAny(ctx context.Context, adminID, todoID int64) error {
	if err := s.todos.Delete(ctx, todoID); err != nil {
		return mapNoRows(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTodoDeleted,
		ActorID:   adminID,
		Timestamp: time.Now(),
		Payload:   events.TodoDeletedPayload{TodoID: todoID, ByAdmin: true},
	})
	return nil
}

func (s *TodoService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTodoNotFound
	}
	return err
}
