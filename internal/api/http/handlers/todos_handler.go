package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/todo-service/internal/api/dto"
	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/service"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

// TodosHandler manages owner-scoped todo endpoints.
type TodosHandler struct {
	service *service.TodoService
}

// NewTodosHandler constructs handler.
func NewTodosHandler(todoService *service.TodoService) *TodosHandler {
	return &TodosHandler{service: todoService}
}

// Create POST /todos.
func (h *TodosHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("couldn't validate user")
	}
	input, err := parseTodoRequest(c)
	if err != nil {
		return err
	}

	todo, err := h.service.Create(c.UserContext(), identity.UserID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": todoResponse(todo)})
}

// List GET /todos.
func (h *TodosHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("couldn't validate user")
	}
	todos, err := h.service.ListForOwner(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": todoResponses(todos)})
}

// Get GET /todos/:id.
func (h *TodosHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("couldn't validate user")
	}
	todoID, err := parseTodoID(c)
	if err != nil {
		return err
	}

	todo, err := h.service.GetForOwner(c.UserContext(), identity.UserID, todoID)
	if err != nil {
		return mapTodoError(err)
	}
	return c.JSON(fiber.Map{"data": todoResponse(todo)})
}

// Update PUT /todos/:id.
func (h *TodosHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("couldn't validate user")
	}
	todoID, err := parseTodoID(c)
	if err != nil {
		return err
	}
	input, err := parseTodoRequest(c)
	if err != nil {
		return err
	}

	if _, err := h.service.UpdateForOwner(c.UserContext(), identity.UserID, todoID, input); err != nil {
		return mapTodoError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete DELETE /todos/:id.
func (h *TodosHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("couldn't validate user")
	}
	todoID, err := parseTodoID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteForOwner(c.UserContext(), identity.UserID, todoID); err != nil {
		return mapTodoError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseTodoID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid todo id", nil)
	}
	return id, nil
}

func parseTodoRequest(c *fiber.Ctx) (service.TodoInput, error) {
	var req dto.TodoRequest
	if err := c.BodyParser(&req); err != nil {
		return service.TodoInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" {
		return service.TodoInput{}, apperrors.NewValidationError("title required", nil)
	}
	if req.Priority < 1 || req.Priority > 5 {
		return service.TodoInput{}, apperrors.NewValidationError("priority must be between 1 and 5", nil)
	}
	return service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
	}, nil
}

func mapTodoError(err error) error {
	if errors.Is(err, service.ErrTodoNotFound) {
		return apperrors.NewNotFound("todo", nil)
	}
	return err
}

func todoResponse(todo *domain.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:          todo.ID,
		OwnerID:     todo.OwnerID,
		Title:       todo.Title,
		Description: todo.Description,
		Priority:    todo.Priority,
		Completed:   todo.Completed,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func todoResponses(todos []domain.Todo) []dto.TodoResponse {
	items := make([]dto.TodoResponse, 0, len(todos))
	for i := range todos {
		items = append(items, todoResponse(&todos[i]))
	}
	return items
}
