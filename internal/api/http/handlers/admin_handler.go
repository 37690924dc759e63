package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/service"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

// AdminHandler exposes admin-only todo endpoints. Role gating happens in the
// route chain before these run.
type AdminHandler struct {
	service *service.TodoService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(todoService *service.TodoService) *AdminHandler {
	return &AdminHandler{service: todoService}
}

// ListAll GET /admin/todos.
func (h *AdminHandler) ListAll(c *fiber.Ctx) error {
	todos, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": todoResponses(todos)})
}

// Delete DELETE /admin/todos/:id.
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("couldn't validate user")
	}
	todoID, err := parseTodoID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAny(c.UserContext(), identity.UserID, todoID); err != nil {
		return mapTodoError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}
