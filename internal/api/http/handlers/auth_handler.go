package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/todo-service/internal/api/dto"
	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/repository"
	"github.com/spec-kit/todo-service/internal/service"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

// AuthHandler exposes registration, login and logout endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, password required", nil)
	}

	input := service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
	}
	if _, err := h.auth.Register(c.UserContext(), input); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUser):
			return apperrors.NewConflict("username already taken", nil)
		case errors.Is(err, service.ErrUnknownRole):
			return apperrors.NewValidationError("unknown role", nil)
		}
		return err
	}

	return c.SendStatus(http.StatusCreated)
}

// Login handles POST /auth/token. Credentials arrive form-encoded.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, _, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("couldn't validate user")
		}
		return err
	}

	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Logout handles POST /auth/logout. The presented token is revoked for the
// rest of its lifetime.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("couldn't validate user")
	}
	if err := h.auth.Logout(c.UserContext(), identity); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
