package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/config"
	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/events"
	"github.com/spec-kit/todo-service/internal/repository"
)

// Auth failures surfaced by AuthService. ErrInvalidCredentials covers both
// an unknown username and a wrong password, so login responses never reveal
// which field was wrong.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownRole        = errors.New("unknown role")
)

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	denylist   auth.TokenDenylist
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Denylist   auth.TokenDenylist
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service. The signing secret travels from config
// into the token manager and nowhere else.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		denylist:   deps.Denylist,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterInput describes a registration payload.
type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      domain.Role
}

// Register creates a new account. The role must be one of the known values;
// client-supplied strings outside the enum are rejected.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, ErrUnknownRole
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		ActorID:   user.ID,
		Timestamp: time.Now(),
		Payload:   events.UserRegisteredPayload{Username: user.Username, Role: user.Role},
	})
	return user, nil
}

// Login authenticates the credentials and mints an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.tokenMgr.Issue(user)
}

// Logout revokes the presented token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, identity *auth.Identity) error {
	if s.denylist == nil || identity.TokenID == "" {
		return nil
	}
	remaining := time.Until(identity.ExpiresAt)
	if remaining <= 0 {
		return nil
	}
	return s.denylist.Revoke(ctx, identity.TokenID, remaining)
}

// authenticate looks the user up by username and verifies the password.
// Both failure modes collapse into ErrInvalidCredentials.
func (s *AuthService) authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
