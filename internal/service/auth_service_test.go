package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/config"
	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/repository"
)

type fakeUserRepo struct {
	byUsername map[string]*domain.User
	nextID     int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, exists := r.byUsername[user.Username]; exists {
		return repository.ErrDuplicateUser
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.byUsername[user.Username] = &stored
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, exists := r.byUsername[username]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

type fakeDenylist struct {
	revoked map[string]time.Duration
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: make(map[string]time.Duration)}
}

func (d *fakeDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	d.revoked[tokenID] = ttl
	return nil
}

func (d *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := d.revoked[tokenID]
	return ok, nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 30,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func newTestAuthService(users repository.UserRepository, denylist auth.TokenDenylist) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{
		UserRepo: users,
		Denylist: denylist,
	})
}

func registerInput(username string) RegisterInput {
	return RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Password:  "plaintext-password",
		Role:      domain.RoleUser,
	}
}

func TestAuthService_Register_StoresHashNotPlaintext(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo(), nil)

	user, err := svc.Register(context.Background(), registerInput("alice"))
	require.NoError(t, err)

	assert.NotEqual(t, "plaintext-password", user.PasswordHash)
	assert.True(t, auth.VerifyPassword(user.PasswordHash, "plaintext-password"))
	assert.True(t, user.IsActive)
}

func TestAuthService_Register_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo(), nil)

	input := registerInput("alice")
	input.Role = domain.Role("superuser")

	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, nil)
	ctx := context.Background()

	first, err := svc.Register(ctx, registerInput("alice"))
	require.NoError(t, err)

	second := registerInput("alice")
	second.Password = "another-password"
	_, err = svc.Register(ctx, second)
	assert.ErrorIs(t, err, repository.ErrDuplicateUser)

	// The first account is unaffected by the failed attempt.
	stored, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.PasswordHash, stored.PasswordHash)
}

func TestAuthService_Login_IssuesVerifiableToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo(), nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput("alice"))
	require.NoError(t, err)

	token, expiresAt, err := svc.Login(ctx, "alice", "plaintext-password")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, time.Second)

	identity, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, user.Username, identity.Username)
	assert.Equal(t, domain.RoleUser, identity.Role)
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo(), nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("alice"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "unknown username", username: "nobody", password: "plaintext-password"},
		{name: "wrong password", username: "alice", password: "wrong"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := svc.Login(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthService_Logout_RevokesRemainingLifetime(t *testing.T) {
	t.Parallel()

	denylist := newFakeDenylist()
	svc := newTestAuthService(newFakeUserRepo(), denylist)
	ctx := context.Background()

	identity := &auth.Identity{
		Username:  "alice",
		UserID:    1,
		TokenID:   "token-id-1",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, svc.Logout(ctx, identity))

	ttl, revoked := denylist.revoked["token-id-1"]
	require.True(t, revoked)
	assert.Greater(t, ttl, 9*time.Minute)
}

func TestAuthService_Logout_ExpiredTokenIsNoop(t *testing.T) {
	t.Parallel()

	denylist := newFakeDenylist()
	svc := newTestAuthService(newFakeUserRepo(), denylist)

	identity := &auth.Identity{
		Username:  "alice",
		UserID:    1,
		TokenID:   "token-id-2",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, svc.Logout(context.Background(), identity))
	assert.Empty(t, denylist.revoked)
}
