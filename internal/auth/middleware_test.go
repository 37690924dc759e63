package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/todo-service/internal/domain"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

type fakeDenylist struct {
	revoked map[string]bool
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: make(map[string]bool)}
}

func (d *fakeDenylist) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	d.revoked[tokenID] = true
	return nil
}

func (d *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return d.revoked[tokenID], nil
}

// newTestApp wires an admin-gated route and a plain protected route behind
// the middleware under test. The counters record how often each handler ran.
func newTestApp(tm *TokenManager, denylist TokenDenylist, protectedHits, adminHits *atomic.Int64) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Code})
		},
	})

	mw := NewAuthMiddleware(tm, denylist)

	app.Get("/todos", mw.Handle, func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized("couldn't validate user")
		}
		protectedHits.Add(1)
		return c.SendStatus(http.StatusOK)
	})

	app.Get("/admin/todos", mw.Handle, RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		adminHits.Add(1)
		return c.SendStatus(http.StatusOK)
	})

	return app
}

func doRequest(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_MissingAndMalformedHeaders(t *testing.T) {
	t.Parallel()

	var protectedHits, adminHits atomic.Int64
	tm := NewTokenManager("test-secret", 30)
	app := newTestApp(tm, newFakeDenylist(), &protectedHits, &adminHits)

	resp := doRequest(t, app, "/todos", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "/todos", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Equal(t, int64(0), protectedHits.Load())
}

func TestAuthMiddleware_ValidTokenPasses(t *testing.T) {
	t.Parallel()

	var protectedHits, adminHits atomic.Int64
	tm := NewTokenManager("test-secret", 30)
	app := newTestApp(tm, newFakeDenylist(), &protectedHits, &adminHits)

	token, _, err := tm.Issue(&domain.User{ID: 1, Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)

	resp := doRequest(t, app, "/todos", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), protectedHits.Load())
}

func TestAuthMiddleware_ExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	var protectedHits, adminHits atomic.Int64
	tm := NewTokenManager("test-secret", 30)
	app := newTestApp(tm, newFakeDenylist(), &protectedHits, &adminHits)

	token, _, err := tm.IssueWithTTL(&domain.User{ID: 1, Username: "alice", Role: domain.RoleUser}, -time.Minute)
	require.NoError(t, err)

	resp := doRequest(t, app, "/todos", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int64(0), protectedHits.Load())
}

func TestRequireRole_NonAdminRejectedBeforeHandler(t *testing.T) {
	t.Parallel()

	var protectedHits, adminHits atomic.Int64
	tm := NewTokenManager("test-secret", 30)
	app := newTestApp(tm, newFakeDenylist(), &protectedHits, &adminHits)

	token, _, err := tm.Issue(&domain.User{ID: 1, Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)

	resp := doRequest(t, app, "/admin/todos", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, int64(0), adminHits.Load())
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	t.Parallel()

	var protectedHits, adminHits atomic.Int64
	tm := NewTokenManager("test-secret", 30)
	app := newTestApp(tm, newFakeDenylist(), &protectedHits, &adminHits)

	token, _, err := tm.Issue(&domain.User{ID: 2, Username: "root", Role: domain.RoleAdmin})
	require.NoError(t, err)

	resp := doRequest(t, app, "/admin/todos", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), adminHits.Load())
}

func TestAuthMiddleware_RevokedTokenRejected(t *testing.T) {
	t.Parallel()

	var protectedHits, adminHits atomic.Int64
	tm := NewTokenManager("test-secret", 30)
	denylist := newFakeDenylist()
	app := newTestApp(tm, denylist, &protectedHits, &adminHits)

	token, _, err := tm.Issue(&domain.User{ID: 1, Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	require.NoError(t, denylist.Revoke(context.Background(), identity.TokenID, time.Minute))

	resp := doRequest(t, app, "/todos", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int64(0), protectedHits.Load())
}
