package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

const identityKey = "auth_identity"

// Failure reasons are deliberately uniform so callers cannot tell which
// verification check rejected them.
const invalidTokenMessage = "couldn't validate user"

// TokenDenylist records revoked token IDs until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware validates bearer tokens and attaches the caller identity.
type AuthMiddleware struct {
	tokens   *TokenManager
	denylist TokenDenylist
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, denylist TokenDenylist) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, denylist: denylist}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized(invalidTokenMessage)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized(invalidTokenMessage)
	}

	identity, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized(invalidTokenMessage)
	}

	if m.denylist != nil && identity.TokenID != "" {
		revoked, err := m.denylist.IsRevoked(c.UserContext(), identity.TokenID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized(invalidTokenMessage)
		}
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
