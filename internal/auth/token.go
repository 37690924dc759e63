package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/todo-service/internal/domain"
)

// Verification failures surfaced by TokenManager.Verify.
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrMalformedClaims = errors.New("malformed token claims")
)

// Identity is the decoded claim set attached to a request after a token
// passes verification. It lives for the duration of one request.
type Identity struct {
	Username  string
	UserID    int64
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// TokenManager issues and verifies signed access tokens. The signing secret
// is injected at construction and held immutable for the process lifetime.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager with the given secret and default TTL.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 30
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload.
type Claims struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token for the user using the default TTL.
func (tm *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	return tm.IssueWithTTL(user, tm.ttl)
}

// IssueWithTTL signs a token for the user that expires ttl from now. The TTL
// is taken as given, so a zero or negative value produces an already-expired
// token.
func (tm *TokenManager) IssueWithTTL(user *domain.User, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and extracts the identity claims. The
// claims are trusted as encoded; no lookup against the credential store
// happens here.
func (tm *TokenManager) Verify(tokenStr string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, ErrMalformedClaims
	}

	identity := &Identity{
		Username: claims.Subject,
		UserID:   claims.UserID,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}
