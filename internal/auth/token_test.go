package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/todo-service/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       42,
		Username: "alice",
		Role:     domain.RoleUser,
		IsActive: true,
	}
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 30)
	token, expiresAt, err := tm.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, time.Second)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, domain.RoleUser, identity.Role)
	assert.NotEmpty(t, identity.TokenID)
	assert.WithinDuration(t, expiresAt, identity.ExpiresAt, time.Second)
}

func TestTokenManager_VerifyIsIdempotent(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 30)
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	first, err := tm.Verify(token)
	require.NoError(t, err)
	second, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 30)
	token, _, err := tm.IssueWithTTL(testUser(), 0)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_TamperedSignature(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 30)
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenManager("secret-one", 30).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-two", 30).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_MissingRequiredClaims(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 30)

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{
			name: "missing subject",
			claims: jwt.MapClaims{
				"user_id": int64(42),
				"exp":     time.Now().Add(time.Hour).Unix(),
			},
		},
		{
			name: "missing user id",
			claims: jwt.MapClaims{
				"sub": "alice",
				"exp": time.Now().Add(time.Hour).Unix(),
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims)
			signed, err := raw.SignedString([]byte("test-secret"))
			require.NoError(t, err)

			_, err = tm.Verify(signed)
			assert.ErrorIs(t, err, ErrMalformedClaims)
		})
	}
}

func TestTokenManager_RejectsUnexpectedSigningMethod(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 30)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":     "alice",
		"user_id": int64(42),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
