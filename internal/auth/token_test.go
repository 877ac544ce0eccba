package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/domain"
)

const testSecret = "test-secret"

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(testSecret, 60)
	require.NoError(t, err)
	return tm
}

func TestNewTokenManagerEmptySecret(t *testing.T) {
	_, err := NewTokenManager("", 60)
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestGenerateAndParseToken(t *testing.T) {
	tm := newTestManager(t)
	user := &domain.User{ID: "user-1", Email: "a@x.com"}

	token, exp, err := tm.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestParseTokenExpired(t *testing.T) {
	tm := newTestManager(t)

	claims := &Claims{
		UserID: "user-1",
		Email:  "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.ParseToken(signed)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenTamperedSignature(t *testing.T) {
	tm := newTestManager(t)

	token, _, err := tm.GenerateToken(&domain.User{ID: "user-1", Email: "a@x.com"})
	require.NoError(t, err)

	// Flip the last byte of the signature segment.
	tampered := token[:len(token)-1]
	if strings.HasSuffix(token, "A") {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, err = tm.ParseToken(tampered)
	require.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	other, err := NewTokenManager("another-secret", 60)
	require.NoError(t, err)

	token, _, err := other.GenerateToken(&domain.User{ID: "user-1", Email: "a@x.com"})
	require.NoError(t, err)

	tm := newTestManager(t)
	_, err = tm.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsUnexpectedSigningMethod(t *testing.T) {
	tm := newTestManager(t)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.ParseToken(unsigned)
	require.Error(t, err)
}

func TestParseTokenMalformed(t *testing.T) {
	tm := newTestManager(t)
	_, err := tm.ParseToken("not-a-token")
	require.Error(t, err)
}
