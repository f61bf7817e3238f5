package utils

import (
	"testing"
	"time"

	"github.com/t0pa/plansync/core/config"
	"github.com/t0pa/plansync/core/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.Set(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret"},
	})
	m.Run()
}

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "alex@example.com", constants.ScopeTokenAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alex@example.com", claims.Email)
	assert.Equal(t, constants.ScopeTokenAccess, claims.Scope)
}

func TestValidateRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := ValidateAndParseToken(bad)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", bad)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	claims := &TokenClaims{
		UserID: uuid.New(),
		Scope:  constants.ScopeTokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = ValidateAndParseToken(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateExpiredToken(t *testing.T) {
	claims := &TokenClaims{
		UserID: uuid.New(),
		Scope:  constants.ScopeTokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ValidateAndParseToken(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateRejectsNilUserID(t *testing.T) {
	claims := &TokenClaims{
		Scope: constants.ScopeTokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ValidateAndParseToken(anonymous)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, ComparePassword(hash, "hunter2hunter2"))
	assert.False(t, ComparePassword(hash, "wrong-password"))
}

func TestGenerateIDShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := GenerateID()
		assert.Len(t, id, 7)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
