package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/t0pa/plansync/core/config"
	"github.com/t0pa/plansync/core/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenClaims is the verified identity attached to a request by the auth
// middleware. Handlers must consume it from context instead of decoding the
// bearer credential themselves.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Scope  string    `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateToken signs a JWT for the given identity and scope.
func GenerateToken(userID uuid.UUID, email string, scope string) (string, error) {
	cfg := config.Get()

	var ttl time.Duration
	switch scope {
	case constants.ScopeTokenRefresh:
		ttl = constants.RefreshTokenDuration
	case constants.ScopeTokenResetPassword:
		ttl = constants.ResetTokenDuration
	default:
		ttl = constants.AccessTokenDuration
	}

	now := time.Now()
	claims := &TokenClaims{
		UserID: userID,
		Email:  email,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateAndParseToken verifies the signature and expiry of a bearer token
// and returns its claims. Any malformed or unverifiable token fails closed.
func ValidateAndParseToken(tokenString string) (*TokenClaims, error) {
	cfg := config.Get()

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
