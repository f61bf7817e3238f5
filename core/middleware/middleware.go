package middleware

import (
	"context"
	"strings"

	"github.com/t0pa/plansync/core/constants"
	"github.com/t0pa/plansync/core/controller"
	"github.com/t0pa/plansync/core/errors"
	"github.com/t0pa/plansync/core/utils"

	"github.com/labstack/echo/v4"
)

// TokenValidator verifies a bearer token and returns its claims. The auth
// service implements it; middleware stays decoupled from the auth module.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*utils.TokenClaims, *errors.AppError)
}

// Middleware bundles the request middlewares that need access to services.
type Middleware struct {
	auth TokenValidator
}

func NewMiddleware(auth TokenValidator) *Middleware {
	return &Middleware{auth: auth}
}

// AuthMiddleware requires a valid bearer credential. It is the single place
// identity is decoded: handlers read the verified claims from context.
// Anything missing, garbled, revoked or expired fails closed.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "invalid authorization header format")
			}

			claims, appErr := m.auth.ValidateAccessToken(c.Request().Context(), parts[1])
			if appErr != nil {
				return controller.NewErrorResponse(controller.StatusForCode(appErr.Code), appErr.Code, appErr.Message)
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
