package router

import (
	"github.com/t0pa/plansync/core/middleware"
	"github.com/t0pa/plansync/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter handles identity routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", r.AuthController.Register)
	authRoutes.POST("/login", r.AuthController.Login)
	authRoutes.POST("/refresh", r.AuthController.RefreshToken)
	authRoutes.POST("/forgot-password", r.AuthController.ForgotPassword)
	authRoutes.POST("/reset-password", r.AuthController.ResetPassword)
	authRoutes.GET("/me", r.AuthController.GetMe, mw.AuthMiddleware())
}
