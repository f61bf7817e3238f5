package auth

import (
	"github.com/t0pa/plansync/core/cache"
	"github.com/t0pa/plansync/core/database"
	"github.com/t0pa/plansync/core/middleware"
	"github.com/t0pa/plansync/modules/auth/controller"
	"github.com/t0pa/plansync/modules/auth/repository"
	"github.com/t0pa/plansync/modules/auth/router"
	"github.com/t0pa/plansync/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes. It returns the
// middleware bundle and the repository for modules that need identity
// lookups (availability enrichment).
func Init(e *echo.Echo, db database.Database, c cache.Cache) (*middleware.Middleware, repository.AuthRepositoryInterface) {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)
	mw := middleware.NewMiddleware(svc)

	router.NewAuthRouter(ctrl).Setup(e, mw)
	return mw, repo
}
