package event

import (
	"github.com/t0pa/plansync/core/config"
	"github.com/t0pa/plansync/core/database"
	"github.com/t0pa/plansync/core/middleware"
	"github.com/t0pa/plansync/modules/event/controller"
	"github.com/t0pa/plansync/modules/event/repository"
	"github.com/t0pa/plansync/modules/event/router"
	"github.com/t0pa/plansync/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes. identities and
// notifier come from the auth and notification modules; notifier may be
// nil when no worker is configured. It returns the repository so the
// scheduler can poll open-event counts.
func Init(e *echo.Echo, db database.Database, cfg *config.Config, mw *middleware.Middleware, identities service.IdentityResolver, notifier service.Notifier) repository.EventRepositoryInterface {
	repo := repository.NewEventRepository(db)

	var uploader service.InviteUploader
	if up := service.NewS3Uploader(cfg.Storage); up != nil {
		uploader = up
	}
	invites := service.NewInviteExporter(cfg.Schedule.SlotMinutes, uploader)

	svc := service.NewEventService(repo, identities, notifier, invites)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Setup(e, mw)
	return repo
}
