package notification

import (
	"github.com/t0pa/plansync/core/database"
	"github.com/t0pa/plansync/core/middleware"
	"github.com/t0pa/plansync/modules/notification/controller"
	"github.com/t0pa/plansync/modules/notification/repository"
	"github.com/t0pa/plansync/modules/notification/router"
	"github.com/t0pa/plansync/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes. client
// may be nil when no queue is configured. The returned service doubles as
// the notifier the event module hooks into and as the worker handler
// bundle.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, client *asynq.Client) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, client)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Setup(e, mw)
	return svc
}
