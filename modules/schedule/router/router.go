package router

import (
	"github.com/t0pa/plansync/modules/schedule/controller"

	"github.com/labstack/echo/v4"
)

// ScheduleRouter handles grid routes
type ScheduleRouter struct {
	ScheduleController *controller.ScheduleController
}

func NewScheduleRouter(scheduleController *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{
		ScheduleController: scheduleController,
	}
}

// Setup registers schedule routes. The grid is public: reading the
// coordinate space requires no identity.
func (r *ScheduleRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	scheduleRoutes := v1.Group("/schedule")
	scheduleRoutes.GET("/grid", r.ScheduleController.GetGrid)
	scheduleRoutes.GET("/presets", r.ScheduleController.GetPresets)
}
