package schedule

import (
	"github.com/t0pa/plansync/core/config"
	"github.com/t0pa/plansync/modules/schedule/controller"
	"github.com/t0pa/plansync/modules/schedule/router"
	"github.com/t0pa/plansync/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the schedule module and registers routes. It returns the
// grid so other modules index into the same coordinate space.
func Init(e *echo.Echo, cfg config.ScheduleConfig) *service.Grid {
	grid := service.NewGrid(cfg)
	ctrl := controller.NewScheduleController(grid)
	rtr := router.NewScheduleRouter(ctrl)

	rtr.Setup(e)
	return grid
}
