package controller

import (
	"strconv"

	"github.com/t0pa/plansync/core/controller"
	"github.com/t0pa/plansync/modules/schedule/dto"
	"github.com/t0pa/plansync/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// ScheduleController serves the canonical grid and preset definitions.
type ScheduleController struct {
	controller.BaseController
	Grid *service.Grid
}

func NewScheduleController(grid *service.Grid) *ScheduleController {
	return &ScheduleController{
		BaseController: controller.NewBaseController(),
		Grid:           grid,
	}
}

// GetGrid handles GET /schedule/grid
func (c *ScheduleController) GetGrid(ctx echo.Context) error {
	weeks := 0
	if raw := ctx.QueryParam("weeks"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			weeks = n
		}
	}

	resp := &dto.GridResponse{
		TimeLabels:  c.Grid.TimeLabels(),
		Days:        c.Grid.Days(weeks),
		SlotMinutes: c.Grid.SlotMinutes,
		StartHour:   c.Grid.StartHour,
		Weeks:       c.Grid.Weeks,
	}
	return c.SuccessResponse(ctx, resp, "Success")
}

// GetPresets handles GET /schedule/presets
func (c *ScheduleController) GetPresets(ctx echo.Context) error {
	return c.SuccessResponse(ctx, &dto.PresetsResponse{Presets: c.Grid.Presets()}, "Success")
}
