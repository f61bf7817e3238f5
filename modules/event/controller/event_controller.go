package controller

import (
	"net/http"
	"strconv"

	"github.com/t0pa/plansync/core/constants"
	"github.com/t0pa/plansync/core/controller"
	"github.com/t0pa/plansync/core/errors"
	"github.com/t0pa/plansync/core/params"
	"github.com/t0pa/plansync/core/utils"
	"github.com/t0pa/plansync/modules/event/dto"
	"github.com/t0pa/plansync/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles event HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

func (c *EventController) claims(ctx echo.Context) (*utils.TokenClaims, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	return claims, ok
}

func (c *EventController) eventID(ctx echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	return id, err == nil
}

// CreateEvent handles POST /events
func (c *EventController) CreateEvent(ctx echo.Context) error {
	claims, ok := c.claims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Event created")
}

// GetAllEvents handles GET /events
func (c *EventController) GetAllEvents(ctx echo.Context) error {
	p := params.NewQueryParams(ctx)

	result, appErr := c.EventService.GetAllEvents(ctx.Request().Context(), p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetEventByID handles GET /events/:id. Public: anyone with the link can
// read the grid and the aggregate.
func (c *EventController) GetEventByID(ctx echo.Context) error {
	id, ok := c.eventID(ctx)
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.EventService.GetEventByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// DeleteEvent handles DELETE /events/:id
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	claims, ok := c.claims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, ok := c.eventID(ctx)
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), id, claims.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted")
}

// SubmitAvailability handles POST /events/:id/availability
func (c *EventController) SubmitAvailability(ctx echo.Context) error {
	claims, ok := c.claims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, ok := c.eventID(ctx)
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	var req dto.SubmitAvailabilityRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.SubmitAvailability(ctx.Request().Context(), id, claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Availability saved")
}

// GetMyAvailability handles GET /events/:id/availability/me
func (c *EventController) GetMyAvailability(ctx echo.Context) error {
	claims, ok := c.claims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, ok := c.eventID(ctx)
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.EventService.GetMyAvailability(ctx.Request().Context(), id, claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetSuggestions handles GET /events/:id/suggestions
func (c *EventController) GetSuggestions(ctx echo.Context) error {
	id, ok := c.eventID(ctx)
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	result, appErr := c.EventService.SuggestSlots(ctx.Request().Context(), id, limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// FinalizeEvent handles POST /events/:id/finalize
func (c *EventController) FinalizeEvent(ctx echo.Context) error {
	claims, ok := c.claims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, ok := c.eventID(ctx)
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	var req dto.FinalizeEventRequest
	if err := ctx.Bind(&req); err != nil || req.Slot == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.FinalizeEvent(ctx.Request().Context(), id, claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event finalized")
}

// GetInvite handles GET /events/:id/ics
func (c *EventController) GetInvite(ctx echo.Context) error {
	id, ok := c.eventID(ctx)
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	body, appErr := c.EventService.GetInvite(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.Blob(http.StatusOK, "text/calendar", body)
}
