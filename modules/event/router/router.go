package router

import (
	"github.com/t0pa/plansync/core/middleware"
	"github.com/t0pa/plansync/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event routes
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes. Reads are public; anything that writes
// or is tied to the caller's identity requires auth.
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	eventRoutes := v1.Group("/events")
	eventRoutes.GET("", r.EventController.GetAllEvents)
	eventRoutes.GET("/:id", r.EventController.GetEventByID)
	eventRoutes.GET("/:id/ics", r.EventController.GetInvite)
	eventRoutes.GET("/:id/suggestions", r.EventController.GetSuggestions)

	eventRoutes.POST("", r.EventController.CreateEvent, mw.AuthMiddleware())
	eventRoutes.DELETE("/:id", r.EventController.DeleteEvent, mw.AuthMiddleware())
	eventRoutes.POST("/:id/availability", r.EventController.SubmitAvailability, mw.AuthMiddleware())
	eventRoutes.GET("/:id/availability/me", r.EventController.GetMyAvailability, mw.AuthMiddleware())
	eventRoutes.POST("/:id/finalize", r.EventController.FinalizeEvent, mw.AuthMiddleware())
}
