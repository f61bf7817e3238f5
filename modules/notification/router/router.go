package router

import (
	"github.com/t0pa/plansync/core/middleware"
	"github.com/t0pa/plansync/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

// NotificationRouter handles notification routes
type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

func NewNotificationRouter(notificationController *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{
		NotificationController: notificationController,
	}
}

// Setup registers notification routes. All require auth.
func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	notificationRoutes := v1.Group("/notifications", mw.AuthMiddleware())
	notificationRoutes.GET("", r.NotificationController.GetMyNotifications)
	notificationRoutes.GET("/unread-count", r.NotificationController.CountUnread)
	notificationRoutes.PUT("/mark-read", r.NotificationController.MarkAsRead)
	notificationRoutes.PUT("/mark-all-read", r.NotificationController.MarkAllAsRead)
}
