package controller

import (
	"github.com/t0pa/plansync/core/constants"
	"github.com/t0pa/plansync/core/controller"
	"github.com/t0pa/plansync/core/errors"
	"github.com/t0pa/plansync/core/params"
	"github.com/t0pa/plansync/core/utils"
	"github.com/t0pa/plansync/modules/notification/dto"
	"github.com/t0pa/plansync/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// NotificationController handles notification HTTP requests
type NotificationController struct {
	controller.BaseController
	NotificationService *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{
		BaseController:      controller.NewBaseController(),
		NotificationService: svc,
	}
}

func (c *NotificationController) claims(ctx echo.Context) (*utils.TokenClaims, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	return claims, ok
}

// GetMyNotifications handles GET /notifications
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	claims, ok := c.claims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	p := params.NewQueryParams(ctx)
	result, appErr := c.NotificationService.GetMyNotifications(ctx.Request().Context(), claims.UserID, p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// MarkAsRead handles PUT /notifications/mark-read
func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	claims, ok := c.claims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.MarkAsReadRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if appErr := c.NotificationService.MarkAsRead(ctx.Request().Context(), claims.UserID, req.IDs); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Marked as read")
}

// MarkAllAsRead handles PUT /notifications/mark-all-read
func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	claims, ok := c.claims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if appErr := c.NotificationService.MarkAllAsRead(ctx.Request().Context(), claims.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Marked all as read")
}

// CountUnread handles GET /notifications/unread-count
func (c *NotificationController) CountUnread(ctx echo.Context) error {
	claims, ok := c.claims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.NotificationService.CountUnread(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
