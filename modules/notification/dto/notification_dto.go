package dto

import (
	"github.com/t0pa/plansync/modules/notification/entity"
)

type MarkAsReadRequest struct {
	IDs []string `json:"ids"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type PaginatedNotificationResponse struct {
	Items      []entity.Notification `json:"items"`
	TotalItems int                   `json:"total_items"`
	PageNumber int                   `json:"page_number"`
	PageSize   int                   `json:"page_size"`
}
