package dto

import (
	"time"

	"github.com/t0pa/plansync/modules/event/entity"
)

// ===================== Request DTOs =====================

// CreateEventRequest for creating a new event
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// SubmitAvailabilityRequest carries the caller's complete slot set. The
// submission replaces any prior one; it is never merged.
type SubmitAvailabilityRequest struct {
	Slots []string `json:"slots"`
}

// FinalizeEventRequest picks the winning slot
type FinalizeEventRequest struct {
	Slot string `json:"slot" validate:"required"`
}

// ===================== Response DTOs =====================

// EventResponse for event details
type EventResponse struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatorID   string    `json:"creator_id"`
	Status      string    `json:"status"`
	FinalSlot   string    `json:"final_slot,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AvailabilityEntry is one hydrated submission
type AvailabilityEntry struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Slots       []string  `json:"slots"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SlotCount is the aggregate for one slot identifier
type SlotCount struct {
	Count int    `json:"count"`
	Level string `json:"level"`
}

// EventDetailResponse is the full read model: event, hydrated submissions
// and the per-slot aggregate recomputed on every read.
type EventDetailResponse struct {
	EventResponse
	Availabilities    []AvailabilityEntry  `json:"availabilities"`
	Aggregate         map[string]SlotCount `json:"aggregate"`
	TotalParticipants int                  `json:"total_participants"`
}

// SubmitAvailabilityResponse reports the stored submission
type SubmitAvailabilityResponse struct {
	EventID  string   `json:"event_id"`
	UserID   string   `json:"user_id"`
	Slots    []string `json:"slots"`
	Replaced bool     `json:"replaced"`
}

// SlotSuggestion is one ranked finalization candidate
type SlotSuggestion struct {
	Slot  string  `json:"slot"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

// PaginatedEventResponse for the events list
type PaginatedEventResponse struct {
	Items      []EventResponse `json:"items"`
	TotalItems int             `json:"total_items"`
	PageNumber int             `json:"page_number"`
	PageSize   int             `json:"page_size"`
}

// ===================== Mapper Functions =====================

// ToEventResponse maps entity to DTO
func ToEventResponse(e *entity.Event) *EventResponse {
	resp := &EventResponse{
		ID:          e.ID.String(),
		Slug:        e.Slug,
		Title:       e.Title,
		Description: e.Description,
		CreatorID:   e.CreatorID.String(),
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
	if e.FinalSlot != nil {
		resp.FinalSlot = *e.FinalSlot
	}
	return resp
}
