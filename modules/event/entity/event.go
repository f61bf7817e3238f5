package entity

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the lifecycle of an event
type EventStatus string

const (
	EventStatusOpen      EventStatus = "open"
	EventStatusScheduled EventStatus = "scheduled"
)

// Event is a scheduling poll. Owned by its creator; immutable after
// creation except for its availability list, finalization and deletion.
type Event struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	Slug        string      `db:"slug" json:"slug"`
	Title       string      `db:"title" json:"title"`
	Description string      `db:"description" json:"description"`
	CreatorID   uuid.UUID   `db:"creator_id" json:"creator_id"`
	Status      EventStatus `db:"status" json:"status"`
	FinalSlot   *string     `db:"final_slot" json:"final_slot,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
