package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	KindAvailabilitySubmitted = "availability_submitted"
	KindEventFinalized        = "event_finalized"
)

type Notification struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	EventID   *uuid.UUID `db:"event_id" json:"event_id,omitempty"`
	Kind      string     `db:"kind" json:"kind"`
	Message   string     `db:"message" json:"message"`
	ReadAt    *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
