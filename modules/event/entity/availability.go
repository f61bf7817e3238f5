package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Availability is one user's complete slot set for one event. The table
// has a primary key on (event_id, user_id): the store, not application
// code, enforces at most one submission per user per event, and a
// resubmission replaces the row in a single atomic write.
type Availability struct {
	EventID   uuid.UUID      `db:"event_id" json:"event_id"`
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Slots     pq.StringArray `db:"slots" json:"slots"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
