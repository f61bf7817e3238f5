package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated identity. DisplayName is what availability
// entries are enriched with on event reads.
type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Password    string    `db:"password" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
