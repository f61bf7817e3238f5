package repository

import (
	"context"
	"database/sql"

	"github.com/t0pa/plansync/core/database"
	"github.com/t0pa/plansync/core/logger"
	"github.com/t0pa/plansync/core/params"
	"github.com/t0pa/plansync/modules/event/entity"
	"github.com/t0pa/plansync/monitoring"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EventRepository handles event and availability database operations
type EventRepository struct {
	DB database.Database
}

func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	// Event CRUD
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	ListEvents(ctx context.Context, p params.QueryParams) ([]entity.Event, int, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	FinalizeEvent(ctx context.Context, id uuid.UUID, slot string) error
	CountOpenEvents(ctx context.Context) (int, error)

	// Availability (one row per user per event)
	UpsertAvailability(ctx context.Context, a *entity.Availability) (replaced bool, err error)
	GetAvailabilityByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Availability, error)
	GetAvailabilityForUser(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*entity.Availability, error)
}

// ===================== Event CRUD =====================

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (slug, title, description, creator_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, slug, title, description, creator_id, status, final_slot, created_at, updated_at
	`

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Slug, event.Title, event.Description, event.CreatorID, event.Status)
	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, slug, title, description, creator_id, status, final_slot, created_at, updated_at
		FROM events WHERE id = $1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) ListEvents(ctx context.Context, p params.QueryParams) ([]entity.Event, int, error) {
	query := `
		SELECT id, slug, title, description, creator_id, status, final_slot, created_at, updated_at
		FROM events
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, p.Search, p.PageSize, p.Offset())
	if err != nil {
		logger.Error("EventRepository:ListEvents", err)
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')`
	if err := r.DB.GetContext(ctx, &total, countQuery, p.Search); err != nil {
		logger.Error("EventRepository:ListEvents:Count", err)
		return nil, 0, err
	}

	return events, total, nil
}

// DeleteEvent removes the event; availability rows go with it through the
// ON DELETE CASCADE constraint, so the removal is atomic.
func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}

func (r *EventRepository) FinalizeEvent(ctx context.Context, id uuid.UUID, slot string) error {
	query := `
		UPDATE events
		SET status = $2, final_slot = $3, updated_at = NOW()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query, id, entity.EventStatusScheduled, slot)
	if err != nil {
		logger.Error("EventRepository:FinalizeEvent", err)
		return err
	}
	return nil
}

func (r *EventRepository) CountOpenEvents(ctx context.Context) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM events WHERE status = $1`, entity.EventStatusOpen)
	if err != nil {
		logger.Error("EventRepository:CountOpenEvents", err)
		return 0, err
	}
	return n, nil
}

// ===================== Availability =====================

// UpsertAvailability replaces the caller's submission in one statement.
// Different users write different rows, so concurrent submissions never
// interfere; a same-user race is last-write-wins on its own row. The
// returned flag reports whether a prior submission was replaced.
func (r *EventRepository) UpsertAvailability(ctx context.Context, a *entity.Availability) (bool, error) {
	query := `
		INSERT INTO event_availability (event_id, user_id, slots, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET slots = EXCLUDED.slots, updated_at = NOW()
		RETURNING (xmax <> 0) AS replaced
	`

	var replaced bool
	err := r.DB.GetContext(ctx, &replaced, query, a.EventID, a.UserID, pq.Array([]string(a.Slots)))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Class() == "40" {
			// serialization failure or deadlock on the availability row
			monitoring.RecordSubmissionConflict()
		}
		logger.Error("EventRepository:UpsertAvailability", err)
		return false, err
	}

	return replaced, nil
}

func (r *EventRepository) GetAvailabilityByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Availability, error) {
	query := `
		SELECT event_id, user_id, slots, updated_at
		FROM event_availability
		WHERE event_id = $1
		ORDER BY updated_at
	`

	var entries []entity.Availability
	err := r.DB.SelectContext(ctx, &entries, query, eventID)
	if err != nil {
		logger.Error("EventRepository:GetAvailabilityByEventID", err)
		return nil, err
	}

	return entries, nil
}

func (r *EventRepository) GetAvailabilityForUser(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*entity.Availability, error) {
	query := `
		SELECT event_id, user_id, slots, updated_at
		FROM event_availability
		WHERE event_id = $1 AND user_id = $2
	`

	var entry entity.Availability
	err := r.DB.GetContext(ctx, &entry, query, eventID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetAvailabilityForUser", err)
		return nil, err
	}

	return &entry, nil
}
