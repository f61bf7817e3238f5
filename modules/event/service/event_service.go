package service

import (
	"context"
	"regexp"

	"github.com/t0pa/plansync/core/errors"
	"github.com/t0pa/plansync/core/logger"
	"github.com/t0pa/plansync/core/params"
	"github.com/t0pa/plansync/core/utils"
	"github.com/t0pa/plansync/modules/event/dto"
	"github.com/t0pa/plansync/modules/event/entity"
	"github.com/t0pa/plansync/modules/event/repository"
	"github.com/t0pa/plansync/monitoring"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
)

// slotIDPattern is the shape of a derived slot identifier: ISO day plus a
// time label. Beyond this shape the identifier is opaque.
var slotIDPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{2}:\d{2}$`)

const placeholderDisplayName = "Unknown participant"

// IdentityResolver resolves display identities for submission hydration.
type IdentityResolver interface {
	GetDisplayNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// Notifier fans availability activity out to the event creator. Delivery
// is asynchronous and best effort; failures never affect the request.
type Notifier interface {
	NotifyAvailabilitySubmitted(ctx context.Context, eventID, creatorID, actorID uuid.UUID)
	NotifyEventFinalized(ctx context.Context, eventID, creatorID uuid.UUID, slot string)
}

// EventService handles event business logic
type EventService struct {
	repo       repository.EventRepositoryInterface
	identities IdentityResolver
	notifier   Notifier
	aggregator *Aggregator
	suggester  *Suggester
	invites    *InviteExporter
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, creatorID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetAllEvents(ctx context.Context, p params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError)
	GetEventByID(ctx context.Context, id uuid.UUID) (*dto.EventDetailResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID) *errors.AppError
	SubmitAvailability(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, req *dto.SubmitAvailabilityRequest) (*dto.SubmitAvailabilityResponse, *errors.AppError)
	GetMyAvailability(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*dto.AvailabilityEntry, *errors.AppError)
	SuggestSlots(ctx context.Context, eventID uuid.UUID, limit int) ([]dto.SlotSuggestion, *errors.AppError)
	FinalizeEvent(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID, req *dto.FinalizeEventRequest) (*dto.EventResponse, *errors.AppError)
	GetInvite(ctx context.Context, eventID uuid.UUID) ([]byte, *errors.AppError)
}

// NewEventService creates a new event service. notifier may be nil when no
// background worker is configured.
func NewEventService(repo repository.EventRepositoryInterface, identities IdentityResolver, notifier Notifier, invites *InviteExporter) EventServiceInterface {
	aggregator := NewAggregator()
	return &EventService{
		repo:       repo,
		identities: identities,
		notifier:   notifier,
		aggregator: aggregator,
		suggester:  NewSuggester(aggregator),
		invites:    invites,
	}
}

// CreateEvent creates a new event owned by the caller.
func (s *EventService) CreateEvent(ctx context.Context, creatorID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "title is required", nil)
	}

	event := &entity.Event{
		Slug:        slug.Make(req.Title) + "-" + utils.GenerateID(),
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   creatorID,
		Status:      entity.EventStatusOpen,
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", err)
	}

	return dto.ToEventResponse(created), nil
}

// GetAllEvents lists events, newest first.
func (s *EventService) GetAllEvents(ctx context.Context, p params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError) {
	events, total, err := s.repo.ListEvents(ctx, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list events", err)
	}

	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, *dto.ToEventResponse(&events[i]))
	}

	return &dto.PaginatedEventResponse{
		Items:      items,
		TotalItems: total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

// GetEventByID returns the full read model: the event, every submission
// hydrated with its submitter's display identity, and the per-slot
// aggregate recomputed from the persisted submissions.
func (s *EventService) GetEventByID(ctx context.Context, id uuid.UUID) (*dto.EventDetailResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	submissions, err := s.repo.GetAvailabilityByEventID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get availability", err)
	}

	names := s.resolveNames(ctx, submissions)

	entries := make([]dto.AvailabilityEntry, 0, len(submissions))
	for _, sub := range submissions {
		name, ok := names[sub.UserID]
		if !ok || name == "" {
			name = placeholderDisplayName
		}
		entries = append(entries, dto.AvailabilityEntry{
			UserID:      sub.UserID.String(),
			DisplayName: name,
			Slots:       []string(sub.Slots),
			UpdatedAt:   sub.UpdatedAt,
		})
	}

	aggregate, total := s.aggregator.Heatmap(submissions)

	return &dto.EventDetailResponse{
		EventResponse:     *dto.ToEventResponse(event),
		Availabilities:    entries,
		Aggregate:         aggregate,
		TotalParticipants: total,
	}, nil
}

// resolveNames looks display identities up in one batch. A lookup failure
// degrades every entry to a placeholder instead of failing the read.
func (s *EventService) resolveNames(ctx context.Context, submissions []entity.Availability) map[uuid.UUID]string {
	if len(submissions) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(submissions))
	ids := make([]uuid.UUID, 0, len(submissions))
	for _, sub := range submissions {
		if _, dup := seen[sub.UserID]; dup {
			continue
		}
		seen[sub.UserID] = struct{}{}
		ids = append(ids, sub.UserID)
	}

	names, err := s.identities.GetDisplayNamesByIDs(ctx, ids)
	if err != nil {
		logger.Warn("EventService:GetEventByID:ResolveNames", "error", err)
		return nil
	}
	return names
}

// DeleteEvent removes an event. Only the creator identity may delete; an
// authenticated non-creator gets Forbidden, not Unauthorized, so the
// client can show a different message.
func (s *EventService) DeleteEvent(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID) *errors.AppError {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	if event.CreatorID != callerID {
		return errors.NewAppError(errors.ErrForbidden, "only the event creator may delete it", nil)
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete event", err)
	}

	return nil
}

// SubmitAvailability stores the caller's complete slot set, replacing any
// prior submission by the same user in full.
func (s *EventService) SubmitAvailability(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, req *dto.SubmitAvailabilityRequest) (*dto.SubmitAvailabilityResponse, *errors.AppError) {
	if req.Slots == nil {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "slots must be a sequence", nil)
	}
	for _, slot := range req.Slots {
		if !slotIDPattern.MatchString(slot) {
			return nil, errors.NewAppError(errors.ErrInvalidRequestData, "malformed slot identifier: "+slot, nil)
		}
	}

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	deduped := dedupeSlots(req.Slots)

	replaced, err := s.repo.UpsertAvailability(ctx, &entity.Availability{
		EventID: eventID,
		UserID:  userID,
		Slots:   pq.StringArray(deduped),
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save availability", err)
	}

	monitoring.RecordSubmission(replaced)

	if s.notifier != nil && userID != event.CreatorID {
		s.notifier.NotifyAvailabilitySubmitted(ctx, eventID, event.CreatorID, userID)
	}

	return &dto.SubmitAvailabilityResponse{
		EventID:  eventID.String(),
		UserID:   userID.String(),
		Slots:    deduped,
		Replaced: replaced,
	}, nil
}

// GetMyAvailability returns the caller's persisted submission so the
// client can show prior answers without conflating them with an unsaved
// edit. No submission yet means an empty entry, not an error.
func (s *EventService) GetMyAvailability(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*dto.AvailabilityEntry, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	entry, err := s.repo.GetAvailabilityForUser(ctx, eventID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get availability", err)
	}
	if entry == nil {
		return &dto.AvailabilityEntry{UserID: userID.String(), Slots: []string{}}, nil
	}

	return &dto.AvailabilityEntry{
		UserID:    entry.UserID.String(),
		Slots:     []string(entry.Slots),
		UpdatedAt: entry.UpdatedAt,
	}, nil
}

// SuggestSlots ranks finalization candidates by attendance.
func (s *EventService) SuggestSlots(ctx context.Context, eventID uuid.UUID, limit int) ([]dto.SlotSuggestion, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	submissions, err := s.repo.GetAvailabilityByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get availability", err)
	}

	return s.suggester.Suggest(submissions, limit), nil
}

// FinalizeEvent locks the event to a winning slot. Creator-only, like
// deletion.
func (s *EventService) FinalizeEvent(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID, req *dto.FinalizeEventRequest) (*dto.EventResponse, *errors.AppError) {
	if !slotIDPattern.MatchString(req.Slot) {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "malformed slot identifier", nil)
	}

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	if event.CreatorID != callerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the event creator may finalize it", nil)
	}

	if err := s.repo.FinalizeEvent(ctx, eventID, req.Slot); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to finalize event", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyEventFinalized(ctx, eventID, event.CreatorID, req.Slot)
	}

	if s.invites != nil {
		if err := s.invites.PublishInvite(ctx, event, req.Slot); err != nil {
			logger.Warn("EventService:FinalizeEvent:PublishInvite", "error", err)
		}
	}

	return s.eventResponse(ctx, eventID)
}

// GetInvite renders the iCalendar invite for a finalized event.
func (s *EventService) GetInvite(ctx context.Context, eventID uuid.UUID) ([]byte, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	if event.Status != entity.EventStatusScheduled || event.FinalSlot == nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "event is not finalized", nil)
	}

	body, err := s.invites.BuildInvite(event, *event.FinalSlot)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to build invite", err)
	}

	return body, nil
}

func (s *EventService) eventResponse(ctx context.Context, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil || event == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to reload event", err)
	}
	return dto.ToEventResponse(event), nil
}

// dedupeSlots removes duplicates preserving first occurrence order.
func dedupeSlots(slots []string) []string {
	seen := make(map[string]struct{}, len(slots))
	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		out = append(out, slot)
	}
	return out
}
