package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/t0pa/plansync/core/errors"
	"github.com/t0pa/plansync/core/params"
	"github.com/t0pa/plansync/modules/event/dto"
	"github.com/t0pa/plansync/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo is an in-memory stand-in enforcing the same one-row-per
//-user-per-event rule the real table does.
type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.Event
	avail  map[uuid.UUID]map[uuid.UUID]*entity.Availability
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: make(map[uuid.UUID]*entity.Event),
		avail:  make(map[uuid.UUID]map[uuid.UUID]*entity.Availability),
	}
}

func (f *fakeEventRepo) CreateEvent(_ context.Context, event *entity.Event) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := *event
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	f.events[created.ID] = &created
	return &created, nil
}

func (f *fakeEventRepo) GetEventByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) ListEvents(_ context.Context, p params.QueryParams) ([]entity.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (f *fakeEventRepo) DeleteEvent(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.events, id)
	delete(f.avail, id)
	return nil
}

func (f *fakeEventRepo) FinalizeEvent(_ context.Context, id uuid.UUID, slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return fmt.Errorf("event %s not found", id)
	}
	event.Status = entity.EventStatusScheduled
	event.FinalSlot = &slot
	return nil
}

func (f *fakeEventRepo) CountOpenEvents(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, e := range f.events {
		if e.Status == entity.EventStatusOpen {
			count++
		}
	}
	return count, nil
}

func (f *fakeEventRepo) UpsertAvailability(_ context.Context, a *entity.Availability) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byUser, ok := f.avail[a.EventID]
	if !ok {
		byUser = make(map[uuid.UUID]*entity.Availability)
		f.avail[a.EventID] = byUser
	}

	_, replaced := byUser[a.UserID]
	stored := *a
	stored.UpdatedAt = time.Now()
	byUser[a.UserID] = &stored
	return replaced, nil
}

func (f *fakeEventRepo) GetAvailabilityByEventID(_ context.Context, eventID uuid.UUID) ([]entity.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []entity.Availability{}
	for _, a := range f.avail[eventID] {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeEventRepo) GetAvailabilityForUser(_ context.Context, eventID uuid.UUID, userID uuid.UUID) (*entity.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.avail[eventID][userID]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

type fakeIdentities struct {
	names map[uuid.UUID]string
	fail  bool
}

func (f *fakeIdentities) GetDisplayNamesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if f.fail {
		return nil, fmt.Errorf("identity store unavailable")
	}
	return f.names, nil
}

func newTestService(repo *fakeEventRepo, identities *fakeIdentities) EventServiceInterface {
	return NewEventService(repo, identities, nil, NewInviteExporter(60, nil))
}

func createTestEvent(t *testing.T, svc EventServiceInterface, creatorID uuid.UUID) uuid.UUID {
	t.Helper()
	resp, appErr := svc.CreateEvent(context.Background(), creatorID, &dto.CreateEventRequest{
		Title: "Team Sync",
	})
	require.Nil(t, appErr)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	return id
}

func TestCreateEventSlugAndStatus(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})

	resp, appErr := svc.CreateEvent(context.Background(), uuid.New(), &dto.CreateEventRequest{
		Title: "Team Sync",
	})
	require.Nil(t, appErr)

	assert.True(t, strings.HasPrefix(resp.Slug, "team-sync-"), "slug %q", resp.Slug)
	assert.Equal(t, string(entity.EventStatusOpen), resp.Status)
	assert.Empty(t, resp.FinalSlot)
}

func TestCreateEventRequiresTitle(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})

	_, appErr := svc.CreateEvent(context.Background(), uuid.New(), &dto.CreateEventRequest{})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidRequestData, appErr.Code)
}

func TestSubmitAvailabilityFirstThenReplace(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})
	eventID := createTestEvent(t, svc, uuid.New())
	userID := uuid.New()

	first, appErr := svc.SubmitAvailability(context.Background(), eventID, userID, &dto.SubmitAvailabilityRequest{
		Slots: []string{"2026-03-02-09:00", "2026-03-02-10:00"},
	})
	require.Nil(t, appErr)
	assert.False(t, first.Replaced)

	second, appErr := svc.SubmitAvailability(context.Background(), eventID, userID, &dto.SubmitAvailabilityRequest{
		Slots: []string{"2026-03-03-14:00"},
	})
	require.Nil(t, appErr)
	assert.True(t, second.Replaced)

	// The second submission replaced the first in full.
	mine, appErr := svc.GetMyAvailability(context.Background(), eventID, userID)
	require.Nil(t, appErr)
	assert.Equal(t, []string{"2026-03-03-14:00"}, mine.Slots)
}

func TestSubmitAvailabilityIdempotent(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})
	eventID := createTestEvent(t, svc, uuid.New())
	userID := uuid.New()

	slots := []string{"2026-03-02-09:00"}
	for i := 0; i < 3; i++ {
		resp, appErr := svc.SubmitAvailability(context.Background(), eventID, userID, &dto.SubmitAvailabilityRequest{Slots: slots})
		require.Nil(t, appErr)
		assert.Equal(t, slots, resp.Slots)
	}

	detail, appErr := svc.GetEventByID(context.Background(), eventID)
	require.Nil(t, appErr)
	assert.Equal(t, 1, detail.TotalParticipants)
	assert.Equal(t, 1, detail.Aggregate["2026-03-02-09:00"].Count)
}

func TestSubmitAvailabilityDedupes(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})
	eventID := createTestEvent(t, svc, uuid.New())

	resp, appErr := svc.SubmitAvailability(context.Background(), eventID, uuid.New(), &dto.SubmitAvailabilityRequest{
		Slots: []string{"2026-03-02-09:00", "2026-03-02-09:00", "2026-03-02-10:00"},
	})
	require.Nil(t, appErr)
	assert.Equal(t, []string{"2026-03-02-09:00", "2026-03-02-10:00"}, resp.Slots)
}

func TestSubmitAvailabilityEmptySetAllowed(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})
	eventID := createTestEvent(t, svc, uuid.New())
	userID := uuid.New()

	_, appErr := svc.SubmitAvailability(context.Background(), eventID, userID, &dto.SubmitAvailabilityRequest{
		Slots: []string{"2026-03-02-09:00"},
	})
	require.Nil(t, appErr)

	// Clearing everything is a valid submission, not a delete.
	resp, appErr := svc.SubmitAvailability(context.Background(), eventID, userID, &dto.SubmitAvailabilityRequest{
		Slots: []string{},
	})
	require.Nil(t, appErr)
	assert.True(t, resp.Replaced)
	assert.Empty(t, resp.Slots)

	detail, appErr := svc.GetEventByID(context.Background(), eventID)
	require.Nil(t, appErr)
	assert.Equal(t, 1, detail.TotalParticipants)
	assert.Empty(t, detail.Aggregate)
}

func TestSubmitAvailabilityRejectsMalformedSlot(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})
	eventID := createTestEvent(t, svc, uuid.New())

	for _, bad := range []string{"", "monday morning", "2026-03-02", "09:00"} {
		_, appErr := svc.SubmitAvailability(context.Background(), eventID, uuid.New(), &dto.SubmitAvailabilityRequest{
			Slots: []string{bad},
		})
		require.NotNil(t, appErr, "slot %q", bad)
		assert.Equal(t, errors.ErrInvalidRequestData, appErr.Code)
	}
}

func TestSubmitAvailabilityUnknownEvent(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})

	_, appErr := svc.SubmitAvailability(context.Background(), uuid.New(), uuid.New(), &dto.SubmitAvailabilityRequest{
		Slots: []string{"2026-03-02-09:00"},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestSubmitAvailabilityConcurrentUsers(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})
	eventID := createTestEvent(t, svc, uuid.New())

	const users = 8
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, appErr := svc.SubmitAvailability(context.Background(), eventID, uuid.New(), &dto.SubmitAvailabilityRequest{
				Slots: []string{"2026-03-02-09:00"},
			})
			assert.Nil(t, appErr)
		}()
	}
	wg.Wait()

	detail, appErr := svc.GetEventByID(context.Background(), eventID)
	require.Nil(t, appErr)
	assert.Equal(t, users, detail.TotalParticipants)
	assert.Equal(t, users, detail.Aggregate["2026-03-02-09:00"].Count)
}

func TestGetEventByIDNotFound(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})

	_, appErr := svc.GetEventByID(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestGetEventByIDHydratesDisplayNames(t *testing.T) {
	userID := uuid.New()
	identities := &fakeIdentities{names: map[uuid.UUID]string{userID: "Alex"}}
	svc := newTestService(newFakeEventRepo(), identities)
	eventID := createTestEvent(t, svc, uuid.New())

	_, appErr := svc.SubmitAvailability(context.Background(), eventID, userID, &dto.SubmitAvailabilityRequest{
		Slots: []string{"2026-03-02-09:00"},
	})
	require.Nil(t, appErr)

	detail, appErr := svc.GetEventByID(context.Background(), eventID)
	require.Nil(t, appErr)
	require.Len(t, detail.Availabilities, 1)
	assert.Equal(t, "Alex", detail.Availabilities[0].DisplayName)
}

func TestGetEventByIDPlaceholderWhenIdentityLookupFails(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{fail: true})
	eventID := createTestEvent(t, svc, uuid.New())

	_, appErr := svc.SubmitAvailability(context.Background(), eventID, uuid.New(), &dto.SubmitAvailabilityRequest{
		Slots: []string{"2026-03-02-09:00"},
	})
	require.Nil(t, appErr)

	// The read still succeeds; the identity degrades, not the aggregate.
	detail, appErr := svc.GetEventByID(context.Background(), eventID)
	require.Nil(t, appErr)
	require.Len(t, detail.Availabilities, 1)
	assert.Equal(t, placeholderDisplayName, detail.Availabilities[0].DisplayName)
	assert.Equal(t, 1, detail.Aggregate["2026-03-02-09:00"].Count)
}

func TestDeleteEventCreatorOnly(t *testing.T) {
	creatorID := uuid.New()
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})
	eventID := createTestEvent(t, svc, creatorID)

	appErr := svc.DeleteEvent(context.Background(), eventID, uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	// The event is untouched after the rejected attempt.
	_, appErr = svc.GetEventByID(context.Background(), eventID)
	require.Nil(t, appErr)

	appErr = svc.DeleteEvent(context.Background(), eventID, creatorID)
	require.Nil(t, appErr)

	_, appErr = svc.GetEventByID(context.Background(), eventID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestDeleteEventNotFoundBeforeForbidden(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})

	appErr := svc.DeleteEvent(context.Background(), uuid.New(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestDeleteEventRemovesAvailability(t *testing.T) {
	creatorID := uuid.New()
	repo := newFakeEventRepo()
	svc := newTestService(repo, &fakeIdentities{})
	eventID := createTestEvent(t, svc, creatorID)

	_, appErr := svc.SubmitAvailability(context.Background(), eventID, uuid.New(), &dto.SubmitAvailabilityRequest{
		Slots: []string{"2026-03-02-09:00"},
	})
	require.Nil(t, appErr)

	require.Nil(t, svc.DeleteEvent(context.Background(), eventID, creatorID))

	subs, err := repo.GetAvailabilityByEventID(context.Background(), eventID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestFinalizeEventCreatorOnly(t *testing.T) {
	creatorID := uuid.New()
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})
	eventID := createTestEvent(t, svc, creatorID)

	_, appErr := svc.FinalizeEvent(context.Background(), eventID, uuid.New(), &dto.FinalizeEventRequest{
		Slot: "2026-03-02-10:00",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	resp, appErr := svc.FinalizeEvent(context.Background(), eventID, creatorID, &dto.FinalizeEventRequest{
		Slot: "2026-03-02-10:00",
	})
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.EventStatusScheduled), resp.Status)
	assert.Equal(t, "2026-03-02-10:00", resp.FinalSlot)
}

func TestGetInviteRequiresFinalizedEvent(t *testing.T) {
	creatorID := uuid.New()
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})
	eventID := createTestEvent(t, svc, creatorID)

	_, appErr := svc.GetInvite(context.Background(), eventID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	_, appErr = svc.FinalizeEvent(context.Background(), eventID, creatorID, &dto.FinalizeEventRequest{
		Slot: "2026-03-02-10:00",
	})
	require.Nil(t, appErr)

	body, appErr := svc.GetInvite(context.Background(), eventID)
	require.Nil(t, appErr)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")
	assert.Contains(t, string(body), "SUMMARY:Team Sync")
}

func TestSuggestSlotsRanked(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeIdentities{})
	eventID := createTestEvent(t, svc, uuid.New())

	popular := "2026-03-02-14:00"
	for i := 0; i < 3; i++ {
		slots := []string{popular}
		if i == 0 {
			slots = append(slots, "2026-03-02-09:00")
		}
		_, appErr := svc.SubmitAvailability(context.Background(), eventID, uuid.New(), &dto.SubmitAvailabilityRequest{Slots: slots})
		require.Nil(t, appErr)
	}

	suggestions, appErr := svc.SuggestSlots(context.Background(), eventID, 0)
	require.Nil(t, appErr)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, popular, suggestions[0].Slot)
	assert.Equal(t, 3, suggestions[0].Count)
}
