package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/t0pa/plansync/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEventDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/events/abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  200,
			"message": "Success",
			"data": map[string]any{
				"id":                 "abc",
				"title":              "Team Sync",
				"status":             "open",
				"total_participants": 2,
				"aggregate": map[string]any{
					"2026-03-02-10:00": map[string]any{"count": 2, "level": "high"},
				},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	detail, err := c.GetEvent(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "Team Sync", detail.Title)
	assert.Equal(t, 2, detail.TotalParticipants)
	assert.Equal(t, 2, detail.Aggregate["2026-03-02-10:00"].Count)
	assert.Equal(t, "high", detail.Aggregate["2026-03-02-10:00"].Level)
}

func TestErrorResponsesSurfaceAppError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "error",
			"code":    errors.ErrForbidden,
			"message": "only the event creator may delete it",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.DeleteEvent(context.Background(), "abc")
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
	assert.Equal(t, "only the event creator may delete it", appErr.Message)
}

func TestAuthorizationHeaderSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"status": 200, "data": map[string]any{}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("token-123")
	_, err := c.GetMyAvailability(context.Background(), "abc")
	require.NoError(t, err)
}

func TestSubmitGuardRejectsConcurrentSubmit(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(map[string]any{
			"status": 200,
			"data":   map[string]any{"event_id": "abc", "slots": []string{}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)

	firstDone := make(chan error, 1)
	go func() {
		_, err := c.SubmitAvailability(context.Background(), "abc", []string{"2026-03-02-09:00"})
		firstDone <- err
	}()

	// Wait until the first submit is in flight.
	require.Eventually(t, func() bool {
		return c.submitting.Load()
	}, time.Second, time.Millisecond)

	_, err := c.SubmitAvailability(context.Background(), "abc", []string{"2026-03-02-10:00"})
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-firstDone)

	// With the first submit finished, submitting works again.
	_, err = c.SubmitAvailability(context.Background(), "abc", nil)
	require.NoError(t, err)
}

func TestSubmitPromotesSelectionToPersisted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Slots []string `json:"slots"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(map[string]any{
			"status": 200,
			"data": map[string]any{
				"event_id": "abc",
				"slots":    req.Slots,
				"replaced": false,
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	sel := newTestSelection(t)
	sel.Toggle("2026-03-02", "09:00")
	require.True(t, sel.Dirty())

	resp, err := c.Submit(context.Background(), "abc", sel)
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-03-02-09:00"}, resp.Slots)
	assert.False(t, sel.Dirty())
	assert.True(t, sel.Mine("2026-03-02-09:00"))
}
