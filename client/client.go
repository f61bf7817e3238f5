package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/t0pa/plansync/core/errors"
	authdto "github.com/t0pa/plansync/modules/auth/dto"
	eventdto "github.com/t0pa/plansync/modules/event/dto"
)

// ErrSubmitInFlight is returned when a submit is attempted while an
// earlier one has not completed. Callers keep editing and retry; the
// guard prevents out-of-order writes from racing each other.
var ErrSubmitInFlight = fmt.Errorf("availability submit already in flight")

// Client talks to the scheduling API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string

	submitting atomic.Bool
}

// New creates an API client for the given base URL, e.g.
// "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope matches the API's response wrapper.
type envelope struct {
	Data    json.RawMessage  `json:"data"`
	Message string           `json:"message"`
	Code    errors.ErrorCode `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 {
		return errors.NewAppError(env.Code, env.Message, nil)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Login authenticates and stores the returned access token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*authdto.TokenPairResponse, error) {
	var out authdto.TokenPairResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", authdto.LoginRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.AccessToken
	return &out, nil
}

// CreateEvent creates an event owned by the authenticated user.
func (c *Client) CreateEvent(ctx context.Context, req *eventdto.CreateEventRequest) (*eventdto.EventResponse, error) {
	var out eventdto.EventResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/events", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEvent fetches the full event read model, aggregate included.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*eventdto.EventDetailResponse, error) {
	var out eventdto.EventDetailResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/events/"+eventID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMyAvailability fetches the caller's persisted submission for the
// Selection overlay.
func (c *Client) GetMyAvailability(ctx context.Context, eventID string) (*eventdto.AvailabilityEntry, error) {
	var out eventdto.AvailabilityEntry
	if err := c.do(ctx, http.MethodGet, "/api/v1/events/"+eventID+"/availability/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitAvailability sends the complete slot set. At most one submit may
// be in flight per client; concurrent calls get ErrSubmitInFlight.
func (c *Client) SubmitAvailability(ctx context.Context, eventID string, slots []string) (*eventdto.SubmitAvailabilityResponse, error) {
	if !c.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer c.submitting.Store(false)

	var out eventdto.SubmitAvailabilityResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/events/"+eventID+"/availability", eventdto.SubmitAvailabilityRequest{
		Slots: slots,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Submit sends the current selection and, on success, promotes it to the
// persisted overlay.
func (c *Client) Submit(ctx context.Context, eventID string, sel *Selection) (*eventdto.SubmitAvailabilityResponse, error) {
	slots := sel.Slots()
	resp, err := c.SubmitAvailability(ctx, eventID, slots)
	if err != nil {
		return nil, err
	}
	sel.LoadMine(resp.Slots)
	return resp, nil
}

// DeleteEvent deletes an event the authenticated user created.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/events/"+eventID, nil, nil)
}

// FinalizeEvent locks an event to the given slot.
func (c *Client) FinalizeEvent(ctx context.Context, eventID, slot string) (*eventdto.EventResponse, error) {
	var out eventdto.EventResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/events/"+eventID+"/finalize", eventdto.FinalizeEventRequest{
		Slot: slot,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
