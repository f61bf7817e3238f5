package service

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names routed through the asynq mux.
const (
	TaskAvailabilitySubmitted = "notification:availability_submitted"
	TaskEventFinalized        = "notification:event_finalized"
)

// AvailabilitySubmittedPayload tells the worker who submitted to whose
// event.
type AvailabilitySubmittedPayload struct {
	EventID   uuid.UUID `json:"event_id"`
	CreatorID uuid.UUID `json:"creator_id"`
	ActorID   uuid.UUID `json:"actor_id"`
}

// EventFinalizedPayload tells the worker which slot an event was locked
// to.
type EventFinalizedPayload struct {
	EventID   uuid.UUID `json:"event_id"`
	CreatorID uuid.UUID `json:"creator_id"`
	Slot      string    `json:"slot"`
}

func newTask(typename string, payload any) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", typename, err)
	}
	return asynq.NewTask(typename, body), nil
}
