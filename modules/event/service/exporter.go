package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/t0pa/plansync/modules/event/entity"

	ics "github.com/arran4/golang-ical"
)

// slotTimeLayout is the parseable form of a slot identifier.
const slotTimeLayout = "2006-01-02-15:04"

// InviteUploader publishes a rendered invite to external storage.
type InviteUploader interface {
	Upload(ctx context.Context, key string, contentType string, body []byte) error
}

// InviteExporter renders iCalendar invites for finalized events and, when
// an uploader is configured, publishes them.
type InviteExporter struct {
	slotMinutes int
	uploader    InviteUploader
}

// NewInviteExporter creates an exporter. uploader may be nil; invites are
// then served inline only.
func NewInviteExporter(slotMinutes int, uploader InviteUploader) *InviteExporter {
	return &InviteExporter{slotMinutes: slotMinutes, uploader: uploader}
}

// BuildInvite renders a single-event VCALENDAR for the chosen slot.
func (e *InviteExporter) BuildInvite(event *entity.Event, slot string) ([]byte, error) {
	start, err := time.Parse(slotTimeLayout, slot)
	if err != nil {
		return nil, fmt.Errorf("parse slot %q: %w", slot, err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId("-//plansync//EN")

	ev := cal.AddEvent(fmt.Sprintf("%s@plansync", event.ID))
	ev.SetCreatedTime(time.Now().UTC())
	ev.SetDtStampTime(time.Now().UTC())
	ev.SetStartAt(start)
	ev.SetEndAt(start.Add(time.Duration(e.slotMinutes) * time.Minute))
	ev.SetSummary(event.Title)
	if event.Description != "" {
		ev.SetDescription(event.Description)
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize invite: %w", err)
	}
	return buf.Bytes(), nil
}

// PublishInvite renders the invite and pushes it to storage. A nil
// uploader makes this a no-op.
func (e *InviteExporter) PublishInvite(ctx context.Context, event *entity.Event, slot string) error {
	if e.uploader == nil {
		return nil
	}

	body, err := e.BuildInvite(event, slot)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("invites/%s.ics", event.Slug)
	return e.uploader.Upload(ctx, key, "text/calendar", body)
}
