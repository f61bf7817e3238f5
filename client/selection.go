// Package client provides the programmatic counterpart of the scheduling
// UI: a grid selection model with drag-fill semantics and an HTTP client
// for the API.
package client

import (
	"sort"

	"github.com/t0pa/plansync/modules/schedule/entity"
	"github.com/t0pa/plansync/modules/schedule/service"
)

// Selection is the in-progress slot set a participant edits before
// submitting. It also carries a read-only copy of the user's last
// persisted submission so callers can tell saved from unsaved state.
type Selection struct {
	grid *service.Grid

	selected map[string]struct{}
	mine     map[string]struct{}

	dragging bool
	dragDate string
	anchor   int
}

// NewSelection creates an empty selection over the given grid.
func NewSelection(grid *service.Grid) *Selection {
	return &Selection{
		grid:     grid,
		selected: make(map[string]struct{}),
		mine:     make(map[string]struct{}),
	}
}

// LoadMine replaces the persisted-submission overlay and seeds the
// editable set from it, the state a participant sees on page load.
func (s *Selection) LoadMine(slots []string) {
	s.mine = make(map[string]struct{}, len(slots))
	s.selected = make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		s.mine[slot] = struct{}{}
		s.selected[slot] = struct{}{}
	}
}

// Mine reports whether the slot is part of the last persisted submission.
func (s *Selection) Mine(slotID string) bool {
	_, ok := s.mine[slotID]
	return ok
}

// Selected reports whether the slot is in the editable set.
func (s *Selection) Selected(slotID string) bool {
	_, ok := s.selected[slotID]
	return ok
}

// Toggle flips a single slot.
func (s *Selection) Toggle(date string, label string) {
	id := entity.SlotID(date, label)
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
}

// BeginDrag starts a drag-fill gesture anchored at the given cell. An
// unknown label is ignored and leaves no drag in progress.
func (s *Selection) BeginDrag(date string, label string) {
	idx := s.grid.LabelIndex(label)
	if idx < 0 {
		return
	}
	s.dragging = true
	s.dragDate = date
	s.anchor = idx
	s.selected[entity.SlotID(date, label)] = struct{}{}
}

// ExtendDrag selects every slot between the anchor and the given cell,
// inclusive, in either direction. Crossing into another date is a no-op;
// a drag never spans days.
func (s *Selection) ExtendDrag(date string, label string) {
	if !s.dragging || date != s.dragDate {
		return
	}
	idx := s.grid.LabelIndex(label)
	if idx < 0 {
		return
	}

	lo, hi := s.anchor, idx
	if lo > hi {
		lo, hi = hi, lo
	}
	labels := s.grid.TimeLabels()
	for i := lo; i <= hi; i++ {
		s.selected[entity.SlotID(s.dragDate, labels[i])] = struct{}{}
	}
}

// EndDrag finishes the gesture. It is safe to call at any time, including
// when the pointer left the grid mid-drag.
func (s *Selection) EndDrag() {
	s.dragging = false
	s.dragDate = ""
}

// ApplyPreset selects the preset's labels across every visible day.
// Unknown preset names are a no-op.
func (s *Selection) ApplyPreset(name string, days []entity.Day) {
	labels := s.grid.PresetLabels(name)
	if labels == nil {
		return
	}
	for _, day := range days {
		for _, label := range labels {
			s.selected[entity.SlotID(day.FullDate, label)] = struct{}{}
		}
	}
}

// Clear empties the editable set. The persisted overlay is untouched;
// clearing is not a submission.
func (s *Selection) Clear() {
	s.selected = make(map[string]struct{})
}

// Slots returns the editable set in deterministic order, ready to submit.
func (s *Selection) Slots() []string {
	out := make([]string, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Dirty reports whether the editable set differs from the persisted
// submission.
func (s *Selection) Dirty() bool {
	if len(s.selected) != len(s.mine) {
		return true
	}
	for id := range s.selected {
		if _, ok := s.mine[id]; !ok {
			return true
		}
	}
	return false
}
