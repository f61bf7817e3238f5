package service

import (
	"fmt"
	"time"

	"github.com/t0pa/plansync/core/config"
	"github.com/t0pa/plansync/modules/schedule/entity"
)

// Grid produces the canonical time-label and day sequences every other
// component indexes into. Two clients configured identically and asked
// about the same scheduling window produce identical sequences: the label
// set is fixed by configuration and the day window is anchored to the most
// recent Monday on or before "today" (today comes from the injected clock,
// so the grid is a pure function of its inputs).
type Grid struct {
	StartHour   int
	SlotMinutes int
	Weeks       int
	Now         func() time.Time
}

// NewGrid builds a grid from configuration. SlotMinutes is 60 or 30; the
// same value must feed drag bounds and presets or slot identifiers stop
// aligning.
func NewGrid(cfg config.ScheduleConfig) *Grid {
	return &Grid{
		StartHour:   cfg.StartHour,
		SlotMinutes: cfg.SlotMinutes,
		Weeks:       cfg.Weeks,
		Now:         time.Now,
	}
}

// TimeLabels returns the ordered time-of-day labels from StartHour through
// midnight inclusive; "00:00" closes the day and sorts last.
func (g *Grid) TimeLabels() []string {
	labels := make([]string, 0, (24-g.StartHour)*60/g.SlotMinutes+1)
	for minutes := g.StartHour * 60; minutes < 24*60; minutes += g.SlotMinutes {
		labels = append(labels, fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
	}
	labels = append(labels, "00:00")
	return labels
}

// LabelIndex returns the position of a label in the canonical sequence, or
// -1 when the label does not exist in the active grid.
func (g *Grid) LabelIndex(label string) int {
	for i, l := range g.TimeLabels() {
		if l == label {
			return i
		}
	}
	return -1
}

// Days returns weekCount*7 consecutive calendar days starting from the most
// recent Monday on or before today. weekCount <= 0 falls back to the
// configured default.
func (g *Grid) Days(weekCount int) []entity.Day {
	if weekCount <= 0 {
		weekCount = g.Weeks
	}

	monday := MondayOf(g.Now())

	days := make([]entity.Day, 0, weekCount*7)
	for i := 0; i < weekCount*7; i++ {
		d := monday.AddDate(0, 0, i)
		days = append(days, entity.Day{
			FullDate:    d.Format("2006-01-02"),
			DisplayDay:  d.Format("Mon"),
			DisplayDate: d.Format("01/02"),
		})
	}
	return days
}

// MondayOf snaps t to the most recent Monday on or before it, truncated to
// the start of the day.
func MondayOf(t time.Time) time.Time {
	offset := int(time.Monday - t.Weekday())
	if offset > 0 {
		offset -= 7 // Sunday snaps back six days, not forward one
	}
	day := t.AddDate(0, 0, offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}
