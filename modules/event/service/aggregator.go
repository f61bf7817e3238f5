package service

import (
	"github.com/t0pa/plansync/modules/event/dto"
	"github.com/t0pa/plansync/modules/event/entity"
)

// Intensity levels for heat-map display. The threshold is presentation
// policy; the only invariant is that the level is monotonic in count.
const (
	IntensityHigh = "high"
	IntensityLow  = "low"
)

// Aggregator folds every persisted submission into per-slot participation
// counts. It is recomputed on each event read and never cached.
type Aggregator struct {
	// HighRatio is the fraction of participants above which a slot is
	// classified as high intensity.
	HighRatio float64
}

func NewAggregator() *Aggregator {
	return &Aggregator{HighRatio: 0.5}
}

// Aggregate returns the number of distinct submissions containing each
// slot identifier. A user appearing once with duplicate slots still counts
// once per slot: slots are deduped within a submission before counting.
func (a *Aggregator) Aggregate(submissions []entity.Availability) map[string]int {
	counts := make(map[string]int)
	for _, sub := range submissions {
		seen := make(map[string]struct{}, len(sub.Slots))
		for _, slot := range sub.Slots {
			if _, dup := seen[slot]; dup {
				continue
			}
			seen[slot] = struct{}{}
			counts[slot]++
		}
	}
	return counts
}

// Intensity classifies a count against the participant total.
func (a *Aggregator) Intensity(count, totalParticipants int) string {
	if totalParticipants > 0 && float64(count)/float64(totalParticipants) > a.HighRatio {
		return IntensityHigh
	}
	return IntensityLow
}

// Heatmap combines counts and intensity into the wire representation.
// Total participant count is the number of submissions: the store holds at
// most one per user.
func (a *Aggregator) Heatmap(submissions []entity.Availability) (map[string]dto.SlotCount, int) {
	total := len(submissions)
	counts := a.Aggregate(submissions)

	out := make(map[string]dto.SlotCount, len(counts))
	for slot, count := range counts {
		out[slot] = dto.SlotCount{
			Count: count,
			Level: a.Intensity(count, total),
		}
	}
	return out, total
}
