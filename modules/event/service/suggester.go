package service

import (
	"sort"

	"github.com/t0pa/plansync/modules/event/dto"
	"github.com/t0pa/plansync/modules/event/entity"
)

// defaultSuggestionLimit caps how many ranked slots a suggestion query
// returns.
const defaultSuggestionLimit = 10

// Suggester ranks slots for finalization: most attendees first, earlier
// slot on ties. Slot identifiers are zero-padded so lexical order is
// chronological order.
type Suggester struct {
	aggregator *Aggregator
}

func NewSuggester(aggregator *Aggregator) *Suggester {
	return &Suggester{aggregator: aggregator}
}

// Suggest returns up to limit ranked candidate slots. limit <= 0 falls
// back to the default. No submissions means no suggestions.
func (s *Suggester) Suggest(submissions []entity.Availability, limit int) []dto.SlotSuggestion {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}

	counts, total := s.aggregator.Heatmap(submissions)
	if total == 0 {
		return []dto.SlotSuggestion{}
	}

	suggestions := make([]dto.SlotSuggestion, 0, len(counts))
	for slot, sc := range counts {
		suggestions = append(suggestions, dto.SlotSuggestion{
			Slot:  slot,
			Count: sc.Count,
			Ratio: float64(sc.Count) / float64(total),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Count != suggestions[j].Count {
			return suggestions[i].Count > suggestions[j].Count
		}
		return suggestions[i].Slot < suggestions[j].Slot
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
