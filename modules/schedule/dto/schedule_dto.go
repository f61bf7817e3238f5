package dto

import "github.com/t0pa/plansync/modules/schedule/entity"

// GridResponse is the canonical grid both the selection UI and the
// aggregation view render against.
type GridResponse struct {
	TimeLabels  []string     `json:"time_labels"`
	Days        []entity.Day `json:"days"`
	SlotMinutes int          `json:"slot_minutes"`
	StartHour   int          `json:"start_hour"`
	Weeks       int          `json:"weeks"`
}

// PresetsResponse lists the named presets for the active grid.
type PresetsResponse struct {
	Presets map[string][]string `json:"presets"`
}
