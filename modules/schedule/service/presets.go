package service

import "strconv"

// presetRanges maps a preset name to a [from, to) hour window. Presets are
// materialized against the active grid's labels so they can never name a
// slot that does not exist at the configured granularity.
var presetRanges = map[string][2]int{
	"morning":   {9, 12},
	"afternoon": {13, 17},
	"evening":   {18, 22},
}

// Presets returns every named preset expanded to the labels of this grid.
func (g *Grid) Presets() map[string][]string {
	out := make(map[string][]string, len(presetRanges))
	for name := range presetRanges {
		out[name] = g.PresetLabels(name)
	}
	return out
}

// PresetLabels returns the time labels a preset covers, or nil for an
// unknown preset name.
func (g *Grid) PresetLabels(name string) []string {
	r, ok := presetRanges[name]
	if !ok {
		return nil
	}

	var labels []string
	for _, label := range g.TimeLabels() {
		hour, err := strconv.Atoi(label[:2])
		if err != nil {
			continue
		}
		if hour >= r[0] && hour < r[1] {
			labels = append(labels, label)
		}
	}
	return labels
}
