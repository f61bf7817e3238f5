package entity

// Day is one column of the scheduling grid.
type Day struct {
	FullDate    string `json:"full_date"`    // ISO calendar day, e.g. "2024-01-01"
	DisplayDay  string `json:"display_day"`  // short weekday name, e.g. "Mon"
	DisplayDate string `json:"display_date"` // "MM/DD"
}

// SlotID derives the canonical slot identifier for a day and time label.
// Identifiers are opaque, case-sensitive, exact-match keys; both sides of
// the wire must build them through this function.
func SlotID(fullDate, timeLabel string) string {
	return fullDate + "-" + timeLabel
}
