package models

import "time"

// Page is an offset/limit window over an ordered listing.
type Page struct {
	Skip  int
	Limit int
}

// Touch returns now, or prev plus one microsecond when the clock has not
// moved past prev. PostgreSQL stores microseconds, so updated_at strictly
// increases on every write.
func Touch(prev, now time.Time) time.Time {
	now = now.Truncate(time.Microsecond)
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}
