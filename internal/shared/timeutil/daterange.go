package timeutil

import "time"

const dateFormat = "2006-01-02"

// endOfDayOffset widens the end bound to cover the whole day, making the
// range inclusive of the end date.
const endOfDayOffset = 23*time.Hour + 59*time.Minute + 59*time.Second

// DateRange is an optional pair of bounds for filtering lists by date.
// A nil bound leaves that side unrestricted.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDateRange parses YYYY-MM-DD query values into a DateRange. Values
// that are empty or malformed leave the bound unset. An end date before
// the start date is clamped to the start date.
func ParseDateRange(startStr, endStr string) DateRange {
	var r DateRange

	if startStr != "" {
		if t, err := time.Parse(dateFormat, startStr); err == nil {
			r.Start = &t
		}
	}

	if endStr != "" {
		if t, err := time.Parse(dateFormat, endStr); err == nil {
			end := t.Add(endOfDayOffset)
			if r.Start != nil && r.Start.After(end) {
				end = r.Start.Add(endOfDayOffset)
			}
			r.End = &end
		}
	}

	return r
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}
