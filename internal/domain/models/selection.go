package models

import "time"

// RangeMode selects how a RangeSelection is interpreted.
type RangeMode string

const (
	// RangeModeYear filters by the 4-character year prefix of each date.
	RangeModeYear RangeMode = "year"
	// RangeModeCalendar filters by exact calendar dates.
	RangeModeCalendar RangeMode = "calendar"
)

// AllYears is the open year bound.
const AllYears = "all"

// RangeSelection is the user's active time window. Exactly one mode is in
// effect; the fields of the other mode are ignored.
//
// StartDate and EndDate are calendar days at UTC midnight. Both bounds are
// inclusive in every mode.
type RangeSelection struct {
	Mode      RangeMode
	StartYear string
	EndYear   string
	StartDate *time.Time
	EndDate   *time.Time
}

// AllTime selects every point.
func AllTime() RangeSelection {
	return RangeSelection{Mode: RangeModeYear, StartYear: AllYears, EndYear: AllYears}
}

// HasCalendarBounds reports whether the calendar filter applies.
func (r RangeSelection) HasCalendarBounds() bool {
	return r.Mode == RangeModeCalendar && (r.StartDate != nil || r.EndDate != nil)
}
