package series

import (
	"strings"
	"time"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

// Filter returns the points of s that fall inside sel, in their original
// order. It is pure: s is not modified and the result is freshly allocated.
func Filter(s models.Series, sel models.RangeSelection) models.Series {
	out := make(models.Series, 0, len(s))
	for _, p := range s {
		if InRange(p.Date, sel) {
			out = append(out, p)
		}
	}
	return out
}

// InRange decides whether a single date belongs to sel.
//
// Decision order:
//  1. Empty date: excluded.
//  2. Calendar mode with at least one bound: the date must decompose into
//     year-month-day and lie within [StartDate, EndDate].
//  3. Otherwise year mode: "all"/"all" admits everything; else the 4-character
//     prefix is compared lexicographically, an "all" bound standing for the
//     date's own year.
func InRange(date string, sel models.RangeSelection) bool {
	if date == "" {
		return false
	}

	if sel.HasCalendarBounds() {
		day, ok := ParseDay(date)
		if !ok {
			return false
		}
		if sel.StartDate != nil && day.Before(*sel.StartDate) {
			return false
		}
		if sel.EndDate != nil && day.After(*sel.EndDate) {
			return false
		}
		return true
	}

	start, end := yearBound(sel.StartYear), yearBound(sel.EndYear)
	if start == models.AllYears && end == models.AllYears {
		return true
	}
	y := YearOf(date)
	if y == "" {
		return false
	}
	if start == models.AllYears {
		start = y
	}
	if end == models.AllYears {
		end = y
	}
	return start <= y && y <= end
}

// ParseDay reads the first three hyphen-separated components of date as
// year, month and day and returns that day at UTC midnight. Each component
// contributes its leading digits ("15T10:00" reads as 15). Out-of-range
// months and days roll over the way time.Date normalizes them.
//
// ok is false when there are fewer than three components or one of them has
// no leading digits.
func ParseDay(date string) (day time.Time, ok bool) {
	parts := strings.SplitN(date, "-", 4)
	if len(parts) < 3 {
		return time.Time{}, false
	}
	var nums [3]int
	for i := 0; i < 3; i++ {
		n, ok := leadingInt(parts[i])
		if !ok {
			return time.Time{}, false
		}
		nums[i] = n
	}
	return time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC), true
}

// YearOf returns the first four characters of date (fewer if it is shorter).
func YearOf(date string) string {
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

// yearBound treats an unset bound as open.
func yearBound(b string) string {
	if b == "" {
		return models.AllYears
	}
	return b
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if digits > 9 {
			return 0, false
		}
	}
	return n, digits > 0
}
