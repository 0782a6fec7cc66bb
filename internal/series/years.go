package series

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

// Years returns the selectable years: every distinct non-empty 4-character
// date prefix across history and predictions, sorted ascending.
func Years(history, predictions models.Series) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range []models.Series{history, predictions} {
		for _, p := range s {
			y := YearOf(p.Date)
			if y == "" {
				continue
			}
			if _, ok := seen[y]; ok {
				continue
			}
			seen[y] = struct{}{}
			out = append(out, y)
		}
	}
	slices.Sort(out)
	return out
}

// ResolveYearBounds keeps the year bounds valid for the current data.
//
// An unset bound, or a year that is not in years, resets to the first
// (start) or last (end) available year. "all" is always a valid choice and
// is kept, unlike a selection that re-syncs its bounds on every data change,
// so a stateless request can ask for the full range. With no years
// available the bounds are returned unchanged, with unset ones opened to
// "all".
func ResolveYearBounds(years []string, start, end string) (string, string) {
	if len(years) == 0 {
		return yearBound(start), yearBound(end)
	}
	first, last := years[0], years[len(years)-1]
	if start != models.AllYears && !slices.Contains(years, start) {
		start = first
	}
	if end != models.AllYears && !slices.Contains(years, end) {
		end = last
	}
	return start, end
}

// Preset is a shortcut year window anchored on the latest available year.
type Preset string

const (
	PresetOneYear   Preset = "1y"
	PresetFiveYears Preset = "5y"
	PresetAll       Preset = "all"
)

// ApplyPreset returns the year bounds for p.
//
// 1y spans latest-1..latest and 5y latest-5..latest; the start year need not
// have data. "all" opens both bounds. ok is false when there are no years to
// anchor on or latest is not numeric.
func ApplyPreset(years []string, p Preset) (start, end string, ok bool) {
	if len(years) == 0 {
		return "", "", false
	}
	if p == PresetAll {
		return models.AllYears, models.AllYears, true
	}
	latest := years[len(years)-1]
	ly, err := strconv.Atoi(latest)
	if err != nil {
		return "", "", false
	}
	switch p {
	case PresetOneYear:
		return fmt.Sprintf("%04d", ly-1), latest, true
	case PresetFiveYears:
		return fmt.Sprintf("%04d", ly-5), latest, true
	default:
		return "", "", false
	}
}
