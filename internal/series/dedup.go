package series

import (
	"slices"
	"strings"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

// Dedup builds a canonical series from normalized points.
//
// Points with an empty date are dropped. For a repeated date the last
// occurrence in input order wins. The result is sorted ascending by plain
// string comparison of the date, which is only chronological for zero-padded
// ISO dates; callers must supply dates in that form.
//
// The input is never modified.
func Dedup(points []models.Point) models.Series {
	index := make(map[string]int, len(points))
	out := make(models.Series, 0, len(points))
	for _, p := range points {
		if p.Date == "" {
			continue
		}
		if i, ok := index[p.Date]; ok {
			out[i] = p
			continue
		}
		index[p.Date] = len(out)
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b models.Point) int {
		return strings.Compare(a.Date, b.Date)
	})
	return out
}

// Observations keeps every dated point, stably sorted by date, without
// collapsing duplicates. It feeds the prediction aggregator.
func Observations(points []models.Point) models.Series {
	out := make(models.Series, 0, len(points))
	for _, p := range points {
		if p.Date != "" {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Point) int {
		return strings.Compare(a.Date, b.Date)
	})
	return out
}
