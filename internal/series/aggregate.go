package series

import (
	"slices"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

// Aggregate reduces prediction points that share a target date to
// avg/min/max/count, one entry per distinct date, ascending.
//
// Only present values contribute. A date whose points are all null still
// gets an entry, with null statistics and Count 0, so the x-axis keeps it.
func Aggregate(s models.Series) []models.AggregatedPrediction {
	type acc struct {
		sum, min, max float64
		count         int
	}

	groups := make(map[string]*acc, len(s))
	dates := make([]string, 0, len(s))
	for _, p := range s {
		if p.Date == "" {
			continue
		}
		g, ok := groups[p.Date]
		if !ok {
			g = &acc{}
			groups[p.Date] = g
			dates = append(dates, p.Date)
		}
		v, present := p.Value.Get()
		if !present {
			continue
		}
		if g.count == 0 || v < g.min {
			g.min = v
		}
		if g.count == 0 || v > g.max {
			g.max = v
		}
		g.sum += v
		g.count++
	}

	slices.Sort(dates)
	out := make([]models.AggregatedPrediction, 0, len(dates))
	for _, d := range dates {
		g := groups[d]
		agg := models.AggregatedPrediction{Date: d, Count: g.count}
		if g.count > 0 {
			agg.Avg = models.Some(g.sum / float64(g.count))
			agg.Min = models.Some(g.min)
			agg.Max = models.Some(g.max)
		}
		out = append(out, agg)
	}
	return out
}
