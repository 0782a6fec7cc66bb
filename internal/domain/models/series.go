package models

import "time"

// Point is a normalized date/value pair.
//
// Date is an ISO "YYYY-MM-DD" string (or whatever the upstream emitted).
// Ordering throughout the module is plain string comparison, so dates are
// expected to be zero-padded.
type Point struct {
	Date  string        `json:"date"`
	Value OptionalFloat `json:"value"`
}

// Series is an ordered sequence of points. A canonical series holds at most
// one point per date, sorted ascending, and is replaced wholesale rather than
// edited.
type Series []Point

// Dates returns the date of every point, in order.
func (s Series) Dates() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Date
	}
	return out
}

// Dataset is everything the dashboard holds for one ticker after a load.
//
// Fields:
//   - History: canonical close series.
//   - Predictions: canonical prediction series (one value per date).
//   - Observations: every prediction value with a date, sorted by date but not
//     deduplicated; this is what the aggregator reduces.
//   - FetchedAt: when the upstream payload was received.
type Dataset struct {
	Ticker       string    `json:"ticker"`
	History      Series    `json:"history"`
	Predictions  Series    `json:"predictions"`
	Observations Series    `json:"observations"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// AggregatedPrediction summarizes all numeric prediction values that target
// the same date. When Count is zero every statistic is null.
type AggregatedPrediction struct {
	Date  string        `json:"date"`
	Avg   OptionalFloat `json:"avg"`
	Min   OptionalFloat `json:"min"`
	Max   OptionalFloat `json:"max"`
	Count int           `json:"count"`
}
