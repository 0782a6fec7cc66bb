package dto

import "time"

// TickersResponse is returned by GET /api/v1/tickers.
type TickersResponse struct {
	Tickers []string `json:"tickers" example:"SPY,QQQ"`
	Stale   bool     `json:"stale"` // true when the list came from stored snapshots
}

// SeriesResponse is returned by GET /api/v1/series.
//
// Fields match the API contract and may differ from internal domain models.
type SeriesResponse struct {
	Ticker      string            `json:"ticker" example:"SPY"`
	Years       []string          `json:"years" example:"2019,2020,2021"`
	Range       RangeResponse     `json:"range"`
	History     []HistoryPoint    `json:"history"`
	Predictions []PredictionPoint `json:"predictions"`
	Aggregated  []AggregatedPoint `json:"aggregated,omitempty"`
	Stats       StatsResponse     `json:"stats"`
	Stale       bool              `json:"stale"`
	FetchedAt   time.Time         `json:"fetched_at"`
}

// RangeResponse echoes the range selection actually applied, after year
// bounds were resolved against the available years.
type RangeResponse struct {
	Mode      string `json:"mode" example:"year"`
	StartYear string `json:"start_year" example:"2020"`
	EndYear   string `json:"end_year" example:"all"`
	StartDate string `json:"start_date,omitempty" example:"2020-01-01"`
	EndDate   string `json:"end_date,omitempty" example:"2020-12-31"`
}

// HistoryPoint is one closing price. Close is null when the upstream had none.
type HistoryPoint struct {
	Date  string   `json:"date" example:"2020-01-02"`
	Close *float64 `json:"close" example:"321.5"`
}

// PredictionPoint is one predicted value for a target date.
type PredictionPoint struct {
	Date  string   `json:"date" example:"2020-01-02"`
	Value *float64 `json:"value" example:"320.1"`
}

// AggregatedPoint summarizes every prediction for one target date.
type AggregatedPoint struct {
	Date  string   `json:"date" example:"2020-01-02"`
	Avg   *float64 `json:"avg" example:"320.4"`
	Min   *float64 `json:"min" example:"318.9"`
	Max   *float64 `json:"max" example:"322.0"`
	Count int      `json:"count" example:"3"`
}

// StatsResponse carries point counts for the chart header.
type StatsResponse struct {
	HistoryPoints    int `json:"history_points"`
	PredictionPoints int `json:"prediction_points"`
	TotalHistory     int `json:"total_history"`
	TotalPredictions int `json:"total_predictions"`
}
