package series

import (
	"time"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

// Build turns raw upstream records for one ticker into a Dataset: normalize,
// then deduplicate history and predictions into canonical series. The
// undeduplicated, dated prediction points are kept as Observations.
func Build(ticker string, preds []models.RawPredictionRecord, history []models.RawHistoryRecord, fetchedAt time.Time) models.Dataset {
	predPoints := NormalizePredictions(preds)
	histPoints := NormalizeHistory(history)
	return models.Dataset{
		Ticker:       ticker,
		History:      Dedup(histPoints),
		Predictions:  Dedup(predPoints),
		Observations: Observations(predPoints),
		FetchedAt:    fetchedAt,
	}
}

// View is a dataset cut down to a range selection, ready for a presenter.
type View struct {
	Ticker      string
	Range       models.RangeSelection
	Years       []string
	History     models.Series
	Predictions models.Series
	// Aggregated is nil unless the pipeline was asked to aggregate.
	Aggregated []models.AggregatedPrediction
	// Totals before filtering.
	TotalHistory     int
	TotalPredictions int
}

// Presenter renders a View: JSON for the dashboard, CSV or XLSX for export.
type Presenter interface {
	Present(v View) error
}

// Pipeline filters a dataset and optionally aggregates its predictions.
// The zero value filters only.
type Pipeline struct {
	Aggregate bool
}

// Run applies sel to ds. Year bounds should already be resolved against
// Years(ds.History, ds.Predictions); see ResolveYearBounds.
func (p Pipeline) Run(ds models.Dataset, sel models.RangeSelection) View {
	v := View{
		Ticker:           ds.Ticker,
		Range:            sel,
		Years:            Years(ds.History, ds.Predictions),
		History:          Filter(ds.History, sel),
		Predictions:      Filter(ds.Predictions, sel),
		TotalHistory:     len(ds.History),
		TotalPredictions: len(ds.Predictions),
	}
	if p.Aggregate {
		v.Aggregated = Aggregate(Filter(ds.Observations, sel))
	}
	return v
}

// Present runs the pipeline and hands the view to presenter.
func (p Pipeline) Present(ds models.Dataset, sel models.RangeSelection, presenter Presenter) error {
	return presenter.Present(p.Run(ds, sel))
}
