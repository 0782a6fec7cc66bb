package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/forecastpulse/internal/domain/models"
	"github.com/guttosm/forecastpulse/internal/logger"
	"github.com/guttosm/forecastpulse/internal/metrics"
	"github.com/guttosm/forecastpulse/internal/series"
	"github.com/guttosm/forecastpulse/internal/storage"
	"github.com/guttosm/forecastpulse/internal/upstream"
)

// ErrUnavailable is returned when a fetch failed and there is no earlier
// dataset to fall back to.
var ErrUnavailable = errors.New("no data available")

// Fetcher is the upstream surface the service needs.
type Fetcher interface {
	Tickers(ctx context.Context) ([]string, error)
	FetchAll(ctx context.Context, ticker string) (*upstream.Payload, error)
}

// DashboardService defines the dashboard use cases: list tickers, load a
// ticker and cut it down to a range selection.
type DashboardService interface {
	Tickers(ctx context.Context) (*TickerList, error)
	Load(ctx context.Context, ticker string) (*Loaded, error)
	Series(ctx context.Context, q Query) (*Result, error)
}

// TickerList is the selectable tickers. Stale is set when the list came
// from stored snapshots because the upstream call failed.
type TickerList struct {
	Tickers []string
	Stale   bool
}

// Loaded is the dataset published for one ticker.
type Loaded struct {
	Dataset models.Dataset
	Tickers []string
	// Stale is set when the fresh fetch failed and an earlier dataset was
	// served instead.
	Stale bool
}

// Query is a dashboard request.
//
// Preset, when set, overrides the year bounds. In calendar mode the
// StartDate/EndDate bounds apply; without either one the year bounds do.
type Query struct {
	Ticker    string
	Mode      models.RangeMode
	StartYear string
	EndYear   string
	StartDate *time.Time
	EndDate   *time.Time
	Preset    series.Preset
	Aggregate bool
}

// Result is a filtered view plus load metadata.
type Result struct {
	series.View
	Stale     bool
	FetchedAt time.Time
}

type dashboardService struct {
	fetcher       Fetcher
	snapshots     storage.SnapshotRepository
	store         *Store
	defaultTicker string
}

// NewDashboardService wires the service.
//
// Parameters:
//   - fetcher (Fetcher): upstream client; always called, never cached.
//   - snapshots (storage.SnapshotRepository): last-known-good store, may be nil.
//   - defaultTicker (string): used when a request names no ticker.
func NewDashboardService(fetcher Fetcher, snapshots storage.SnapshotRepository, defaultTicker string) DashboardService {
	return &dashboardService{
		fetcher:       fetcher,
		snapshots:     snapshots,
		store:         NewStore(),
		defaultTicker: defaultTicker,
	}
}

func (s *dashboardService) Tickers(ctx context.Context) (*TickerList, error) {
	tickers, err := s.fetcher.Tickers(ctx)
	if err == nil {
		return &TickerList{Tickers: s.orDefault(tickers)}, nil
	}

	logger.L().Warn().Err(err).Msg("ticker list fetch failed")
	if s.snapshots != nil {
		stored, serr := s.snapshots.ListTickers(ctx)
		if serr != nil {
			logger.L().Error().Err(serr).Msg("snapshot ticker list failed")
		} else if len(stored) > 0 {
			metrics.StaleServed.Inc()
			return &TickerList{Tickers: stored, Stale: true}, nil
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Load fetches tickers, predictions and history for ticker together and
// publishes the resulting dataset. On failure the last committed dataset,
// then the stored snapshot, is served as stale.
func (s *dashboardService) Load(ctx context.Context, ticker string) (*Loaded, error) {
	ticker = s.resolveTicker(ticker)
	gen := s.store.Begin()

	payload, err := s.fetcher.FetchAll(ctx, ticker)
	if err != nil {
		logger.L().Error().Err(err).Str("ticker", ticker).Msg("dashboard load failed")
		return s.fallback(ctx, ticker, err)
	}

	ds := series.Build(ticker, payload.Predictions, payload.History, payload.FetchedAt)
	logSummary(ds, len(payload.History), len(payload.Predictions))

	published, accepted := s.store.Commit(gen, ds)
	if !accepted {
		metrics.LoadsDiscarded.Inc()
		logger.L().Info().
			Str("ticker", ticker).
			Uint64("generation", gen).
			Msg("discarding out-of-order load")
	} else if s.snapshots != nil {
		if err := s.snapshots.SaveSnapshot(ctx, ds); err != nil {
			logger.L().Warn().Err(err).Str("ticker", ticker).Msg("snapshot save failed")
		}
	}

	return &Loaded{Dataset: published, Tickers: s.orDefault(payload.Tickers)}, nil
}

func (s *dashboardService) Series(ctx context.Context, q Query) (*Result, error) {
	loaded, err := s.Load(ctx, q.Ticker)
	if err != nil {
		return nil, err
	}
	ds := loaded.Dataset
	sel := ResolveSelection(series.Years(ds.History, ds.Predictions), q)
	view := series.Pipeline{Aggregate: q.Aggregate}.Run(ds, sel)
	return &Result{View: view, Stale: loaded.Stale, FetchedAt: ds.FetchedAt}, nil
}

// ResolveSelection turns a query into a range selection valid for years.
func ResolveSelection(years []string, q Query) models.RangeSelection {
	if q.Preset != "" {
		start, end, ok := series.ApplyPreset(years, q.Preset)
		if !ok {
			return models.AllTime()
		}
		return models.RangeSelection{Mode: models.RangeModeYear, StartYear: start, EndYear: end}
	}

	start, end := series.ResolveYearBounds(years, q.StartYear, q.EndYear)
	sel := models.RangeSelection{Mode: models.RangeModeYear, StartYear: start, EndYear: end}
	if q.Mode == models.RangeModeCalendar {
		sel.Mode = models.RangeModeCalendar
		sel.StartDate = q.StartDate
		sel.EndDate = q.EndDate
	}
	return sel
}

func (s *dashboardService) fallback(ctx context.Context, ticker string, cause error) (*Loaded, error) {
	if ds, ok := s.store.Get(ticker); ok {
		metrics.StaleServed.Inc()
		return &Loaded{Dataset: ds, Tickers: []string{ticker}, Stale: true}, nil
	}
	if s.snapshots != nil {
		ds, err := s.snapshots.LoadSnapshot(ctx, ticker)
		if err != nil {
			logger.L().Error().Err(err).Str("ticker", ticker).Msg("snapshot load failed")
		}
		if ds != nil {
			metrics.StaleServed.Inc()
			return &Loaded{Dataset: *ds, Tickers: []string{ticker}, Stale: true}, nil
		}
	}
	return nil, fmt.Errorf("%w for %s: %w", ErrUnavailable, ticker, cause)
}

func (s *dashboardService) resolveTicker(ticker string) string {
	if t := strings.TrimSpace(ticker); t != "" {
		return t
	}
	return s.defaultTicker
}

func (s *dashboardService) orDefault(tickers []string) []string {
	if len(tickers) == 0 && s.defaultTicker != "" {
		return []string{s.defaultTicker}
	}
	return tickers
}

func logSummary(ds models.Dataset, rawHistory, rawPredictions int) {
	ev := logger.L().Info().
		Str("ticker", ds.Ticker).
		Int("history_raw", rawHistory).
		Int("history_unique", len(ds.History)).
		Int("predictions_raw", rawPredictions).
		Int("predictions_unique", len(ds.Predictions))
	if n := len(ds.History); n > 0 {
		ev = ev.Str("history_span", ds.History[0].Date+" -> "+ds.History[n-1].Date)
	}
	if n := len(ds.Predictions); n > 0 {
		ev = ev.Str("predictions_span", ds.Predictions[0].Date+" -> "+ds.Predictions[n-1].Date)
	}
	ev.Msg("dataset loaded")
}
