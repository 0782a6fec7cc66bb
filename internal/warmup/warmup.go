package warmup

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/forecastpulse/internal/logger"
	"github.com/guttosm/forecastpulse/internal/service"
)

const maxParallelCap = 8

// Loader is the part of the dashboard service a warm-up needs.
type Loader interface {
	Tickers(ctx context.Context) (*service.TickerList, error)
	Load(ctx context.Context, ticker string) (*service.Loaded, error)
}

// Pruner drops snapshots for tickers that are no longer listed.
type Pruner interface {
	PruneSnapshots(ctx context.Context, keep []string) (int64, error)
}

// Report summarizes one warm-up pass.
type Report struct {
	Tickers int
	Loaded  int
	Stale   int
	Failed  int
	Pruned  int64
	Elapsed time.Duration
}

// Run loads every listed ticker so that each one gets a fresh snapshot.
//
// Behavior:
//   - Fetches the ticker list; a stale (stored) list is used but never pruned.
//   - Loads tickers with bounded parallelism: min(8, NumCPU) by default, or
//     parallel clamped to 1..8.
//   - A failing ticker does not stop the others; all failures are returned
//     joined. A load served from stale data counts as a failure.
//   - When pruner is non-nil and the list is fresh, snapshots for unlisted
//     tickers are removed.
func Run(ctx context.Context, loader Loader, pruner Pruner, parallel int) (Report, error) {
	start := time.Now()
	lg := logger.Component("warmup")
	var rep Report

	list, err := loader.Tickers(ctx)
	if err != nil {
		return rep, fmt.Errorf("list tickers: %w", err)
	}
	tickers := list.Tickers
	rep.Tickers = len(tickers)

	maxParallel := clampParallel(parallel)
	lg.Info().
		Int("tickers", len(tickers)).
		Int("max_parallel", maxParallel).
		Bool("stale_list", list.Stale).
		Msg("warmup start")

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, ticker := range tickers {
		if err := acquire(ctx, sem); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}

		g.Go(func() error {
			defer func() { <-sem }()
			t0 := time.Now()

			out, err := loader.Load(gctx, ticker)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				rep.Failed++
				errs = append(errs, fmt.Errorf("ticker %s: %w", ticker, err))
				lg.Error().Str("ticker", ticker).Err(err).Msg("warmup ticker failed")
			case out.Stale:
				rep.Stale++
				errs = append(errs, fmt.Errorf("ticker %s: served stale data", ticker))
				lg.Warn().Str("ticker", ticker).Msg("warmup ticker stale")
			default:
				rep.Loaded++
				lg.Info().
					Int("idx", i+1).
					Int("total", len(tickers)).
					Str("ticker", ticker).
					Int("history", len(out.Dataset.History)).
					Int("predictions", len(out.Dataset.Predictions)).
					Dur("elapsed", time.Since(t0)).
					Msg("warmup ticker done")
			}
			return nil
		})
	}
	_ = g.Wait()

	if pruner != nil && !list.Stale && len(errs) == 0 {
		n, err := pruner.PruneSnapshots(ctx, tickers)
		if err != nil {
			errs = append(errs, fmt.Errorf("prune snapshots: %w", err))
		}
		rep.Pruned = n
	}

	rep.Elapsed = time.Since(start)
	lg.Info().
		Int("loaded", rep.Loaded).
		Int("stale", rep.Stale).
		Int("failed", rep.Failed).
		Int64("pruned", rep.Pruned).
		Dur("elapsed", rep.Elapsed).
		Msg("warmup done")

	return rep, errors.Join(errs...)
}

func acquire(ctx context.Context, sem chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func clampParallel(parallel int) int {
	if parallel > 0 {
		return min(parallel, maxParallelCap)
	}
	return min(runtime.NumCPU(), maxParallelCap)
}
