package main

//
//  @title           forecastpulse API
//  @version         1.0
//  @description     Ticker history and model prediction dashboard backend.
//  @termsOfService  https://github.com/guttosm/forecastpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/forecastpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        dashboard
//  @tag.description Tickers, filtered series and exports
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/guttosm/forecastpulse/config"
	_ "github.com/guttosm/forecastpulse/docs" // swagger docs
	"github.com/guttosm/forecastpulse/internal/app"
	"github.com/guttosm/forecastpulse/internal/domain/models"
	"github.com/guttosm/forecastpulse/internal/export"
	"github.com/guttosm/forecastpulse/internal/logger"
	"github.com/guttosm/forecastpulse/internal/series"
	"github.com/guttosm/forecastpulse/internal/service"
	"github.com/guttosm/forecastpulse/internal/warmup"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (scheduler, DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// exportOptions are the export-mode flags.
type exportOptions struct {
	Ticker    string
	Kind      string
	Format    string
	Out       string // empty uses export.FileName
	Mode      string
	StartYear string
	EndYear   string
	StartDate string
	EndDate   string
	Preset    string
}

func (o exportOptions) query() (service.Query, error) {
	q := service.Query{
		Ticker:    o.Ticker,
		Mode:      models.RangeMode(o.Mode),
		StartYear: o.StartYear,
		EndYear:   o.EndYear,
		Preset:    series.Preset(o.Preset),
		Aggregate: export.Kind(o.Kind) == export.KindAggregated,
	}
	if q.Mode == "" {
		q.Mode = models.RangeModeYear
	}
	if q.Mode != models.RangeModeYear && q.Mode != models.RangeModeCalendar {
		return q, fmt.Errorf("invalid range mode %q", o.Mode)
	}
	for _, d := range []struct {
		raw string
		dst **time.Time
	}{{o.StartDate, &q.StartDate}, {o.EndDate, &q.EndDate}} {
		if d.raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", d.raw)
		if err != nil {
			return q, fmt.Errorf("invalid date %q: %w", d.raw, err)
		}
		*d.dst = &t
	}
	return q, nil
}

// runExport loads a ticker, filters it and writes the chosen series to w.
// It returns the suggested file name.
func runExport(ctx context.Context, svc service.DashboardService, opts exportOptions, w io.Writer) (string, error) {
	q, err := opts.query()
	if err != nil {
		return "", err
	}
	format := export.Format(opts.Format)
	if format == "" {
		format = export.FormatCSV
	}
	res, err := svc.Series(ctx, q)
	if err != nil {
		return "", err
	}
	if res.Stale {
		logger.L().Warn().Str("ticker", res.Ticker).Time("fetched_at", res.FetchedAt).Msg("exporting stale data")
	}
	if err := (export.Presenter{W: w, Kind: export.Kind(opts.Kind), Format: format}).Present(res.View); err != nil {
		return "", err
	}
	return export.FileName(res.Ticker, export.Kind(opts.Kind), format), nil
}

// exportToFile writes the export to a temp file and renames it to opts.Out
// only on success.
func exportToFile(ctx context.Context, svc service.DashboardService, opts exportOptions) (string, error) {
	dir := "."
	if opts.Out != "" {
		dir = filepath.Dir(opts.Out)
	}
	tmp, err := os.CreateTemp(dir, ".forecastpulse-export-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	name, err := runExport(ctx, svc, opts, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}

	dst := opts.Out
	if dst == "" {
		dst = name
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return dst, nil
}

// main is the entry point of the forecastpulse application.
//
// Modes (selected via --mode flag):
//   - api:    Starts the REST API (default).
//   - warm:   Loads every upstream ticker once, refreshing stored snapshots.
//   - export: Writes one ticker's filtered series to a CSV or XLSX file.
//
// Flags:
//   - --mode:     Execution mode ("api", "warm" or "export"). Default: "api".
//   - --port:     Port for the API server. Defaults to SERVER_PORT.
//   - --parallel: Tickers loaded concurrently in warm mode (0=auto).
//   - --ticker, --kind, --format, --out, --range-mode, --start-year,
//     --end-year, --start-date, --end-date, --preset: export selection.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api, warm or export")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	parallel := flag.Int("parallel", config.AppConfig.Warmup.Parallel, "Tickers loaded concurrently in warm mode (0=auto, max 8)")

	var eo exportOptions
	flag.StringVar(&eo.Ticker, "ticker", "", "Ticker to export (default DEFAULT_TICKER)")
	flag.StringVar(&eo.Kind, "kind", string(export.KindHistory), "Series to export: history, predictions or aggregated")
	flag.StringVar(&eo.Format, "format", string(export.FormatCSV), "Export format: csv or xlsx")
	flag.StringVar(&eo.Out, "out", "", "Output file (default <TICKER>-<kind>.<format>)")
	flag.StringVar(&eo.Mode, "range-mode", "year", "Range mode: year or calendar")
	flag.StringVar(&eo.StartYear, "start-year", "", "First year or all")
	flag.StringVar(&eo.EndYear, "end-year", "", "Last year or all")
	flag.StringVar(&eo.StartDate, "start-date", "", "Calendar start (YYYY-MM-DD)")
	flag.StringVar(&eo.EndDate, "end-date", "", "Calendar end (YYYY-MM-DD)")
	flag.StringVar(&eo.Preset, "preset", "", "Year preset: 1y, 5y or all")
	flag.Parse()

	switch *mode {
	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "warm":
		logger.L().Info().Msg("running warm-up")
		comps, cleanup, err := app.Build(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		defer cleanup()

		rep, err := warmup.Run(ctx, comps.Service, comps.Snapshots, *parallel)
		if err != nil {
			logger.L().Error().Err(err).Int("failed", rep.Failed).Msg("warm-up finished with errors")
			cleanup()
			os.Exit(1)
		}
		logger.L().Info().Int("loaded", rep.Loaded).Int64("pruned", rep.Pruned).Msg("warm-up completed successfully")

	case "export":
		comps, cleanup, err := app.Build(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		defer cleanup()

		dst, err := exportToFile(ctx, comps.Service, eo)
		if err != nil {
			logger.L().Error().Err(err).Msg("export failed")
			cleanup()
			os.Exit(1)
		}
		logger.L().Info().Str("file", dst).Msg("export written")

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
