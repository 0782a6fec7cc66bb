package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/forecastpulse/config"
	"github.com/guttosm/forecastpulse/internal/api"
	"github.com/guttosm/forecastpulse/internal/service"
	"github.com/guttosm/forecastpulse/internal/storage"
	"github.com/guttosm/forecastpulse/internal/upstream"
	"github.com/guttosm/forecastpulse/internal/warmup"
)

// Components are the dependencies shared by every run mode (api, warm, export).
type Components struct {
	Service   service.DashboardService
	Snapshots storage.SnapshotRepository
	// DB is nil for the memory snapshot backend.
	DB *sql.DB
}

// Build wires the upstream client, the snapshot store and the dashboard
// service from cfg. The returned cleanup closes the database, if any.
func Build(cfg config.Config) (*Components, func(), error) {
	var (
		snapshots storage.SnapshotRepository
		db        *sql.DB
	)

	switch cfg.Snapshot.Backend {
	case config.SnapshotBackendMemory:
		snapshots = storage.NewMemoryRepository()
	case config.SnapshotBackendPostgres, "":
		// indirection for unit testing
		conn, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		if err := migrator(conn); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		db = conn
		snapshots = storage.NewSnapshotRepository(conn)
	default:
		return nil, nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}

	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	svc := service.NewDashboardService(client, snapshots, cfg.Dashboard.DefaultTicker)

	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
	}
	return &Components{Service: svc, Snapshots: snapshots, DB: db}, cleanup, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the dashboard service and its snapshot store via Build().
//   - Creates the HTTP handler layer and the Gin router.
//   - Registers health and readiness probes (readiness pings the snapshot DB).
//   - Starts the warm-up scheduler when WARM_SCHEDULE is set.
//   - Provides a cleanup function that stops the scheduler and closes the DB.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	comps, closeDeps, err := Build(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(comps.Service)

	// Setup Gin router with routes
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	// Register health and readiness probes
	checks := map[string]api.Check{}
	if comps.DB != nil {
		checks["snapshots"] = comps.DB.PingContext
	}
	api.NewHealthHandler(checks).Register(router)

	// Scheduled warm-up
	ctx, cancel := context.WithCancel(context.Background())
	var sched *warmup.Scheduler
	if cfg.Warmup.Schedule != "" {
		sched, err = warmup.NewScheduler(ctx, cfg.Warmup.Schedule, comps.Service, comps.Snapshots, cfg.Warmup.Parallel)
		if err != nil {
			cancel()
			closeDeps()
			return nil, nil, fmt.Errorf("failed to schedule warm-up: %w", err)
		}
		sched.Start()
	}

	// Cleanup resources on shutdown
	cleanup := func() {
		cancel()
		if sched != nil {
			sched.Stop()
		}
		closeDeps()
	}

	return router, cleanup, nil
}
