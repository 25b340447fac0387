package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/backends"
	"github.com/splitq/wirecut/internal/config"
	"github.com/splitq/wirecut/internal/database"
	"github.com/splitq/wirecut/internal/database/repositories"
	"github.com/splitq/wirecut/internal/events"
	"github.com/splitq/wirecut/internal/modules/cutting"
	"github.com/splitq/wirecut/internal/modules/estimation"
	"github.com/splitq/wirecut/internal/modules/execution"
	"github.com/splitq/wirecut/internal/qpd"
	"github.com/splitq/wirecut/internal/scheduler"
	"github.com/splitq/wirecut/internal/server"
	"github.com/splitq/wirecut/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting wirecut")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Channel catalog
	catalog := qpd.DefaultCatalog()
	if err := qpd.Validate(catalog); err != nil {
		log.Fatal().Err(err).Msg("Invalid channel catalog")
	}

	// Execution backends
	registry := backends.NewRegistry()
	registry.Register(backends.NewLocalBackend(log))
	registry.Register(backends.NewRemoteBackend(cfg.BackendURL, log))

	backend, err := registry.Get(cfg.Backend)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to select execution backend")
	}

	// Pipeline services
	eventMgr := events.NewManager(log)
	cuttingSvc := cutting.NewService(catalog, cfg.MaxWorkers, log)
	driver := execution.NewDriver(backend, cfg.MaxWorkers, log)
	estimationSvc := estimation.NewService(cuttingSvc, driver, eventMgr, log)

	templateRepo := repositories.NewTemplateRepository(db.Conn(), log)

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	if err := registerJobs(sched, db, backend, eventMgr, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:       cfg.Port,
		Log:        log,
		DevMode:    cfg.DevMode,
		Cutting:    cutting.NewHandler(cuttingSvc, log),
		Estimation: estimation.NewHandler(estimationSvc, log),
		Templates:  templateRepo,
		Backends:   registry,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Str("backend", backend.Name()).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(
	sched *scheduler.Scheduler,
	db *database.DB,
	backend backends.Backend,
	eventMgr *events.Manager,
	log zerolog.Logger,
) error {
	if err := sched.AddJob("@daily", scheduler.NewMaintenanceJob(db, log)); err != nil {
		return err
	}
	return sched.AddJob("@every 5m", scheduler.NewBackendProbeJob(backend, eventMgr, log))
}
