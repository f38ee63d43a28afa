package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookscan/internal/config"
	"github.com/mrlokans/bookscan/internal/database"
	http_controllers "github.com/mrlokans/bookscan/internal/http"
	"github.com/mrlokans/bookscan/internal/logging"
	"github.com/mrlokans/bookscan/internal/metadata"
	"github.com/mrlokans/bookscan/internal/scheduler"
	"github.com/mrlokans/bookscan/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired service components.
type App struct {
	Router    *gin.Engine
	DB        *database.Database
	Enricher  *metadata.Enricher
	Tasks     *tasks.Client
	Scheduler *scheduler.EnrichmentScheduler

	log    *zap.Logger
	cancel context.CancelFunc
}

// NewApp opens the database and wires the enrichment pipeline, the task
// queue and the HTTP router. Background workers are not started.
func NewApp(cfg *config.Config, version string, log *zap.Logger) (*App, error) {
	log = logging.OrNop(log)

	db, err := database.NewDatabase(cfg.Database.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	openLibraryClient := metadata.NewOpenLibraryClient(metadata.ClientConfig{
		BaseURL:         cfg.OpenLibrary.BaseURL,
		Timeout:         cfg.OpenLibrary.Timeout,
		RequestInterval: cfg.OpenLibrary.RequestInterval,
	}, log)
	enricher := metadata.NewEnricher(openLibraryClient, database.NewMetadataUpdater(db), log)
	enricher.SetProgressReporter(db.Progress)

	app := &App{DB: db, Enricher: enricher, log: log}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Books:          db.Books,
		Enricher:       enricher,
		Progress:       db.Progress,
		EnrichOnAdd:    cfg.Enrichment.OnAdd,
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		Version:        version,
		Logger:         log,
	}

	var enqueuer scheduler.Enqueuer
	if cfg.Tasks.Enabled {
		taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks), log)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		taskClient.Register(
			tasks.NewEnrichBookQueue(enricher, log),
			tasks.NewEnrichAllBooksQueue(enricher, log),
		)
		app.Tasks = taskClient
		routerCfg.TaskClient = taskClient
		enqueuer = taskClient
	} else {
		log.Warn("task queue disabled, bulk enrichment runs inline")
		enqueuer = inlineEnqueuer(enricher, log)
	}

	if cfg.Enrichment.ScheduleEnabled {
		if err := scheduler.ValidateSchedule(cfg.Enrichment.Schedule); err != nil {
			app.Close()
			return nil, fmt.Errorf("invalid enrichment schedule %q: %w", cfg.Enrichment.Schedule, err)
		}
		app.Scheduler = scheduler.NewEnrichmentScheduler(enqueuer, cfg.Enrichment.Schedule, log)
	}

	app.Router = http_controllers.NewRouter(routerCfg)
	return app, nil
}

// inlineEnqueuer runs bulk enrichment in a goroutine when there is no task
// queue to hand it to.
func inlineEnqueuer(enricher *metadata.Enricher, log *zap.Logger) scheduler.EnqueuerFunc {
	return func(ctx context.Context, trigger string) (string, error) {
		go func() {
			result, err := enricher.EnrichAllMissing(context.WithoutCancel(ctx))
			if err != nil {
				log.Warn("inline enrichment failed", zap.String("trigger", trigger), zap.Error(err))
				return
			}
			log.Info("inline enrichment finished",
				zap.String("trigger", trigger),
				zap.Int("enriched", result.Enriched),
				zap.Int("failed", result.Failed))
		}()
		return "", nil
	}
}

// Start launches the task workers and the scheduler.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Tasks != nil {
		a.Tasks.Start(ctx)
	}
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(ctx); err != nil {
			cancel()
			return err
		}
	}
	return nil
}

// Shutdown stops background work, waiting for running tasks until ctx expires.
func (a *App) Shutdown(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
	}
	if a.cancel != nil {
		a.cancel()
	}
}

// Close releases the task and catalogue databases.
func (a *App) Close() error {
	var errs []error
	if a.Tasks != nil {
		errs = append(errs, a.Tasks.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts down
// gracefully.
func Serve(router *gin.Engine, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()), zap.Duration("timeout", timeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work first so no task writes after the server is gone.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server exiting")
	return nil
}

// Run wires the service and serves HTTP until interrupted.
func Run(cfg *config.Config, version string, log *zap.Logger) error {
	log = logging.OrNop(log)
	log.Info("starting bookscan", zap.String("version", version))

	app, err := NewApp(cfg, version, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("error closing resources", zap.Error(err))
		}
	}()

	if err := app.Start(); err != nil {
		app.Shutdown(context.Background())
		return err
	}

	return Serve(app.Router, cfg, log, app.Shutdown)
}
