// Package bootstrap wires configuration, logging, the optional cache
// database and the GitHub client into a ready-to-run application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gh-pr-stats/internal/api"
	"gh-pr-stats/internal/cache"
	"gh-pr-stats/internal/github"
	"gh-pr-stats/internal/pkg/config"
	"gh-pr-stats/internal/pkg/logger"
	"gh-pr-stats/internal/pkg/postgres"
	"gh-pr-stats/internal/report"
	"gh-pr-stats/internal/stats"
	"gh-pr-stats/internal/worktime"
)

type Application struct {
	Config *config.Config
	Logger *logger.Logger

	Postgres       *postgres.Connection
	Migrator       *postgres.Migrator
	CacheTransport *cache.Transport

	Github *github.Client
	Zones  *worktime.Zones
	Engine *worktime.Engine
	Stats  *stats.Service

	ReportWriter *report.Writer
	Tables       *report.TableFormatter
	CSV          *report.CSVFormatter

	HTTPServer *api.HTTPServer
}

func New() (*Application, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &Application{
		Config: cfg,
		Logger: log,
	}

	if cfg.CacheEnabled() {
		pg, err := postgres.New(log, cfg.Postgres())
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres connection: %w", err)
		}
		app.Postgres = pg
	}

	return app, nil
}

// Init establishes external connections and builds the stats pipeline.
// Progress callbacks for CLI feedback are installed via opts.
func (app *Application) Init(ctx context.Context, opts ...stats.ServiceOption) error {
	app.Logger.Info("initializing application")

	if err := app.initCache(ctx); err != nil {
		return err
	}

	ghClient, err := github.NewClient(app.Config.Github(), app.Logger, app.cacheRoundTripper())
	if err != nil {
		return fmt.Errorf("failed to create github client: %w", err)
	}
	app.Github = ghClient

	defaultZone, err := time.LoadLocation(app.Config.DefaultTimezone)
	if err != nil {
		return fmt.Errorf("invalid default timezone %q: %w", app.Config.DefaultTimezone, err)
	}
	app.Zones, err = worktime.ParseUserZones(app.Config.UserTimezones, defaultZone)
	if err != nil {
		return fmt.Errorf("invalid user timezones: %w", err)
	}

	app.Engine = worktime.NewEngine(app.Logger)

	serviceOpts := append([]stats.ServiceOption{
		stats.WithConcurrency(app.Config.AnalysisConcurrency),
	}, opts...)
	app.Stats = stats.NewService(app.Github, app.Engine, app.Zones, app.Logger, serviceOpts...)

	app.ReportWriter = report.NewWriter(app.Config.ReportsDir, app.Logger)
	app.Tables = report.NewTableFormatter()
	app.CSV = report.NewCSVFormatter(app.ReportWriter)

	app.Logger.Info("application initialized successfully")
	return nil
}

func (app *Application) initCache(ctx context.Context) error {
	if app.Postgres == nil {
		app.Logger.Debug("api response cache disabled")
		return nil
	}

	if err := app.Postgres.Connect(ctx); err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}

	app.Migrator = postgres.NewMigrator(app.Postgres.Pool(), app.Config.CacheMigrationTimeout, app.Logger)
	if err := app.Migrator.Run(ctx); err != nil {
		return fmt.Errorf("cache migrations failed: %w", err)
	}

	store := cache.NewStore(app.Postgres.Pool(), app.Logger)
	app.CacheTransport = cache.NewTransport(store, nil, app.Config.CacheTTL, app.Logger)
	return nil
}

// cacheRoundTripper avoids handing the client a typed nil transport.
func (app *Application) cacheRoundTripper() http.RoundTripper {
	if app.CacheTransport == nil {
		return nil
	}
	return app.CacheTransport
}

// CacheStats returns cache counters, nil when the cache is disabled.
func (app *Application) CacheStats() *cache.Snapshot {
	if app.CacheTransport == nil {
		return nil
	}
	snapshot := app.CacheTransport.Stats()
	return &snapshot
}

// StartServer launches the report preview server.
func (app *Application) StartServer(ctx context.Context) error {
	app.HTTPServer = api.NewHTTPServer(
		&api.ServerConfig{
			Host:         app.Config.ServerHost,
			Port:         app.Config.ServerPort,
			ReadTimeout:  app.Config.ServerReadTimeout,
			WriteTimeout: app.Config.ServerWriteTimeout,
			IdleTimeout:  app.Config.ServerIdleTimeout,
		},
		app.Config.ReportsDir,
		app.CacheStats,
		app.Logger,
	)
	return app.HTTPServer.Start(ctx)
}

func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("shutting down application")

	if app.HTTPServer != nil {
		if err := app.HTTPServer.Stop(ctx); err != nil {
			app.Logger.Error("error stopping http server", "error", err)
		}
	}

	if app.CacheTransport != nil {
		app.Logger.Info(app.CacheTransport.Stats().Summary())
	}
	if app.Postgres != nil {
		app.Postgres.Close()
	}

	app.Logger.Info("application shutdown completed")
	return nil
}
