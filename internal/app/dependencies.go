package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nfrund/student-portal/internal/auth"
	"github.com/nfrund/student-portal/internal/cache"
	"github.com/nfrund/student-portal/internal/config"
	"github.com/nfrund/student-portal/internal/database"
	"github.com/nfrund/student-portal/internal/database/surreal"
	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/email"
	"github.com/nfrund/student-portal/internal/hub"
	"github.com/nfrund/student-portal/internal/observability"
	"github.com/nfrund/student-portal/internal/pubsub"
	"github.com/nfrund/student-portal/internal/students"
)

// Dependencies holds the core services shared by the HTTP server and the
// command line. It is built once from the configuration by New.
type Dependencies struct {
	Config *config.Config

	Users       domain.UserRepository
	StudentRepo domain.StudentRepository
	ExportCache cache.ExportCache
	Emailer     domain.EmailSender

	Bus *pubsub.WatermillBridge
	Hub *hub.Hub

	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	Auth     *auth.Service
	Reset    *auth.ResetService
	Students *students.Service
	Sessions *auth.Sessions

	migrate func(context.Context) error
	closers []func() error
}

// New connects the configured storage and cache and wires the services on
// top of them. Nothing runs in the background until Start is called.
func New(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	d := &Dependencies{Config: cfg}

	if err := d.openStorage(ctx); err != nil {
		d.Close()
		return nil, err
	}
	if err := d.openCache(ctx); err != nil {
		d.Close()
		return nil, err
	}

	emailer, err := email.NewEmailService(cfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to initialize email service: %w", err)
	}
	d.Emailer = emailer

	d.Bus = pubsub.NewWatermillBridge(cfg.IsDebug())
	d.closers = append(d.closers, d.Bus.Close)
	d.Hub = hub.NewHub()

	d.Registry = prometheus.NewRegistry()
	d.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d.Metrics, err = observability.NewMetrics(d.Registry, func() float64 {
		return float64(d.Hub.Count())
	})
	if err != nil {
		d.Close()
		return nil, err
	}

	tokens := auth.NewTokenGenerator(cfg.GetSecretKey(), cfg.GetPasswordResetTimeout())
	d.Auth = auth.NewService(d.Users)
	d.Reset = auth.NewResetService(d.Users, tokens, d.Emailer)
	d.Students = students.NewService(d.StudentRepo, d.ExportCache, d.Bus)
	d.Sessions = auth.NewSessions(cfg.GetSecretKey(), cfg.GetSessionMaxAge(), cfg.IsProduction())

	return d, nil
}

func (d *Dependencies) openStorage(ctx context.Context) error {
	switch d.Config.GetDBDriver() {
	case config.DriverSurreal:
		conn := surreal.NewConnection(d.Config)
		if err := conn.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to surrealdb: %w", err)
		}
		d.closers = append(d.closers, func() error { return conn.Close(context.Background()) })

		d.Users = surreal.NewUserStore(conn)
		d.StudentRepo = surreal.NewStudentStore(conn)
		d.migrate = func(ctx context.Context) error { return surreal.Migrate(ctx, conn) }

	default:
		db, err := database.Open(d.Config)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, func() error { return database.Close(db) })

		d.Users = database.NewUserStore(db)
		d.StudentRepo = database.NewStudentStore(db)
		d.migrate = func(ctx context.Context) error { return database.Migrate(ctx, db) }
	}

	slog.InfoContext(ctx, "Storage opened", "driver", d.Config.GetDBDriver())
	return nil
}

func (d *Dependencies) openCache(ctx context.Context) error {
	url := d.Config.GetRedisURL()
	if url == "" {
		d.ExportCache = cache.Nop{}
		return nil
	}

	client, err := cache.Connect(ctx, url)
	if err != nil {
		return err
	}
	d.ExportCache = cache.NewRedisExportCache(client, d.Config.GetExportCacheTTL())
	d.closers = append(d.closers, d.ExportCache.Close)
	slog.InfoContext(ctx, "Export cache enabled", "ttl", d.Config.GetExportCacheTTL())
	return nil
}

// Migrate creates or updates the schema of the configured storage.
func (d *Dependencies) Migrate(ctx context.Context) error {
	if d.migrate == nil {
		return errors.New("storage is not open")
	}
	return d.migrate(ctx)
}

// Close releases everything New opened, newest first.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
