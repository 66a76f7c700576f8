package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "modernc.org/sqlite"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/blob"
	emailPkg "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/email"
	web "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/http"
	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/http/perf"
	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage"
	academyStore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/academy"
	accountStore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/account"
	enrollmentStore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/enrollment"
	eventStore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/event"
	"github.com/saren-devv/mexxus-arena-sub001/internal/application/orchestrators"
	"github.com/saren-devv/mexxus-arena-sub001/internal/application/viewcache"
	"github.com/saren-devv/mexxus-arena-sub001/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	setupLogging(cfg.LogLevel)

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// One health check; failures here mean misconfiguration, not a race
	// worth polling through.
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	slog.Info("startup", "step", "database_ready", "path", cfg.DBPath)

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation)
	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:    acctStore,
		AcademyStore:    academyStore.NewSQLiteStore(timedDB),
		EventStore:      eventStore.NewSQLiteStore(timedDB),
		EnrollmentStore: enrollmentStore.NewSQLiteStore(timedDB),
	}

	// Seed the initial admin account when no accounts exist yet
	if cfg.AdminPassword != "" {
		seedDeps := orchestrators.SeedAdminDeps{AccountStore: acctStore, Now: time.Now}
		if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
	} else {
		slog.Warn("startup", "step", "admin_seed_skipped", "reason", "no admin password configured")
	}

	// View caches: one snapshot per audience, invalidated together on writes
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := viewcache.NewMetrics(registry)
	source := &viewcache.StorageSource{
		Events:      stores.EventStore,
		Enrollments: stores.EnrollmentStore,
		Academies:   stores.AcademyStore,
	}
	dashboard := viewcache.NewDashboardManager(source, time.Now, cfg.DashboardTTL, cfg.DashboardPageSize, metrics)
	public := viewcache.NewPublicManager(source, time.Now, cfg.PublicTTL, cfg.DashboardPageSize, metrics)
	admin := viewcache.NewAdminManager(source, time.Now, cfg.AdminTTL, metrics)
	views := &web.Views{
		Dashboard:   dashboard,
		Public:      public,
		Admin:       admin,
		Invalidator: viewcache.NewInvalidator(dashboard, public, admin),
	}
	web.SetMetricsRegistry(registry)

	// Background refresher keeps stale views warm between requests
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	refresher := viewcache.NewRefresher(cfg.RefreshInterval, dashboard, public, admin)
	go refresher.Run(ctx)

	// Event posters: filesystem in normal operation, in-memory when no
	// upload directory is configured
	if cfg.UploadDir != "" {
		web.SetBlobStore(blob.NewLocalStore(cfg.UploadDir))
	} else {
		web.SetBlobStore(blob.NewMemoryStore())
		slog.Warn("startup", "step", "blob_store", "mode", "memory")
	}

	// Configure email sender
	if cfg.ResendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom), cfg.EmailFrom, cfg.EmailReplyTo)
		slog.Info("startup", "step", "email_sender", "provider", "resend")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), cfg.EmailFrom, cfg.EmailReplyTo)
		if os.Getenv("MEXXUS_ENV") == "production" {
			slog.Warn("startup", "step", "email_sender", "provider", "noop", "note", "email delivery is DISABLED in production")
		} else {
			slog.Info("startup", "step", "email_sender", "provider", "noop")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing)
	mux := web.NewMux("static", stores, views, collector, cfg.SessionTTL)

	slog.Info("startup", "step", "listening", "version", version, "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// setupLogging sets the default slog handler according to the configured level.
func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
