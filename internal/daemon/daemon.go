package daemon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/api"
	"github.com/fitcoach-app/fitcoach/internal/app/chat"
	"github.com/fitcoach-app/fitcoach/internal/app/gamification"
	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/ratelimit"
	"github.com/fitcoach-app/fitcoach/internal/infra/sqlite"
	"github.com/fitcoach-app/fitcoach/internal/infra/store"
	"github.com/fitcoach-app/fitcoach/internal/infra/webhook"
)

// Daemon is the core FitCoach runtime. It wires together the store, the
// webhook client, the gamification orchestrator, the chat session, and
// the HTTP API.
type Daemon struct {
	Config       Config
	DB           *sqlite.DB
	Store        domain.ProfileStore
	Webhook      *webhook.Client
	Orchestrator *gamification.Orchestrator
	Session      *chat.Session
	Server       *api.Server

	log    zerolog.Logger
	cancel context.CancelFunc
}

// New creates and initializes a Daemon from the on-disk configuration.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	log := newLogger(cfg.Logging)

	d := &Daemon{Config: cfg, log: log}

	// The transcript always lives locally; demo mode keeps it in memory
	// only.
	var transcript domain.TranscriptStore
	switch cfg.Store.Backend {
	case "", "sqlite":
		db, err := sqlite.Open(fitcoachHome())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		local := store.NewLocal(db)
		d.DB = db
		d.Store = local
		transcript = local
	case "rest":
		if cfg.Store.RESTURL == "" {
			return nil, fmt.Errorf("store backend is rest but rest_url is empty")
		}
		d.Store = store.NewREST(cfg.Store.RESTURL, cfg.Store.RESTAPIKey, log)
		db, err := sqlite.Open(fitcoachHome())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		d.DB = db
		transcript = store.NewLocal(db)
	case "none":
		d.Store = store.NewNoop()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	limiter := ratelimit.New(cfg.RateLimit.Limit, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)
	d.Webhook = webhook.New(cfg.Webhook.URL, limiter, log)
	if !d.Webhook.Configured() {
		log.Warn().Msg("webhook URL not configured, chat replies will fail")
	}

	d.Orchestrator = gamification.NewOrchestrator(d.Store, log)

	bootCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := d.Orchestrator.Bootstrap(bootCtx, cfg.User.ID); err != nil {
		d.Close()
		return nil, fmt.Errorf("bootstrap profile: %w", err)
	}

	d.Session = chat.NewSession(d.Webhook, d.Orchestrator, transcript, cfg.User.ID, log)
	d.Session.SetStallThresholds(
		time.Duration(cfg.Chat.SlowAfterSeconds)*time.Second,
		time.Duration(cfg.Chat.StallAfterSeconds)*time.Second,
	)
	d.Session.Load()

	d.Server = api.NewServer(d.Session, d.Orchestrator)
	if cfg.Telemetry.Prometheus {
		d.Server.EnableMetrics()
	}

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		d.Session.Abort()
		_ = httpServer.Shutdown(shutdownCtx)
		if d.DB != nil {
			_ = d.DB.Close()
		}
	}()

	fmt.Printf("FitCoach serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.Session != nil {
		d.Session.Abort()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

// newLogger builds the zerolog logger from the logging config.
func newLogger(cfg LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.File != "" {
		if f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
			out = f
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
