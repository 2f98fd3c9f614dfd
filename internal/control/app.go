package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vietddude/blockphantom/internal/analysis"
	"github.com/vietddude/blockphantom/internal/core/config"
	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/core/worker"
	"github.com/vietddude/blockphantom/internal/health"
	"github.com/vietddude/blockphantom/internal/infra/backend"
	redisclient "github.com/vietddude/blockphantom/internal/infra/redis"
	"github.com/vietddude/blockphantom/internal/infra/storage"
	"github.com/vietddude/blockphantom/internal/infra/storage/memory"
	"github.com/vietddude/blockphantom/internal/payment"
)

// App wires the backend client, analysis and payments together.
type App struct {
	cfg          *config.AppConfig
	backend      *backend.Client
	analyzer     *analysis.Analyzer
	payments     *payment.Service
	healthServer *health.Server
	pruner       *worker.Pruner
	redisClient  *redisclient.Client
	cancel       context.CancelFunc
	log          *slog.Logger
}

var (
	_ RiskAnalyzer = (*App)(nil)
	_ PaymentDesk  = (*App)(nil)
)

// Options overrides runtime collaborators, mostly for tests.
type Options struct {
	Clock  payment.Clock
	Logger *slog.Logger
}

// NewApp creates an App with all dependencies initialized.
func NewApp(cfg *config.AppConfig, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = payment.RealClock()
	}

	app := &App{cfg: cfg, log: log}

	// 1. Storage
	var repo storage.PaymentRepository
	switch cfg.Storage.Driver {
	case config.DriverRedis:
		client, err := redisclient.NewClient(cfg.Storage.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		app.redisClient = client
		repo = redisclient.NewPaymentRepo(client, cfg.Storage.TTL)
		log.Info("Using Redis storage", "ttl", cfg.Storage.TTL)
	default:
		memRepo := memory.NewPaymentRepo(memory.NewMemoryStorage())
		app.pruner = worker.NewPruner(cfg.Storage.TTL, memRepo, log)
		repo = memRepo
		log.Info("Using Memory storage")
	}

	// 2. Backend
	app.backend = backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	// 3. Analysis and payments
	orch := analysis.NewOrchestrator(app.backend, log)
	app.analyzer = analysis.NewAnalyzer(orch, log)
	app.payments = payment.NewService(app.backend, repo, payment.Config{
		Currency: cfg.Payment.Currency,
		Amount:   cfg.Payment.Amount,
		Poller: payment.PollerConfig{
			Interval:             cfg.Payment.PollInterval,
			Timeout:              cfg.Payment.PollTimeout,
			MaxConsecutiveErrors: cfg.Payment.ErrorCap(),
		},
	}, clock, log)

	// 4. Health
	if cfg.Metrics.Port > 0 {
		app.healthServer = health.NewServer(app.backend, cfg.Metrics.Port)
	}

	return app, nil
}

// Start starts background servers and workers. It does not block.
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	if a.pruner != nil {
		go a.pruner.Start(ctx)
	}

	if a.healthServer != nil {
		a.log.Info("Starting health server", "port", a.cfg.Metrics.Port)
		go func() {
			if err := a.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("Health server failed", "error", err)
			}
		}()
	}
	return nil
}

// Stop releases connections and stops background servers.
func (a *App) Stop(ctx context.Context) error {
	a.log.Debug("Stopping app")

	if a.cancel != nil {
		a.cancel()
	}

	if err := a.backend.Close(); err != nil {
		a.log.Warn("Failed to close backend client", "error", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}

	if a.healthServer != nil {
		return a.healthServer.Stop(ctx)
	}
	return nil
}

// NewSession returns a session on the configured default network.
func (a *App) NewSession() *analysis.Session {
	return analysis.NewSession(a.cfg.Analysis.DefaultNetwork)
}

// Analyze runs one analyze cycle.
func (a *App) Analyze(
	ctx context.Context,
	s *analysis.Session,
	input string,
	demo bool,
) (*analysis.Outcome, error) {
	return a.analyzer.Analyze(ctx, s, input, demo)
}

// PDFURL returns the report document URL for a wallet.
func (a *App) PDFURL(network domain.Network, address string, demo bool) string {
	return a.backend.PDFURL(network, address, demo)
}

// CreatePayment opens a payment for a wallet.
func (a *App) CreatePayment(
	ctx context.Context,
	network domain.Network,
	address string,
	force bool,
) (*domain.PaymentSession, bool, error) {
	return a.payments.Initiate(ctx, network, address, force)
}

// ConfirmPayment polls a payment until it settles.
func (a *App) ConfirmPayment(ctx context.Context, id string) (*payment.Receipt, error) {
	return a.payments.Confirm(ctx, id)
}

// PaymentStatus fetches the current gateway status for a payment.
func (a *App) PaymentStatus(ctx context.Context, id string) (*domain.PaymentSession, error) {
	return a.payments.Status(ctx, id)
}
