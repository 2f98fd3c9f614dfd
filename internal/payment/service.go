package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/infra/storage"
)

// Gateway creates payments, reports their status and locates the paid report.
type Gateway interface {
	StatusFetcher
	CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error)
	ReportURL(network domain.Network, address string) string
}

// Config holds the price of a report and the polling bounds.
type Config struct {
	Currency string
	Amount   int64
	Poller   PollerConfig
}

// Receipt is the outcome of a confirmation attempt.
type Receipt struct {
	Session   *domain.PaymentSession
	Result    *PollResult
	ReportURL string // set only when paid
}

// Service drives payment sessions from creation to report access.
type Service struct {
	gateway Gateway
	repo    storage.PaymentRepository
	poller  *Poller
	cfg     Config
	logger  *slog.Logger
}

// NewService creates a payment service. A nil clock uses the real clock.
func NewService(
	gateway Gateway,
	repo storage.PaymentRepository,
	cfg Config,
	clock Clock,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gateway: gateway,
		repo:    repo,
		poller:  NewPoller(gateway, cfg.Poller, clock, logger),
		cfg:     cfg,
		logger:  logger,
	}
}

// Initiate opens a payment for a wallet. A pending session already stored
// for the same wallet is returned as is (reused = true) unless force is set.
func (s *Service) Initiate(
	ctx context.Context,
	network domain.Network,
	address string,
	force bool,
) (session *domain.PaymentSession, reused bool, err error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, false, ErrEmptyAddress
	}

	if !force {
		existing, err := s.repo.Latest(ctx, network, address)
		if err != nil {
			return nil, false, fmt.Errorf("lookup existing payment: %w", err)
		}
		if existing != nil && existing.Status == domain.PaymentPending {
			s.logger.Info("Reusing pending payment", "payment_id", existing.ID, "network", network)
			return existing, true, nil
		}
	}

	session, err = s.gateway.CreatePayment(ctx, domain.PaymentRequest{
		Network:  network,
		Address:  address,
		Currency: s.cfg.Currency,
		Amount:   s.cfg.Amount,
	})
	if err != nil {
		s.logger.Error("Payment init failed", "network", network, "error", err)
		return nil, false, &InitError{cause: err}
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return nil, false, fmt.Errorf("save payment: %w", err)
	}

	s.logger.Info("Payment created",
		"payment_id", session.ID, "network", network, "pay_url", session.PayURL)
	return session, false, nil
}

// Get returns a stored session.
func (s *Service) Get(ctx context.Context, id string) (*domain.PaymentSession, error) {
	session, err := s.repo.Get(ctx, id)
	if errors.Is(err, storage.ErrPaymentNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load payment: %w", err)
	}
	return session, nil
}

// Confirm polls a stored session until it is paid or the ceiling is reached.
// The last fetched status is persisted either way; when no fetch succeeded
// the stored session is left untouched. When paid, the receipt
// carries the report URL.
func (s *Service) Confirm(ctx context.Context, id string) (*Receipt, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result, pollErr := s.poller.Poll(ctx, session)
	if result == nil {
		return nil, pollErr
	}

	if result.Fetches > 0 {
		if err := s.repo.UpdateStatus(ctx, session.ID, session.Status); err != nil {
			s.logger.Warn("Failed to persist payment status", "payment_id", session.ID, "error", err)
		}
	}

	receipt := &Receipt{Session: session, Result: result}
	if result.State == StatePaid {
		receipt.ReportURL = s.gateway.ReportURL(session.Network, session.Address)
	}
	return receipt, pollErr
}

// Status fetches the gateway status once and stores it.
func (s *Service) Status(ctx context.Context, id string) (*domain.PaymentSession, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := s.gateway.PaymentStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch payment status: %w", err)
	}
	session.Status = status

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("save payment status: %w", err)
	}
	return session, nil
}
