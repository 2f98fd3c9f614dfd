package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/metrics"
)

// State is a step of the payment lifecycle.
type State int

const (
	StateCreated State = iota
	StatePolling
	StatePaid
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StatePolling:
		return "polling"
	case StatePaid:
		return "paid"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// StatusFetcher reads the gateway status of a payment.
type StatusFetcher interface {
	PaymentStatus(ctx context.Context, id string) (domain.PaymentStatus, error)
}

// PollerConfig bounds the polling loop.
type PollerConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	// MaxConsecutiveErrors ends polling early after this many failed fetches
	// in a row. 0 means failed fetches are only ever skipped.
	MaxConsecutiveErrors int
}

// DefaultPollerConfig polls every 3 seconds for up to 2 minutes.
var DefaultPollerConfig = PollerConfig{
	Interval:             3 * time.Second,
	Timeout:              2 * time.Minute,
	MaxConsecutiveErrors: 5,
}

// PollResult is the terminal outcome of a polling loop.
type PollResult struct {
	State    State
	Status   domain.PaymentStatus
	Attempts int
	Fetches  int // attempts that returned a status
	Elapsed  time.Duration
}

// Poller waits for a payment to be confirmed.
type Poller struct {
	fetcher StatusFetcher
	cfg     PollerConfig
	clock   Clock
	logger  *slog.Logger
}

// NewPoller creates a poller. A nil clock uses the real clock and a nil
// logger uses slog.Default().
func NewPoller(fetcher StatusFetcher, cfg PollerConfig, clock Clock, logger *slog.Logger) *Poller {
	if clock == nil {
		clock = RealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{fetcher: fetcher, cfg: cfg, clock: clock, logger: logger}
}

// Poll waits one interval, fetches the status, and repeats while the payment
// is not paid and the ceiling has not been reached. A failed fetch is a
// skipped tick. The session's status is updated with every fetched value.
//
// Reaching the ceiling, MaxConsecutiveErrors failures in a row, or a gateway
// status of expired ends in StateExpired with a *PollTimeoutError.
func (p *Poller) Poll(ctx context.Context, session *domain.PaymentSession) (*PollResult, error) {
	log := p.logger.With("payment_id", session.ID)
	start := p.clock.Now()
	status := session.Status

	var (
		attempts    int
		fetches     int
		consecutive int
		lastErr     error
	)

	log.Info("Polling payment status", "interval", p.cfg.Interval, "timeout", p.cfg.Timeout)

	for status != domain.PaymentPaid && p.clock.Now().Sub(start) < p.cfg.Timeout {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.clock.After(p.cfg.Interval):
		}

		attempts++
		st, err := p.fetcher.PaymentStatus(ctx, session.ID)
		if err != nil {
			consecutive++
			lastErr = err
			log.Warn("Payment status fetch failed, skipping tick",
				"attempt", attempts, "consecutive", consecutive, "error", err)
			if p.cfg.MaxConsecutiveErrors > 0 && consecutive >= p.cfg.MaxConsecutiveErrors {
				break
			}
			continue
		}

		fetches++
		consecutive = 0
		lastErr = nil
		status = st
		session.Status = st
		session.UpdatedAt = p.clock.Now()
		log.Debug("Payment status", "attempt", attempts, "status", st)

		if st == domain.PaymentExpired {
			break
		}
	}

	result := &PollResult{
		Status:   status,
		Attempts: attempts,
		Fetches:  fetches,
		Elapsed:  p.clock.Now().Sub(start),
	}

	if status == domain.PaymentPaid {
		result.State = StatePaid
		metrics.PaymentPollsTotal.WithLabelValues(StatePaid.String()).Inc()
		log.Info("Payment confirmed", "attempts", attempts, "elapsed", result.Elapsed)
		return result, nil
	}

	result.State = StateExpired
	metrics.PaymentPollsTotal.WithLabelValues(StateExpired.String()).Inc()
	log.Warn("Payment not confirmed", "attempts", attempts, "elapsed", result.Elapsed, "status", status)
	return result, &PollTimeoutError{
		Elapsed:    result.Elapsed,
		Attempts:   attempts,
		LastStatus: status,
		LastErr:    lastErr,
	}
}
