package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/metrics"
)

// Backend fetches the two halves of a wallet query.
type Backend interface {
	Risk(ctx context.Context, network domain.Network, address string, demo bool) (*domain.RiskReport, error)
	History(ctx context.Context, network domain.Network, address string, demo bool) ([]domain.TransactionRecord, error)
}

// Orchestrator issues the paired risk and history requests for a wallet.
type Orchestrator struct {
	backend Backend
	logger  *slog.Logger
}

// NewOrchestrator creates an orchestrator. A nil logger uses slog.Default().
func NewOrchestrator(backend Backend, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{backend: backend, logger: logger}
}

// Query fetches risk and history concurrently. It succeeds only when both
// requests succeed; any failure yields a single *QueryError and no partial result.
func (o *Orchestrator) Query(
	ctx context.Context,
	network domain.Network,
	address string,
	demo bool,
) (*domain.QueryResult, error) {
	address = strings.TrimSpace(address)
	mode := domain.ModeFor(demo)

	var (
		report *domain.RiskReport
		txs    []domain.TransactionRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := o.backend.Risk(gctx, network, address, demo)
		if err != nil {
			return fmt.Errorf("risk: %w", err)
		}
		report = r
		return nil
	})
	g.Go(func() error {
		h, err := o.backend.History(gctx, network, address, demo)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		txs = h
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.QueriesTotal.WithLabelValues(string(network), string(mode), "error").Inc()
		o.logger.Warn("Wallet query failed",
			"network", network, "address", address, "mode", mode, "error", err)
		return nil, newQueryError(err)
	}

	if txs == nil {
		txs = []domain.TransactionRecord{}
	}
	risk := *report
	if demo {
		risk.Demo = true
	}

	metrics.QueriesTotal.WithLabelValues(string(network), string(mode), "success").Inc()
	o.logger.Debug("Wallet query done",
		"network", network, "mode", mode, "score", risk.Score, "transactions", len(txs))

	return &domain.QueryResult{
		Network:      network,
		Address:      address,
		Mode:         mode,
		Demo:         demo,
		Risk:         risk,
		Transactions: txs,
	}, nil
}

// Run executes Query against a session. The session's displayed state is
// cleared and marked loading first; the outcome is applied only if no newer
// Run started meanwhile, otherwise ErrSuperseded is returned.
func (o *Orchestrator) Run(
	ctx context.Context,
	s *Session,
	network domain.Network,
	address string,
	demo bool,
) (*domain.QueryResult, error) {
	return o.run(ctx, s, s.begin(), network, address, demo)
}

// runAfter starts a follow-up query only if prev is still the session's
// latest query.
func (o *Orchestrator) runAfter(
	ctx context.Context,
	s *Session,
	prev uint64,
	network domain.Network,
	address string,
	demo bool,
) (*domain.QueryResult, error) {
	seq, ok := s.beginAfter(prev)
	if !ok {
		metrics.QueriesSupersededTotal.Inc()
		return nil, ErrSuperseded
	}
	return o.run(ctx, s, seq, network, address, demo)
}

func (o *Orchestrator) run(
	ctx context.Context,
	s *Session,
	seq uint64,
	network domain.Network,
	address string,
	demo bool,
) (*domain.QueryResult, error) {
	defer s.finish(seq)

	res, err := o.Query(ctx, network, address, demo)
	if !s.apply(seq, res, err) {
		metrics.QueriesSupersededTotal.Inc()
		o.logger.Debug("Discarding superseded query", "seq", seq, "network", network)
		return nil, ErrSuperseded
	}
	return res, err
}
