package analysis

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/metrics"
)

// Outcome describes a finished analyze cycle.
type Outcome struct {
	CycleID  string
	Result   *domain.QueryResult
	FellBack bool
}

// Analyzer runs one user-initiated analyze action: classify, live query,
// and at most one demo fallback.
type Analyzer struct {
	orch   *Orchestrator
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger uses slog.Default().
func NewAnalyzer(orch *Orchestrator, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{orch: orch, logger: logger}
}

// Analyze classifies input against the session's network and queries it.
// The fallback decision is taken only after the live query settled.
//
// An empty input with demo enabled queries the network's sample address in
// demo mode directly.
func (a *Analyzer) Analyze(ctx context.Context, s *Session, input string, demoEnabled bool) (*Outcome, error) {
	cycle := uuid.NewString()
	log := a.logger.With("cycle", cycle)

	address := strings.TrimSpace(input)
	network := s.Network()

	if address == "" {
		if !demoEnabled {
			return nil, ErrEmptyAddress
		}
		address = domain.SampleAddresses[network]
		s.SetAddress(address)
		log.Info("No address given, using sample", "network", network, "address", address)

		res, err := a.orch.Run(ctx, s, network, address, true)
		if err != nil {
			return nil, err
		}
		return &Outcome{CycleID: cycle, Result: res}, nil
	}

	if detected := domain.Classify(address, network); detected != network {
		log.Info("Network detected from address", "from", network, "to", detected)
		network = detected
	}
	s.SetNetwork(network)
	s.SetAddress(address)

	seq := s.begin()
	live, err := a.orch.run(ctx, s, seq, network, address, false)

	policy := FallbackPolicy{Enabled: demoEnabled}
	if !policy.ShouldFallback(live, err) {
		if err != nil {
			return nil, err
		}
		return &Outcome{CycleID: cycle, Result: live}, nil
	}

	metrics.DemoFallbacksTotal.WithLabelValues(string(network)).Inc()
	log.Info("Live result empty, falling back to demo data", "network", network, "live_error", err)

	demo, err := a.orch.runAfter(ctx, s, seq, network, address, true)
	if err != nil {
		return nil, err
	}
	return &Outcome{CycleID: cycle, Result: demo, FellBack: true}, nil
}
