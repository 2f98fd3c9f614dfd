package analysis

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

// =============================================================================
// Mocks
// =============================================================================

type call struct {
	kind    string
	network domain.Network
	address string
	demo    bool
}

type stubBackend struct {
	mu    sync.Mutex
	calls []call

	risk    func(ctx context.Context, network domain.Network, address string, demo bool) (*domain.RiskReport, error)
	history func(ctx context.Context, network domain.Network, address string, demo bool) ([]domain.TransactionRecord, error)
}

func (b *stubBackend) record(kind string, network domain.Network, address string, demo bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call{kind: kind, network: network, address: address, demo: demo})
}

func (b *stubBackend) Risk(ctx context.Context, network domain.Network, address string, demo bool) (*domain.RiskReport, error) {
	b.record("risk", network, address, demo)
	if b.risk == nil {
		return &domain.RiskReport{Score: 10, Level: "low", Demo: demo}, nil
	}
	return b.risk(ctx, network, address, demo)
}

func (b *stubBackend) History(ctx context.Context, network domain.Network, address string, demo bool) ([]domain.TransactionRecord, error) {
	b.record("history", network, address, demo)
	if b.history == nil {
		return records(2), nil
	}
	return b.history(ctx, network, address, demo)
}

func (b *stubBackend) riskCalls(demo bool) []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []call
	for _, c := range b.calls {
		if c.kind == "risk" && c.demo == demo {
			out = append(out, c)
		}
	}
	return out
}

func records(n int) []domain.TransactionRecord {
	out := make([]domain.TransactionRecord, n)
	for i := range out {
		raw, _ := json.Marshal(map[string]any{"hash": i})
		out[i] = raw
	}
	return out
}
