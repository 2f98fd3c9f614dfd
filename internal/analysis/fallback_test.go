package analysis

import (
	"errors"
	"testing"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

func TestFallbackPolicy_ShouldFallback(t *testing.T) {
	full := &domain.QueryResult{Risk: domain.RiskReport{Score: 12}, Transactions: records(3)}
	noTxs := &domain.QueryResult{Risk: domain.RiskReport{Score: 12}, Transactions: records(0)}
	zeroScore := &domain.QueryResult{Risk: domain.RiskReport{Score: 0}, Transactions: records(3)}

	tests := []struct {
		name    string
		enabled bool
		live    *domain.QueryResult
		err     error
		want    bool
	}{
		{"disabled with empty history", false, noTxs, nil, false},
		{"disabled with zero score", false, zeroScore, nil, false},
		{"disabled with failure", false, nil, &QueryError{}, false},
		{"enabled with full result", true, full, nil, false},
		{"enabled with empty history", true, noTxs, nil, true},
		{"enabled with zero score", true, zeroScore, nil, true},
		{"enabled with failure", true, nil, &QueryError{}, true},
		{"enabled but superseded", true, nil, ErrSuperseded, false},
		{"enabled with wrapped superseded", true, nil, errors.Join(errors.New("x"), ErrSuperseded), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FallbackPolicy{Enabled: tt.enabled}
			if got := p.ShouldFallback(tt.live, tt.err); got != tt.want {
				t.Errorf("ShouldFallback() = %v, want %v", got, tt.want)
			}
		})
	}
}
