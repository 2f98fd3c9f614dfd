package analysis

import (
	"errors"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

// FallbackPolicy decides whether a settled live query should be followed by
// one demo query.
type FallbackPolicy struct {
	Enabled bool
}

// ShouldFallback reports whether the live outcome looks empty enough to
// replace with demo data. A failed live query displays nothing and counts as
// empty. Superseded queries never fall back.
func (p FallbackPolicy) ShouldFallback(live *domain.QueryResult, err error) bool {
	if !p.Enabled {
		return false
	}
	if errors.Is(err, ErrSuperseded) {
		return false
	}
	if err != nil || live == nil {
		return true
	}
	return live.Empty()
}
