package mockbackend

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

// Generator produces synthetic risk reports and transactions.
type Generator struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewGenerator creates a generator. A zero seed is replaced by the current time.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{r: rand.New(rand.NewSource(seed))}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.r.Float64()*(hi-lo)
}

// between returns an int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.r.Intn(hi-lo+1)
}

// RiskLevel maps a score onto its level band.
func RiskLevel(score int) string {
	switch {
	case score <= 30:
		return "low"
	case score <= 60:
		return "medium"
	default:
		return "high"
	}
}

// Risk returns a random report whose probability band follows the score.
func (g *Generator) Risk(demo bool) domain.RiskReport {
	g.mu.Lock()
	defer g.mu.Unlock()

	score := g.between(1, 99)

	var probability float64
	switch {
	case score <= 30:
		probability = round(g.uniform(0.01, 0.30), 3)
	case score <= 60:
		probability = round(g.uniform(0.30, 0.60), 3)
	default:
		probability = round(g.uniform(0.60, 0.99), 3)
	}

	return domain.RiskReport{
		Score:       float64(score),
		Probability: probability,
		Level:       RiskLevel(score),
		Demo:        demo,
		Details: domain.RiskDetails{
			Avg:   round(g.uniform(0.01, 5.0), 4),
			Std:   round(g.uniform(0.01, 2.0), 4),
			Count: g.between(1, 50),
		},
	}
}

// Tx is a synthetic history entry.
type Tx struct {
	Hash   string  `json:"hash"`
	Amount float64 `json:"amount"`
}

// Transactions returns n random transactions.
func (g *Generator) Transactions(n int) []Tx {
	g.mu.Lock()
	defer g.mu.Unlock()

	txs := make([]Tx, n)
	for i := range txs {
		txs[i] = Tx{
			Hash:   fmt.Sprintf("tx_%d", g.between(10000, 99999)),
			Amount: round(g.uniform(0.1, 3.0), 4),
		}
	}
	return txs
}

// HistorySize picks a history length between 3 and 12.
func (g *Generator) HistorySize() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.between(3, 12)
}
