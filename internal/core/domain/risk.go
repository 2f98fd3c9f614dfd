package domain

import "encoding/json"

// RiskDetails holds the statistics behind a risk score.
type RiskDetails struct {
	Avg   float64 `json:"avg"`
	Std   float64 `json:"std"`
	Count int     `json:"count"`
}

// RiskReport is the scoring result for one wallet as returned by the backend.
type RiskReport struct {
	Score       float64     `json:"score"`
	Probability float64     `json:"probability"`
	Level       string      `json:"level"`
	Demo        bool        `json:"demo"`
	Details     RiskDetails `json:"details"`
}

// TransactionRecord is an opaque history entry. It is kept verbatim for display.
type TransactionRecord = json.RawMessage

// QueryMode tells whether a result came from live lookups or demo data.
type QueryMode string

const (
	ModeLive QueryMode = "live"
	ModeDemo QueryMode = "demo"
)

// ModeFor returns the mode matching a demo flag.
func ModeFor(demo bool) QueryMode {
	if demo {
		return ModeDemo
	}
	return ModeLive
}

// QueryResult pairs a risk report with the wallet's transaction history.
// A new result replaces the previous one wholesale.
type QueryResult struct {
	Network      Network             `json:"network"`
	Address      string              `json:"address"`
	Mode         QueryMode           `json:"mode"`
	Demo         bool                `json:"demo"`
	Risk         RiskReport          `json:"risk"`
	Transactions []TransactionRecord `json:"transactions"`
}

// Empty reports whether the result looks uninformative: no history or a zero score.
func (r *QueryResult) Empty() bool {
	return len(r.Transactions) == 0 || r.Risk.Score == 0
}
