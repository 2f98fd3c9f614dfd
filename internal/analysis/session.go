package analysis

import (
	"sync"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

// Session is the orchestration context shared by one user's actions.
//
// Write access:
//   - network, address: the Analyzer, or an explicit user selection via SetNetwork/SetAddress
//   - seq, loading, result, err: the Orchestrator only
type Session struct {
	mu      sync.RWMutex
	network domain.Network
	address string
	seq     uint64
	loading bool
	result  *domain.QueryResult
	err     error
}

// Snapshot is a consistent read of a Session.
type Snapshot struct {
	Network domain.Network
	Address string
	Seq     uint64
	Loading bool
	Result  *domain.QueryResult
	Err     error
}

// NewSession creates a session with the given selected network.
func NewSession(network domain.Network) *Session {
	return &Session{network: network}
}

func (s *Session) Network() domain.Network {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network
}

func (s *Session) SetNetwork(n domain.Network) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = n
}

func (s *Session) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}

func (s *Session) SetAddress(a string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = a
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Result returns the displayed result, or nil.
func (s *Session) Result() *domain.QueryResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Err returns the displayed error, or nil.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Network: s.network,
		Address: s.address,
		Seq:     s.seq,
		Loading: s.loading,
		Result:  s.result,
		Err:     s.err,
	}
}

// begin issues the next sequence number, clears the displayed state and
// raises the loading flag.
func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.result = nil
	s.err = nil
	s.loading = true
	return s.seq
}

// beginAfter behaves like begin but only when prev is still the latest
// query, so a follow-up never overtakes a newer user action.
func (s *Session) beginAfter(prev uint64) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev != s.seq {
		return 0, false
	}
	s.seq++
	s.result = nil
	s.err = nil
	s.loading = true
	return s.seq, true
}

// apply stores the outcome of query seq if it is still the latest one.
func (s *Session) apply(seq uint64, res *domain.QueryResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.result = res
	s.err = err
	return true
}

// finish drops the loading flag unless a newer query is still in flight.
func (s *Session) finish(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.seq {
		s.loading = false
	}
}
