package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/infra/storage"
)

type MemoryStorage struct {
	payments map[string]*domain.PaymentSession
	latest   map[string]string
	mu       sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		payments: make(map[string]*domain.PaymentSession),
		latest:   make(map[string]string),
	}
}

// -----------------------------------------------------------------------------
// Payment Repository
// -----------------------------------------------------------------------------

type PaymentRepo struct {
	store *MemoryStorage
}

func NewPaymentRepo(store *MemoryStorage) *PaymentRepo {
	return &PaymentRepo{store: store}
}

func walletKey(network domain.Network, address string) string {
	return string(network) + ":" + address
}

func (r *PaymentRepo) Save(ctx context.Context, session *domain.PaymentSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *session
	r.store.payments[session.ID] = &cp
	r.store.latest[walletKey(session.Network, session.Address)] = session.ID
	return nil
}

func (r *PaymentRepo) Get(ctx context.Context, id string) (*domain.PaymentSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.payments[id]
	if !ok {
		return nil, storage.ErrPaymentNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *PaymentRepo) Latest(
	ctx context.Context,
	network domain.Network,
	address string,
) (*domain.PaymentSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.latest[walletKey(network, address)]
	if !ok {
		return nil, nil
	}
	s, ok := r.store.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *PaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.payments[id]
	if !ok {
		return storage.ErrPaymentNotFound
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	return nil
}

// DeleteOlderThan removes sessions last updated before threshold.
func (r *PaymentRepo) DeleteOlderThan(ctx context.Context, threshold time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deleted := 0
	for id, s := range r.store.payments {
		if !s.UpdatedAt.Before(threshold) {
			continue
		}
		delete(r.store.payments, id)
		key := walletKey(s.Network, s.Address)
		if r.store.latest[key] == id {
			delete(r.store.latest, key)
		}
		deleted++
	}
	return deleted, nil
}
