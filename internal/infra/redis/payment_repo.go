package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/infra/storage"
)

// PaymentRepo implements PaymentRepository using Redis.
type PaymentRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPaymentRepo creates a new Redis-backed payment repository.
// Sessions expire after ttl.
func NewPaymentRepo(client *Client, ttl time.Duration) *PaymentRepo {
	return &PaymentRepo{
		rdb: client.rdb,
		ttl: ttl,
	}
}

// Key helpers
func paymentKey(id string) string {
	return fmt.Sprintf("payment:%s", id)
}

func latestKey(network domain.Network, address string) string {
	return fmt.Sprintf("payment_latest:%s:%s", network, address)
}

// Save stores the session and points the wallet's latest key at it.
func (r *PaymentRepo) Save(ctx context.Context, session *domain.PaymentSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal payment session: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, paymentKey(session.ID), data, r.ttl)
	pipe.Set(ctx, latestKey(session.Network, session.Address), session.ID, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save payment session: %w", err)
	}
	return nil
}

// Get retrieves a session by id.
func (r *PaymentRepo) Get(ctx context.Context, id string) (*domain.PaymentSession, error) {
	data, err := r.rdb.Get(ctx, paymentKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment session: %w", err)
	}

	var s domain.PaymentSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment session: %w", err)
	}
	return &s, nil
}

// Latest returns the most recent session for a wallet, or nil.
func (r *PaymentRepo) Latest(
	ctx context.Context,
	network domain.Network,
	address string,
) (*domain.PaymentSession, error) {
	id, err := r.rdb.Get(ctx, latestKey(network, address)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest payment: %w", err)
	}

	s, err := r.Get(ctx, id)
	if errors.Is(err, storage.ErrPaymentNotFound) {
		return nil, nil
	}
	return s, err
}

// UpdateStatus rewrites the stored session with a new status, keeping its TTL.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Status = status
	s.UpdatedAt = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal payment session: %w", err)
	}
	if err := r.rdb.Set(ctx, paymentKey(id), data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return nil
}
