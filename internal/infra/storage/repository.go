package storage

import (
	"context"
	"errors"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

var (
	// ErrPaymentNotFound is returned when a payment session doesn't exist
	ErrPaymentNotFound = errors.New("payment session not found")
)

// PaymentRepository handles payment session storage operations
type PaymentRepository interface {
	// Save inserts or replaces a session
	Save(ctx context.Context, session *domain.PaymentSession) error

	// Get retrieves a session by id
	Get(ctx context.Context, id string) (*domain.PaymentSession, error)

	// Latest retrieves the most recently saved session for a wallet, or nil
	Latest(ctx context.Context, network domain.Network, address string) (*domain.PaymentSession, error)

	// UpdateStatus records a freshly fetched status
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error
}
