package control

import (
	"context"

	"github.com/vietddude/blockphantom/internal/analysis"
	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/payment"
)

// RiskAnalyzer runs analyze cycles against a session.
type RiskAnalyzer interface {
	// NewSession returns a session on the configured default network.
	NewSession() *analysis.Session

	// Analyze classifies input and queries it, falling back to demo data
	// when enabled and the live result is empty.
	Analyze(ctx context.Context, s *analysis.Session, input string, demo bool) (*analysis.Outcome, error)

	// PDFURL returns the risk report document location for a wallet.
	PDFURL(network domain.Network, address string, demo bool) string
}

// PaymentDesk drives report payments.
type PaymentDesk interface {
	// CreatePayment opens (or reuses) a payment for a wallet.
	CreatePayment(ctx context.Context, network domain.Network, address string, force bool) (*domain.PaymentSession, bool, error)

	// ConfirmPayment polls a payment until paid or expired.
	ConfirmPayment(ctx context.Context, id string) (*payment.Receipt, error)

	// PaymentStatus fetches the gateway status once.
	PaymentStatus(ctx context.Context, id string) (*domain.PaymentSession, error)
}
