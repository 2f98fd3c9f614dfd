package domain

import "time"

// PaymentStatus is the gateway-reported state of a payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentExpired PaymentStatus = "expired"
	PaymentUnknown PaymentStatus = "unknown"
)

// ParsePaymentStatus maps a gateway string onto a known status.
func ParsePaymentStatus(s string) PaymentStatus {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentExpired:
		return PaymentStatus(s)
	default:
		return PaymentUnknown
	}
}

// PaymentRequest is the body sent to the gateway to open a payment.
type PaymentRequest struct {
	Network  Network `json:"network"`
	Address  string  `json:"address"`
	Currency string  `json:"currency"`
	Amount   int64   `json:"amount"`
}

// PaymentSession tracks one payment through its lifecycle.
// Status only changes by re-fetching it from the gateway.
type PaymentSession struct {
	ID        string        `json:"id"`
	Status    PaymentStatus `json:"status"`
	PayURL    string        `json:"pay_url,omitempty"`
	Network   Network       `json:"network"`
	Address   string        `json:"address"`
	Currency  string        `json:"currency"`
	Amount    int64         `json:"amount"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
