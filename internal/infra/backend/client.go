// Package backend implements the HTTP client for the risk backend and the
// payment gateway endpoints it fronts.
//
// Every call carries its own deadline. A call that runs past it fails with an
// error matching ErrTimeout.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/metrics"
)

var (
	// ErrTimeout is returned when a call exceeds its deadline.
	ErrTimeout = errors.New("backend call timed out")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// Endpoint names used for metrics labels.
const (
	EndpointRisk          = "risk"
	EndpointHistory       = "history"
	EndpointCreatePayment = "create_payment"
	EndpointPaymentStatus = "payment_status"
)

// HealthStatus summarises recent backend behaviour.
type HealthStatus struct {
	Available     bool          `json:"available"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
}

// Client talks to the backend over HTTP/JSON.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client

	mu           sync.RWMutex
	health       HealthStatus
	totalLatency time.Duration
	successCount int
	failureCount int
	requestCount int
}

// NewClient creates a backend client. timeout bounds every single call.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		health: HealthStatus{
			Available:     true,
			LastSuccessAt: time.Now(),
		},
	}
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// componentUnescape restores the characters QueryEscape encodes but URI
// component encoding leaves as is.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeAddress trims and percent-encodes an address for use as a path
// segment. Every byte outside A-Z a-z 0-9 - _ . ! ~ * ' ( ) is escaped.
func EncodeAddress(address string) string {
	return componentUnescape.Replace(url.QueryEscape(strings.TrimSpace(address)))
}

func (c *Client) walletURL(network domain.Network, address, resource string, demo bool) string {
	u := fmt.Sprintf("%s/wallet/%s/%s/%s", c.baseURL, network, EncodeAddress(address), resource)
	if demo {
		u += "?demo=true"
	}
	return u
}

// Risk fetches the risk report for a wallet.
func (c *Client) Risk(
	ctx context.Context,
	network domain.Network,
	address string,
	demo bool,
) (*domain.RiskReport, error) {
	var report domain.RiskReport
	if err := c.do(ctx, EndpointRisk, http.MethodGet, c.walletURL(network, address, "risk", demo), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// History fetches the transaction history for a wallet. A missing
// transactions field yields an empty slice.
func (c *Client) History(
	ctx context.Context,
	network domain.Network,
	address string,
	demo bool,
) ([]domain.TransactionRecord, error) {
	var resp struct {
		Transactions []domain.TransactionRecord `json:"transactions"`
	}
	if err := c.do(ctx, EndpointHistory, http.MethodGet, c.walletURL(network, address, "history", demo), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Transactions == nil {
		resp.Transactions = []domain.TransactionRecord{}
	}
	return resp.Transactions, nil
}

// CreatePayment asks the gateway to open a payment.
func (c *Client) CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	var resp struct {
		ID     string `json:"id"`
		PayURL string `json:"pay_url"`
	}
	if err := c.do(ctx, EndpointCreatePayment, http.MethodPost, c.baseURL+"/masumi/create-payment", req, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("create payment: response carries no id")
	}

	now := time.Now()
	return &domain.PaymentSession{
		ID:        resp.ID,
		Status:    domain.PaymentPending,
		PayURL:    resp.PayURL,
		Network:   req.Network,
		Address:   req.Address,
		Currency:  req.Currency,
		Amount:    req.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// PaymentStatus fetches the current status of a payment.
func (c *Client) PaymentStatus(ctx context.Context, id string) (domain.PaymentStatus, error) {
	var resp struct {
		Status string `json:"status"`
	}
	u := c.baseURL + "/masumi/payment-status/" + url.PathEscape(id)
	if err := c.do(ctx, EndpointPaymentStatus, http.MethodGet, u, nil, &resp); err != nil {
		return domain.PaymentUnknown, err
	}
	return domain.ParsePaymentStatus(resp.Status), nil
}

// PDFURL builds the report download URL for a wallet. It is opened, not fetched.
func (c *Client) PDFURL(network domain.Network, address string, demo bool) string {
	return c.walletURL(network, address, "pdf", demo)
}

// ReportURL builds the paid report URL for a wallet.
func (c *Client) ReportURL(network domain.Network, address string) string {
	q := url.Values{}
	q.Set("chain", string(network))
	q.Set("address", strings.TrimSpace(address))
	return c.baseURL + "/report?" + q.Encode()
}

// Health returns the client's health status.
func (c *Client) Health() HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health
}

// Close cleans up resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, method, u string, body, out any) error {
	start := time.Now()
	metrics.BackendCallsTotal.WithLabelValues(endpoint).Inc()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.fail(endpoint, "marshal")
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		c.fail(endpoint, "request")
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			c.fail(endpoint, "timeout")
			return fmt.Errorf("%s %s: %w", method, endpoint, ErrTimeout)
		}
		c.fail(endpoint, "transport")
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			c.fail(endpoint, "timeout")
			return fmt.Errorf("read %s: %w", endpoint, ErrTimeout)
		}
		c.fail(endpoint, "read")
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.fail(endpoint, "status")
		return &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			c.fail(endpoint, "decode")
			return fmt.Errorf("parse %s response: %w", endpoint, err)
		}
	}

	latency := time.Since(start)
	metrics.BackendLatency.WithLabelValues(endpoint).Observe(latency.Seconds())
	c.recordSuccess(latency)
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) fail(endpoint, errorType string) {
	metrics.BackendErrorsTotal.WithLabelValues(endpoint, errorType).Inc()
	c.recordFailure()
}

func (c *Client) recordSuccess(latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.successCount++
	c.requestCount++
	c.totalLatency += latency
	c.health.LastSuccessAt = time.Now()
	c.health.Available = true

	if c.requestCount > 0 {
		c.health.ErrorRate = float64(c.failureCount) / float64(c.requestCount)
	}
	if c.successCount > 0 {
		c.health.Latency = c.totalLatency / time.Duration(c.successCount)
	}
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failureCount++
	c.requestCount++
	c.health.LastFailureAt = time.Now()

	if c.requestCount > 0 {
		c.health.ErrorRate = float64(c.failureCount) / float64(c.requestCount)
	}

	if c.health.ErrorRate > 0.5 {
		c.health.Available = false
	}
}
