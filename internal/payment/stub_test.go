package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

// =============================================================================
// Mocks
// =============================================================================

// fakeClock advances its own time whenever the poller waits.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	t := c.now
	c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- t
	return ch
}

type statusStep struct {
	status domain.PaymentStatus
	err    error
}

// stubGateway replays a status sequence; the last step repeats forever.
type stubGateway struct {
	mu        sync.Mutex
	steps     []statusStep
	calls     int
	callTimes []time.Time
	clock     *fakeClock

	created   []domain.PaymentRequest
	createErr error
	nextID    int
}

func (g *stubGateway) PaymentStatus(ctx context.Context, id string) (domain.PaymentStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.clock != nil {
		g.callTimes = append(g.callTimes, g.clock.Now())
	}
	i := g.calls
	g.calls++
	if len(g.steps) == 0 {
		return domain.PaymentPending, nil
	}
	if i >= len(g.steps) {
		i = len(g.steps) - 1
	}
	return g.steps[i].status, g.steps[i].err
}

func (g *stubGateway) CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, req)
	g.nextID++
	return &domain.PaymentSession{
		ID:      "pay-" + string(rune('0'+g.nextID)),
		Status:  domain.PaymentPending,
		PayURL:  "https://pay.example/checkout",
		Network: req.Network,
		Address: req.Address,
	}, nil
}

func (g *stubGateway) ReportURL(network domain.Network, address string) string {
	return "http://api.local/report?chain=" + string(network) + "&address=" + address
}

func pending() statusStep { return statusStep{status: domain.PaymentPending} }
func paid() statusStep    { return statusStep{status: domain.PaymentPaid} }
func failing() statusStep { return statusStep{err: errors.New("gateway unreachable")} }
