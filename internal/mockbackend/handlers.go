package mockbackend

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

type payment struct {
	network domain.Network
	address string
	polls   int
	created time.Time
}

// paymentBook holds the mock gateway's payments.
type paymentBook struct {
	mu           sync.Mutex
	payments     map[string]*payment
	confirmAfter int
}

func newPaymentBook(confirmAfter int) *paymentBook {
	return &paymentBook{
		payments:     make(map[string]*payment),
		confirmAfter: confirmAfter,
	}
}

func (b *paymentBook) status(p *payment) domain.PaymentStatus {
	if p.polls > b.confirmAfter {
		return domain.PaymentPaid
	}
	return domain.PaymentPending
}

// Handler serves the wallet and payment endpoints.
type Handler struct {
	gen     *Generator
	book    *paymentBook
	empty   map[string]bool
	payBase string
}

func demoRequested(c *gin.Context) bool {
	return strings.EqualFold(c.Query("demo"), "true")
}

// Risk returns a risk report
// GET /wallet/:chain/:address/risk
func (h *Handler) Risk(c *gin.Context) {
	demo := demoRequested(c)
	report := h.gen.Risk(demo)
	if !demo && h.empty[c.Param("address")] {
		report.Score = 0
		report.Details.Count = 0
	}
	c.JSON(http.StatusOK, report)
}

// History returns the transaction history
// GET /wallet/:chain/:address/history
func (h *Handler) History(c *gin.Context) {
	if !demoRequested(c) && h.empty[c.Param("address")] {
		c.JSON(http.StatusOK, gin.H{"transactions": []Tx{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": h.gen.Transactions(h.gen.HistorySize())})
}

// PDF returns a plain-text stand-in for the risk report document
// GET /wallet/:chain/:address/pdf
func (h *Handler) PDF(c *gin.Context) {
	chain := c.Param("chain")
	address := c.Param("address")
	report := h.gen.Risk(demoRequested(c))

	var b strings.Builder
	fmt.Fprintf(&b, "BlockPhantom Risk Report\n\n")
	fmt.Fprintf(&b, "Chain: %s\nAddress: %s\n", chain, address)
	fmt.Fprintf(&b, "Risk Score: %.0f\nProbability: %.3f\nLevel: %s\nTx Count: %d\n",
		report.Score, report.Probability, report.Level, report.Details.Count)

	c.Header("Content-Disposition", `attachment; filename="risk_report.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}

type createPaymentRequest struct {
	Network  domain.Network `json:"network"  binding:"required"`
	Address  string         `json:"address"  binding:"required"`
	Currency string         `json:"currency" binding:"required"`
	Amount   int64          `json:"amount"   binding:"required,gt=0"`
}

// CreatePayment opens a payment
// POST /masumi/create-payment
func (h *Handler) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Network.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported network"})
		return
	}

	id := uuid.NewString()
	h.book.mu.Lock()
	h.book.payments[id] = &payment{
		network: req.Network,
		address: strings.TrimSpace(req.Address),
		created: time.Now(),
	}
	h.book.mu.Unlock()

	resp := gin.H{"id": id}
	if h.payBase != "" {
		resp["pay_url"] = h.payBase + "/" + id
	}
	c.JSON(http.StatusOK, resp)
}

// PaymentStatus reports a payment's status; it reads paid after enough polls
// GET /masumi/payment-status/:id
func (h *Handler) PaymentStatus(c *gin.Context) {
	h.book.mu.Lock()
	defer h.book.mu.Unlock()

	p, ok := h.book.payments[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	p.polls++
	c.JSON(http.StatusOK, gin.H{"status": h.book.status(p)})
}

// Report serves the paid report
// GET /report?chain=&address=
func (h *Handler) Report(c *gin.Context) {
	chain := domain.Network(c.Query("chain"))
	address := c.Query("address")

	h.book.mu.Lock()
	paid := false
	for _, p := range h.book.payments {
		if p.network == chain && p.address == address && h.book.status(p) == domain.PaymentPaid {
			paid = true
			break
		}
	}
	h.book.mu.Unlock()

	if !paid {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "No confirmed payment for this wallet"})
		return
	}

	report := h.gen.Risk(false)
	c.Header("Content-Disposition", `attachment; filename="risk_report.txt"`)
	c.String(http.StatusOK, "BlockPhantom Paid Report\n\nChain: %s\nAddress: %s\nRisk Score: %.0f\nLevel: %s\n",
		chain, address, report.Score, report.Level)
}
