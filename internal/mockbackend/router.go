// Package mockbackend serves synthetic wallet risk data and a fake payment
// gateway over the same HTTP surface as the real backend.
package mockbackend

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Options configures the mock backend.
type Options struct {
	// Seed for the data generator, 0 = time seeded.
	Seed int64
	// ConfirmAfter is the number of status polls a payment stays pending.
	ConfirmAfter int
	// EmptyAddresses return no history and a zero score in live mode.
	EmptyAddresses []string
	// PayBaseURL, when set, is used to build pay_url values.
	PayBaseURL string
	Logger     *slog.Logger
}

// Router wraps the Gin router with handlers
type Router struct {
	engine  *gin.Engine
	handler *Handler
	logger  *slog.Logger
}

// NewRouter creates a new Router with all handlers
func NewRouter(opts Options) *Router {
	gin.SetMode(gin.ReleaseMode)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	empty := make(map[string]bool, len(opts.EmptyAddresses))
	for _, a := range opts.EmptyAddresses {
		empty[a] = true
	}

	r := &Router{
		engine: gin.New(),
		handler: &Handler{
			gen:     NewGenerator(opts.Seed),
			book:    newPaymentBook(opts.ConfirmAfter),
			empty:   empty,
			payBase: opts.PayBaseURL,
		},
		logger: logger,
	}
	r.engine.UseRawPath = true

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// setupMiddleware configures middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(Recovery(r.logger))
	r.engine.Use(Logger(r.logger))
	r.engine.Use(CORS())
}

// setupRoutes configures API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	wallet := r.engine.Group("/wallet/:chain")
	wallet.Use(ValidateChain())
	{
		wallet.GET("/:address/risk", r.handler.Risk)
		wallet.GET("/:address/history", r.handler.History)
		wallet.GET("/:address/pdf", r.handler.PDF)
	}

	masumi := r.engine.Group("/masumi")
	{
		masumi.POST("/create-payment", r.handler.CreatePayment)
		masumi.GET("/payment-status/:id", r.handler.PaymentStatus)
	}

	r.engine.GET("/report", r.handler.Report)
}

// Handler returns the router as an http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}
