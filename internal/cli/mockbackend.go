package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/blockphantom/internal/mockbackend"
)

var (
	mockPort       int
	mockEmpty      []string
	mockPayBaseURL string
)

var mockBackendCmd = &cobra.Command{
	Use:   "mock-backend",
	Short: "Serve synthetic risk data and a fake payment gateway",
	Args:  cobra.NoArgs,
	Run:   runMockBackend,
}

func init() {
	mockBackendCmd.Flags().IntVar(&mockPort, "port", 0, "listen port (default from mock_backend.port)")
	mockBackendCmd.Flags().StringSliceVar(&mockEmpty, "empty", nil, "addresses that return no live data")
	mockBackendCmd.Flags().StringVar(&mockPayBaseURL, "pay-base-url", "", "base URL used to build pay_url values")
	rootCmd.AddCommand(mockBackendCmd)
}

func runMockBackend(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	port := cfg.MockBackend.Port
	if mockPort != 0 {
		port = mockPort
	}

	router := mockbackend.NewRouter(mockbackend.Options{
		Seed:           cfg.MockBackend.Seed,
		ConfirmAfter:   cfg.MockBackend.Polls(),
		EmptyAddresses: mockEmpty,
		PayBaseURL:     mockPayBaseURL,
		Logger:         slog.Default(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Mock backend listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	slog.Info("Received signal, shutting down...", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}
}
