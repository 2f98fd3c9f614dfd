package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/payment"
)

var forceFlag bool

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Buy and unlock the full wallet report",
	Long: `Pay opens a payment with the gateway and waits for it to be confirmed.
Payments are kept between commands only with the redis storage driver;
with the memory driver use the console instead.`,
}

var payCreateCmd = &cobra.Command{
	Use:   "create <address>",
	Short: "Open a payment for a wallet report",
	Args:  cobra.ExactArgs(1),
	Run:   runPayCreate,
}

var payConfirmCmd = &cobra.Command{
	Use:   "confirm <payment_id>",
	Short: "Wait until a payment is paid, then print the report URL",
	Args:  cobra.ExactArgs(1),
	Run:   runPayConfirm,
}

var payStatusCmd = &cobra.Command{
	Use:   "status <payment_id>",
	Short: "Fetch the current status of a payment once",
	Args:  cobra.ExactArgs(1),
	Run:   runPayStatus,
}

func init() {
	payCreateCmd.Flags().StringVar(&networkFlag, "network", "", "network when the address has no known prefix (ethereum, cardano)")
	payCreateCmd.Flags().BoolVar(&forceFlag, "force", false, "always open a new payment")

	payCmd.AddCommand(payCreateCmd, payConfirmCmd, payStatusCmd)
	rootCmd.AddCommand(payCmd)
}

func runPayCreate(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	app, stop := startApp(cfg)
	defer stop()

	network := domain.Classify(args[0], selectedNetwork(cfg))
	session, reused, err := app.CreatePayment(context.Background(), network, args[0], forceFlag)
	if err != nil {
		slog.Error("Failed to create payment", "error", err)
		stop()
		os.Exit(1)
	}
	printSession(cmd.OutOrStdout(), session, reused)
}

func runPayConfirm(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	app, stop := startApp(cfg)
	defer stop()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	receipt, err := app.ConfirmPayment(ctx, args[0])
	if receipt != nil {
		printReceipt(cmd.OutOrStdout(), receipt)
	}
	if err != nil {
		if errors.Is(err, payment.ErrPollTimeout) {
			slog.Warn("Payment not confirmed yet, try again later", "payment_id", args[0])
		} else {
			slog.Error("Failed to confirm payment", "error", err)
		}
		stop()
		os.Exit(1)
	}
}

func runPayStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	app, stop := startApp(cfg)
	defer stop()

	session, err := app.PaymentStatus(context.Background(), args[0])
	if err != nil {
		slog.Error("Failed to fetch payment status", "error", err)
		stop()
		os.Exit(1)
	}
	printSession(cmd.OutOrStdout(), session, false)
}
