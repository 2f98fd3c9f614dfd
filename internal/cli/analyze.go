package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietddude/blockphantom/internal/analysis"
	"github.com/vietddude/blockphantom/internal/core/config"
	"github.com/vietddude/blockphantom/internal/core/domain"
)

var (
	networkFlag string
	demoFlag    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [address]",
	Short: "Show the risk score and recent transactions of a wallet",
	Long: `Analyze queries risk and history for a wallet. The network is detected from the
address prefix (0x -> ethereum, addr1/addr_test1 -> cardano), otherwise --network is used.
With --demo an empty live result is replaced by demo data, and an empty address
analyzes the network's sample wallet.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAnalyze,
}

var pdfURLCmd = &cobra.Command{
	Use:   "pdf-url <address>",
	Short: "Print the risk report document URL for a wallet",
	Args:  cobra.ExactArgs(1),
	Run:   runPDFURL,
}

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, pdfURLCmd} {
		c.Flags().StringVar(&networkFlag, "network", "", "network when the address has no known prefix (ethereum, cardano)")
		c.Flags().BoolVar(&demoFlag, "demo", false, "enable demo fallback (default from analysis.demo_fallback)")
	}
	rootCmd.AddCommand(analyzeCmd, pdfURLCmd)
}

// selectedNetwork returns --network, or the configured default.
func selectedNetwork(cfg *config.AppConfig) domain.Network {
	if networkFlag == "" {
		return cfg.Analysis.DefaultNetwork
	}
	n, err := domain.ParseNetwork(networkFlag)
	if err != nil {
		slog.Error("Invalid --network", "error", err)
		os.Exit(1)
	}
	return n
}

func demoEnabled(cmd *cobra.Command, cfg *config.AppConfig) bool {
	if cmd.Flags().Changed("demo") {
		return demoFlag
	}
	return cfg.Analysis.DemoFallback
}

func runAnalyze(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	app, stop := startApp(cfg)
	defer stop()

	var input string
	if len(args) > 0 {
		input = args[0]
	}

	s := app.NewSession()
	s.SetNetwork(selectedNetwork(cfg))

	out, err := app.Analyze(context.Background(), s, input, demoEnabled(cmd, cfg))
	if err != nil {
		if errors.Is(err, analysis.ErrQueryTimeout) {
			slog.Error("Analyze timed out", "timeout", cfg.Backend.Timeout)
		}
		slog.Error("Analyze failed", "error", err)
		stop()
		os.Exit(1)
	}

	if out.FellBack {
		slog.Info("Live data was empty, showing demo data", "network", out.Result.Network)
	}
	printResult(cmd.OutOrStdout(), out.Result)
}

func runPDFURL(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	app, stop := startApp(cfg)
	defer stop()

	network := domain.Classify(args[0], selectedNetwork(cfg))
	fmt.Fprintln(cmd.OutOrStdout(), app.PDFURL(network, args[0], demoEnabled(cmd, cfg)))
}
