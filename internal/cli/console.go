package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vietddude/blockphantom/internal/analysis"
	"github.com/vietddude/blockphantom/internal/control"
	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/payment"
)

const consoleHelp = `Commands:
  network [ethereum|cardano]  show or select the network
  demo on|off                 toggle demo fallback
  analyze [address]           analyze an address (default: the current one)
  show                        print the current result
  pdf                         print the report document URL
  pay                         open a payment for the current wallet
  confirm                     wait for the open payment to be paid
  status                      fetch the open payment's status once
  help                        show this help
  quit                        leave the console`

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start an interactive analysis session",
	Args:  cobra.NoArgs,
	Run:   runConsole,
}

func init() {
	consoleCmd.Flags().StringVar(&networkFlag, "network", "", "initial network (ethereum, cardano)")
	consoleCmd.Flags().BoolVar(&demoFlag, "demo", false, "enable demo fallback (default from analysis.demo_fallback)")
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	app, stop := startApp(cfg)
	defer stop()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := NewConsole(app, app, os.Stdin, cmd.OutOrStdout(), demoEnabled(cmd, cfg))
	c.session.SetNetwork(selectedNetwork(cfg))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
}

// Console is a line-oriented session holding one analysis Session and at
// most one open payment.
type Console struct {
	analyzer control.RiskAnalyzer
	desk     control.PaymentDesk
	in       io.Reader
	out      io.Writer

	session *analysis.Session
	demo    bool
	payment *domain.PaymentSession
}

// NewConsole creates a console reading commands from in.
func NewConsole(
	analyzer control.RiskAnalyzer,
	desk control.PaymentDesk,
	in io.Reader,
	out io.Writer,
	demo bool,
) *Console {
	return &Console{
		analyzer: analyzer,
		desk:     desk,
		in:       in,
		out:      out,
		session:  analyzer.NewSession(),
		demo:     demo,
	}
}

// Run reads commands until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if c.exec(ctx, line) {
				return nil
			}
			c.prompt()
		}
	}
}

func (c *Console) prompt() {
	mode := ""
	if c.demo {
		mode = " demo"
	}
	fmt.Fprintf(c.out, "[%s%s]> ", c.session.Network(), mode)
}

// exec runs one command line and reports whether the console should quit.
func (c *Console) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(c.out, consoleHelp)
	case "network":
		c.network(arg)
	case "demo":
		c.setDemo(arg)
	case "analyze":
		c.analyze(ctx, arg)
	case "show":
		c.show()
	case "pdf":
		c.pdf()
	case "pay":
		c.pay(ctx)
	case "confirm":
		c.confirm(ctx)
	case "status":
		c.status(ctx)
	default:
		fmt.Fprintf(c.out, "Unknown command %q, type help\n", fields[0])
	}
	return false
}

func (c *Console) fail(err error) {
	fmt.Fprintln(c.out, "Error:", err)
}

func (c *Console) network(arg string) {
	if arg == "" {
		fmt.Fprintln(c.out, "Network:", c.session.Network())
		return
	}
	n, err := domain.ParseNetwork(arg)
	if err != nil {
		c.fail(err)
		return
	}
	c.session.SetNetwork(n)
}

func (c *Console) setDemo(arg string) {
	switch strings.ToLower(arg) {
	case "on":
		c.demo = true
	case "off":
		c.demo = false
	default:
		fmt.Fprintln(c.out, "Usage: demo on|off")
		return
	}
	fmt.Fprintln(c.out, "Demo fallback:", arg)
}

func (c *Console) analyze(ctx context.Context, arg string) {
	input := arg
	if input == "" {
		input = c.session.Address()
	}

	fmt.Fprintln(c.out, "Analyzing...")
	out, err := c.analyzer.Analyze(ctx, c.session, input, c.demo)
	if errors.Is(err, analysis.ErrSuperseded) {
		return
	}
	if err != nil {
		c.fail(err)
		return
	}
	if out.FellBack {
		fmt.Fprintln(c.out, "No live data for this wallet, showing demo data.")
	}
	printResult(c.out, out.Result)
}

func (c *Console) show() {
	snap := c.session.Snapshot()
	switch {
	case snap.Loading:
		fmt.Fprintln(c.out, "Loading...")
	case snap.Err != nil:
		c.fail(snap.Err)
	default:
		printResult(c.out, snap.Result)
	}
}

// wallet returns the address the console acts on, if any.
func (c *Console) wallet() (domain.Network, string, bool) {
	address := c.session.Address()
	if address == "" {
		fmt.Fprintln(c.out, "No wallet selected, run analyze first.")
		return "", "", false
	}
	return c.session.Network(), address, true
}

func (c *Console) pdf() {
	network, address, ok := c.wallet()
	if !ok {
		return
	}
	fmt.Fprintln(c.out, c.analyzer.PDFURL(network, address, c.demo))
}

func (c *Console) pay(ctx context.Context) {
	network, address, ok := c.wallet()
	if !ok {
		return
	}
	session, reused, err := c.desk.CreatePayment(ctx, network, address, false)
	if err != nil {
		c.fail(err)
		return
	}
	c.payment = session
	printSession(c.out, session, reused)
	fmt.Fprintln(c.out, "Run confirm once paid.")
}

func (c *Console) confirm(ctx context.Context) {
	if c.payment == nil {
		fmt.Fprintln(c.out, "No open payment, run pay first.")
		return
	}

	fmt.Fprintln(c.out, "Waiting for payment...")
	receipt, err := c.desk.ConfirmPayment(ctx, c.payment.ID)
	if receipt != nil {
		c.payment = receipt.Session
		printReceipt(c.out, receipt)
	}
	if errors.Is(err, payment.ErrPollTimeout) {
		fmt.Fprintln(c.out, "Payment not confirmed yet, run confirm to keep waiting.")
		return
	}
	if err != nil {
		c.fail(err)
	}
}

func (c *Console) status(ctx context.Context) {
	if c.payment == nil {
		fmt.Fprintln(c.out, "No open payment, run pay first.")
		return
	}
	session, err := c.desk.PaymentStatus(ctx, c.payment.ID)
	if err != nil {
		c.fail(err)
		return
	}
	c.payment = session
	printSession(c.out, session, false)
}
