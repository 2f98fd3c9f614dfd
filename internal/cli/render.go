package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/payment"
)

// maxDisplayedTxs caps how many transaction records are printed.
const maxDisplayedTxs = 8

func printResult(w io.Writer, res *domain.QueryResult) {
	if res == nil {
		fmt.Fprintln(w, "No result yet.")
		return
	}

	badge := ""
	if res.Demo {
		badge = " [DEMO]"
	}
	fmt.Fprintf(w, "Wallet %s on %s%s\n", res.Address, res.Network, badge)

	r := res.Risk
	fmt.Fprintf(w, "  Risk score:  %.0f (%s)\n", r.Score, r.Level)
	fmt.Fprintf(w, "  Probability: %.3f\n", r.Probability)
	fmt.Fprintf(w, "  Avg / Std:   %.4f / %.4f\n", r.Details.Avg, r.Details.Std)
	fmt.Fprintf(w, "  Tx count:    %d\n", r.Details.Count)

	if len(res.Transactions) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return
	}

	shown := res.Transactions
	if len(shown) > maxDisplayedTxs {
		shown = shown[:maxDisplayedTxs]
	}
	fmt.Fprintf(w, "Recent transactions (%d of %d):\n", len(shown), len(res.Transactions))
	for _, tx := range shown {
		var buf bytes.Buffer
		if err := json.Indent(&buf, tx, "  ", "  "); err != nil {
			buf.Reset()
			buf.Write(tx)
		}
		fmt.Fprintf(w, "  %s\n", buf.String())
	}
}

func printSession(w io.Writer, s *domain.PaymentSession, reused bool) {
	note := ""
	if reused {
		note = " (existing)"
	}
	fmt.Fprintf(w, "Payment %s%s\n", s.ID, note)
	fmt.Fprintf(w, "  Wallet: %s on %s\n", s.Address, s.Network)
	fmt.Fprintf(w, "  Amount: %d %s\n", s.Amount, s.Currency)
	fmt.Fprintf(w, "  Status: %s\n", s.Status)
	if s.PayURL != "" {
		fmt.Fprintf(w, "  Pay at: %s\n", s.PayURL)
	}
}

func printReceipt(w io.Writer, r *payment.Receipt) {
	res := r.Result
	fmt.Fprintf(w, "Payment %s: %s after %d checks (%s)\n",
		r.Session.ID, res.State, res.Attempts, res.Elapsed)
	if r.ReportURL != "" {
		fmt.Fprintf(w, "  Report: %s\n", r.ReportURL)
	}
}
