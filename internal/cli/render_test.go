package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

func TestPrintResult_CapsTransactions(t *testing.T) {
	txs := make([]domain.TransactionRecord, 11)
	for i := range txs {
		txs[i] = json.RawMessage(fmt.Sprintf(`{"hash":"tx_%d"}`, i))
	}
	res := &domain.QueryResult{
		Network:      domain.NetworkEthereum,
		Address:      "0xabc",
		Risk:         domain.RiskReport{Score: 42, Level: "medium"},
		Transactions: txs,
	}

	var buf bytes.Buffer
	printResult(&buf, res)
	out := buf.String()

	if !strings.Contains(out, "Recent transactions (8 of 11):") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, `"hash": "tx_7"`) {
		t.Errorf("expected eighth record:\n%s", out)
	}
	if strings.Contains(out, "tx_8") {
		t.Errorf("ninth record must not be shown:\n%s", out)
	}
	if !strings.Contains(out, "Risk score:  42 (medium)") {
		t.Errorf("missing score line:\n%s", out)
	}
}

func TestPrintResult_Empty(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, nil)
	if buf.String() != "No result yet.\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	printResult(&buf, &domain.QueryResult{Network: domain.NetworkCardano, Address: "addr1x", Demo: true})
	out := buf.String()
	if !strings.Contains(out, "addr1x on cardano [DEMO]") || !strings.Contains(out, "No transactions found.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
