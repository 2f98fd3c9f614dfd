package mockbackend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

func serve(r *Router, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)
	return w
}

func TestGenerator_RiskBands(t *testing.T) {
	g := NewGenerator(42)
	for i := 0; i < 500; i++ {
		r := g.Risk(false)
		if r.Score < 1 || r.Score > 99 {
			t.Fatalf("score out of range: %v", r.Score)
		}
		if r.Level != RiskLevel(int(r.Score)) {
			t.Fatalf("level %s does not match score %v", r.Level, r.Score)
		}
		switch r.Level {
		case "low":
			if r.Probability < 0.01 || r.Probability > 0.30 {
				t.Fatalf("low probability out of band: %v", r.Probability)
			}
		case "medium":
			if r.Probability < 0.30 || r.Probability > 0.60 {
				t.Fatalf("medium probability out of band: %v", r.Probability)
			}
		case "high":
			if r.Probability < 0.60 || r.Probability > 0.99 {
				t.Fatalf("high probability out of band: %v", r.Probability)
			}
		}
		if r.Details.Count < 1 || r.Details.Count > 50 {
			t.Fatalf("count out of range: %d", r.Details.Count)
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a, b := NewGenerator(7), NewGenerator(7)
	if a.Risk(false) != b.Risk(false) {
		t.Error("expected identical reports for identical seeds")
	}
}

func TestRouter_Risk(t *testing.T) {
	r := NewRouter(Options{Seed: 1})

	w := serve(r, http.MethodGet, "/wallet/ethereum/0xabc/risk?demo=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var report domain.RiskReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.Demo {
		t.Error("expected demo flag to be echoed")
	}
}

func TestRouter_InvalidChain(t *testing.T) {
	r := NewRouter(Options{Seed: 1})
	w := serve(r, http.MethodGet, "/wallet/btc/1abc/risk", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRouter_HistoryEmptyAddress(t *testing.T) {
	r := NewRouter(Options{Seed: 1, EmptyAddresses: []string{"addr1empty"}})

	var resp struct {
		Transactions []Tx `json:"transactions"`
	}

	w := serve(r, http.MethodGet, "/wallet/cardano/addr1empty/history", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Transactions) != 0 {
		t.Errorf("expected empty live history, got %d", len(resp.Transactions))
	}

	w = serve(r, http.MethodGet, "/wallet/cardano/addr1empty/history?demo=true", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Transactions) < 3 || len(resp.Transactions) > 12 {
		t.Errorf("expected 3-12 demo transactions, got %d", len(resp.Transactions))
	}
}

func TestRouter_PaymentFlow(t *testing.T) {
	r := NewRouter(Options{Seed: 1, ConfirmAfter: 2, PayBaseURL: "https://pay.example"})

	body, _ := json.Marshal(domain.PaymentRequest{
		Network:  domain.NetworkCardano,
		Address:  "addr1abc",
		Currency: "ADA",
		Amount:   1000000,
	})
	w := serve(r, http.MethodPost, "/masumi/create-payment", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		PayURL string `json:"pay_url"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" || created.PayURL != "https://pay.example/"+created.ID {
		t.Fatalf("unexpected create response %+v", created)
	}

	// Report is locked before payment
	if w := serve(r, http.MethodGet, "/report?chain=cardano&address=addr1abc", nil); w.Code != http.StatusPaymentRequired {
		t.Errorf("expected 402 before payment, got %d", w.Code)
	}

	want := []string{"pending", "pending", "paid"}
	for i, status := range want {
		w := serve(r, http.MethodGet, "/masumi/payment-status/"+created.ID, nil)
		var resp struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Status != status {
			t.Errorf("poll %d: expected %s, got %s", i+1, status, resp.Status)
		}
	}

	if w := serve(r, http.MethodGet, "/report?chain=cardano&address=addr1abc", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 after payment, got %d", w.Code)
	}
}

func TestRouter_CreatePaymentValidation(t *testing.T) {
	r := NewRouter(Options{Seed: 1})
	w := serve(r, http.MethodPost, "/masumi/create-payment", []byte(`{"network":"cardano"}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	w = serve(r, http.MethodGet, "/masumi/payment-status/unknown", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
