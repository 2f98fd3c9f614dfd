package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/vietddude/blockphantom/internal/core/domain"
	"github.com/vietddude/blockphantom/internal/infra/storage"
)

const testTTL = 24 * time.Hour

func newTestRepo(t *testing.T) (*PaymentRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewClient(Config{URL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewPaymentRepo(client, testTTL), mr
}

func testSession(id, address string) *domain.PaymentSession {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.PaymentSession{
		ID:        id,
		Status:    domain.PaymentPending,
		PayURL:    "https://pay.example/" + id,
		Network:   domain.NetworkCardano,
		Address:   address,
		Currency:  "ADA",
		Amount:    1000000,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPaymentRepo_SaveGet(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	s := testSession("pay-1", "addr1abc")
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, "pay-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != s.ID || got.Status != s.Status || got.PayURL != s.PayURL ||
		got.Network != s.Network || got.Address != s.Address || got.Amount != s.Amount {
		t.Errorf("unexpected session %+v", got)
	}
	if !got.CreatedAt.Equal(s.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, s.CreatedAt)
	}

	for _, key := range []string{"payment:pay-1", "payment_latest:cardano:addr1abc"} {
		if ttl := mr.TTL(key); ttl != testTTL {
			t.Errorf("TTL(%s) = %s, want %s", key, ttl, testTTL)
		}
	}
	if id, _ := mr.Get("payment_latest:cardano:addr1abc"); id != "pay-1" {
		t.Errorf("latest pointer = %q, want pay-1", id)
	}
}

func TestPaymentRepo_GetUnknown(t *testing.T) {
	repo, _ := newTestRepo(t)

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, storage.ErrPaymentNotFound) {
		t.Errorf("expected ErrPaymentNotFound, got %v", err)
	}
	err := repo.UpdateStatus(context.Background(), "missing", domain.PaymentPaid)
	if !errors.Is(err, storage.ErrPaymentNotFound) {
		t.Errorf("expected ErrPaymentNotFound from UpdateStatus, got %v", err)
	}
}

func TestPaymentRepo_Latest(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	latest, err := repo.Latest(ctx, domain.NetworkCardano, "addr1abc")
	if err != nil || latest != nil {
		t.Fatalf("expected no session for unknown wallet, got %+v, %v", latest, err)
	}

	if err := repo.Save(ctx, testSession("pay-1", "addr1abc")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(ctx, testSession("pay-2", "addr1abc")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(ctx, testSession("pay-3", "addr1other")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	latest, err = repo.Latest(ctx, domain.NetworkCardano, "addr1abc")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.ID != "pay-2" {
		t.Fatalf("expected pay-2, got %+v", latest)
	}

	if other, _ := repo.Latest(ctx, domain.NetworkEthereum, "addr1abc"); other != nil {
		t.Errorf("latest must be scoped by network, got %+v", other)
	}

	// Pointer left behind by an expired session
	mr.Del("payment:pay-2")
	latest, err = repo.Latest(ctx, domain.NetworkCardano, "addr1abc")
	if err != nil || latest != nil {
		t.Errorf("expected nil for dangling pointer, got %+v, %v", latest, err)
	}
}

func TestPaymentRepo_Expiry(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, testSession("pay-1", "addr1abc")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	mr.FastForward(testTTL + time.Second)

	if _, err := repo.Get(ctx, "pay-1"); !errors.Is(err, storage.ErrPaymentNotFound) {
		t.Errorf("expected expired session, got %v", err)
	}
	latest, err := repo.Latest(ctx, domain.NetworkCardano, "addr1abc")
	if err != nil || latest != nil {
		t.Errorf("expected nil latest after expiry, got %+v, %v", latest, err)
	}
}

func TestPaymentRepo_UpdateStatusKeepsTTL(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	s := testSession("pay-1", "addr1abc")
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	mr.FastForward(time.Hour)

	if err := repo.UpdateStatus(ctx, "pay-1", domain.PaymentPaid); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	if ttl := mr.TTL("payment:pay-1"); ttl != testTTL-time.Hour {
		t.Errorf("TTL after update = %s, want %s", ttl, testTTL-time.Hour)
	}

	got, err := repo.Get(ctx, "pay-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != domain.PaymentPaid {
		t.Errorf("status = %s, want paid", got.Status)
	}
	if !got.UpdatedAt.After(s.UpdatedAt) {
		t.Errorf("expected UpdatedAt to move forward, got %v", got.UpdatedAt)
	}

	latest, _ := repo.Latest(ctx, domain.NetworkCardano, "addr1abc")
	if latest == nil || latest.Status != domain.PaymentPaid {
		t.Errorf("latest should reflect the update, got %+v", latest)
	}
}
