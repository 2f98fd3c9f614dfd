package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubRepo struct {
	thresholds []time.Time
	deleted    int
	err        error
}

func (s *stubRepo) DeleteOlderThan(ctx context.Context, threshold time.Time) (int, error) {
	s.thresholds = append(s.thresholds, threshold)
	return s.deleted, s.err
}

func TestPruner_Interval(t *testing.T) {
	tests := []struct {
		retention time.Duration
		want      time.Duration
	}{
		{24 * time.Hour, time.Hour},
		{5 * time.Hour, 30 * time.Minute},
		{2 * time.Minute, time.Minute},
	}
	for _, tt := range tests {
		p := NewPruner(tt.retention, &stubRepo{}, nil)
		if got := p.Interval(); got != tt.want {
			t.Errorf("Interval(%s) = %s, want %s", tt.retention, got, tt.want)
		}
	}
}

func TestPruner_Prune(t *testing.T) {
	repo := &stubRepo{deleted: 3}
	p := NewPruner(time.Hour, repo, nil)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if n := p.Prune(context.Background(), now); n != 3 {
		t.Errorf("Prune = %d, want 3", n)
	}
	if len(repo.thresholds) != 1 || !repo.thresholds[0].Equal(now.Add(-time.Hour)) {
		t.Errorf("unexpected thresholds %v", repo.thresholds)
	}

	repo.err = errors.New("boom")
	if n := p.Prune(context.Background(), now); n != 0 {
		t.Errorf("Prune on error = %d, want 0", n)
	}
}

func TestPruner_StartDisabled(t *testing.T) {
	repo := &stubRepo{}
	p := NewPruner(0, repo, nil)

	done := make(chan struct{})
	go func() {
		p.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start should return when retention is disabled")
	}
	if len(repo.thresholds) != 0 {
		t.Error("disabled pruner must not delete")
	}
}

func TestPruner_StartStopsOnCancel(t *testing.T) {
	repo := &stubRepo{}
	p := NewPruner(time.Hour, repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not stop on cancel")
	}
}
