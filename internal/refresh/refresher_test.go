package refresh

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cragline/modcatalog/internal/catalog"
)

type stubService struct {
	catalog.Service
	calls atomic.Int64
}

func (s *stubService) RefreshPublisherNames(_ context.Context) (int, error) {
	s.calls.Add(1)
	return 0, nil
}

func TestRefresherRunsImmediately(t *testing.T) {
	svc := &stubService{}
	r := NewRefresher(svc, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	deadline := time.After(2 * time.Second)
	for svc.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected a refresh cycle on start")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestRefresherStopsOnCancel(t *testing.T) {
	svc := &stubService{}
	r := NewRefresher(svc, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	got := svc.calls.Load()
	if got < 2 {
		t.Fatalf("expected repeated cycles before cancel, got %d", got)
	}

	time.Sleep(100 * time.Millisecond)
	if after := svc.calls.Load(); after != got {
		t.Errorf("refresher kept running after cancel: %d -> %d", got, after)
	}
}

func TestNewRefresherDefaultInterval(t *testing.T) {
	r := NewRefresher(&stubService{}, 0)
	if r.interval != 6*time.Hour {
		t.Errorf("expected 6h default interval, got %v", r.interval)
	}
}
