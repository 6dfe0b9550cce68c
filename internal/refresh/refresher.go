package refresh

import (
	"context"
	"log/slog"
	"time"

	"github.com/cragline/modcatalog/internal/catalog"
)

// Refresher periodically re-resolves publisher display names against
// GameBanana so renames upstream eventually land in the catalog.
type Refresher struct {
	catalog  catalog.Service
	interval time.Duration
}

// NewRefresher creates a new refresh worker
func NewRefresher(svc catalog.Service, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &Refresher{
		catalog:  svc,
		interval: interval,
	}
}

// Start begins the refresh worker in a goroutine
func (r *Refresher) Start(ctx context.Context) {
	go r.run(ctx)
}

// run is the main loop for the refresh worker
func (r *Refresher) run(ctx context.Context) {
	slog.Info("publisher refresh worker started", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Run immediately on start
	r.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("publisher refresh worker stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// refresh runs one rename-sync cycle
func (r *Refresher) refresh(ctx context.Context) {
	slog.Debug("running publisher refresh cycle")

	renamed, err := r.catalog.RefreshPublisherNames(ctx)
	if err != nil {
		slog.Error("publisher refresh failed", "error", err)
		return
	}

	if renamed > 0 {
		slog.Info("publisher refresh complete", "renamed", renamed)
	} else {
		slog.Debug("no publisher renames found")
	}
}
