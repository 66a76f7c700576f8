package viewcache

import (
	"context"
	"log/slog"
	"time"
)

// View is the manager surface the invalidator and refresher operate on.
// All three concrete managers satisfy it through their embedded Manager.
type View interface {
	Name() string
	Stale() bool
	Invalidate()
	Refresh(ctx context.Context) error
	EnsureAny(ctx context.Context) error
}

// EnsureAny refreshes the snapshot without returning it. It exists so the
// refresher can treat managers of different snapshot types uniformly.
func (m *Manager[S]) EnsureAny(ctx context.Context) error {
	_, err := m.EnsureData(ctx)
	return err
}

// Invalidator fans a single invalidation out to every registered view.
// Mutating operations call it so no manager serves a snapshot that predates
// the write.
type Invalidator struct {
	views []View
}

func NewInvalidator(views ...View) *Invalidator {
	return &Invalidator{views: views}
}

// InvalidateAll marks every view cold.
// POST: every view's next read hits storage
func (i *Invalidator) InvalidateAll() {
	for _, v := range i.views {
		v.Invalidate()
	}
	slog.Info("viewcache_invalidate_all", "views", len(i.views))
}

// Refresher re-fetches stale views on a fixed interval so a long-idle
// deployment does not serve arbitrarily old data to its first visitor.
type Refresher struct {
	views    []View
	interval time.Duration
}

func NewRefresher(interval time.Duration, views ...View) *Refresher {
	return &Refresher{views: views, interval: interval}
}

// Run blocks until ctx is cancelled, waking every interval to refresh any
// view whose TTL has elapsed. Fetch failures are logged and retried on the
// next tick; they never stop the loop.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshStale(ctx)
		}
	}
}

func (r *Refresher) refreshStale(ctx context.Context) {
	for _, v := range r.views {
		if !v.Stale() {
			continue
		}
		if err := v.EnsureAny(ctx); err != nil {
			slog.Warn("background_refresh_failed", "manager", v.Name(), "error", err.Error())
		}
	}
}
