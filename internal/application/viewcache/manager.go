package viewcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/academy"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

// Error taxonomy at the refresh boundary. Connectivity failures are
// retryable; permission failures indicate a principal/role mismatch and are
// not retried automatically.
var (
	ErrUnavailable = errors.New("data source unavailable")
	ErrForbidden   = errors.New("permission denied")
)

// EventData is the snapshot cached by the dashboard and public managers:
// one consistent pair of events and enrollments fetched together.
type EventData struct {
	Events      []event.Event
	Enrollments []enrollment.Enrollment
}

// AdminData adds the academy list needed by the admin panel.
type AdminData struct {
	Events      []event.Event
	Enrollments []enrollment.Enrollment
	Academies   []academy.Academy
}

// Manager owns one cached view: it serves the snapshot while valid and
// re-fetches it otherwise. The zero value is not usable; construct with
// newManager.
type Manager[S any] struct {
	name    string
	cache   *Cache[S]
	fetch   func(ctx context.Context) (S, error)
	metrics *Metrics
	clock   Clock
}

func newManager[S any](name string, ttl time.Duration, clock Clock, metrics *Metrics, fetch func(ctx context.Context) (S, error)) *Manager[S] {
	return &Manager[S]{
		name:    name,
		cache:   NewCache[S](ttl, clock),
		fetch:   fetch,
		metrics: metrics,
		clock:   clock,
	}
}

// Name identifies the manager in logs and metrics.
func (m *Manager[S]) Name() string { return m.name }

// EnsureData returns the cached snapshot, fetching first when the cache is
// cold or stale. A failed fetch leaves the prior cache state untouched and
// returns a typed error.
// POST: on nil error the returned snapshot is the one now cached
func (m *Manager[S]) EnsureData(ctx context.Context) (S, error) {
	if snap, ok := m.cache.Snapshot(); ok {
		m.metrics.hit(m.name)
		return snap, nil
	}
	m.metrics.miss(m.name)

	snap, err := m.fetch(ctx)
	if err != nil {
		m.metrics.refreshFailed(m.name)
		slog.Error("viewcache_refresh_failed", "manager", m.name, "error", err.Error())
		var zero S
		return zero, classify(err)
	}
	m.cache.Store(snap)
	m.metrics.refreshed(m.name, float64(m.cache.LastRefresh().Unix()))
	slog.Info("viewcache_refreshed", "manager", m.name)
	return snap, nil
}

// Invalidate forces the next EnsureData to hit storage.
func (m *Manager[S]) Invalidate() {
	m.cache.Invalidate()
	m.metrics.invalidated(m.name)
}

// Refresh discards the snapshot and fetches a new one immediately.
func (m *Manager[S]) Refresh(ctx context.Context) error {
	m.Invalidate()
	_, err := m.EnsureData(ctx)
	return err
}

// Stale reports whether the next read would hit storage.
func (m *Manager[S]) Stale() bool { return !m.cache.Valid() }

// classify maps a fetch error onto the taxonomy, preserving the cause.
func classify(err error) error {
	if errors.Is(err, ErrForbidden) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// DashboardManager caches the academy dashboard view: the next upcoming
// events plus all enrollments, aggregated per requesting academy.
type DashboardManager struct {
	*Manager[EventData]
}

// NewDashboardManager constructs the dashboard view manager.
// PRE: source, clock non-nil; ttl > 0; pageSize > 0
func NewDashboardManager(source DataSource, clock Clock, ttl time.Duration, pageSize int, metrics *Metrics) *DashboardManager {
	return &DashboardManager{
		Manager: newManager("dashboard", ttl, clock, metrics, func(ctx context.Context) (EventData, error) {
			return fetchEventData(ctx, source, clock, pageSize)
		}),
	}
}

// EventsFor returns the aggregated upcoming events as seen by one academy.
func (m *DashboardManager) EventsFor(ctx context.Context, academyID string) ([]EventSummary, error) {
	data, err := m.EnsureData(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(data.Events, data.Enrollments, academyID), nil
}

// PublicManager caches the public landing view. Same data shape as the
// dashboard but a longer TTL and no principal.
type PublicManager struct {
	*Manager[EventData]
}

func NewPublicManager(source DataSource, clock Clock, ttl time.Duration, pageSize int, metrics *Metrics) *PublicManager {
	return &PublicManager{
		Manager: newManager("public", ttl, clock, metrics, func(ctx context.Context) (EventData, error) {
			return fetchEventData(ctx, source, clock, pageSize)
		}),
	}
}

// Events returns the aggregated upcoming events with no ownership fields.
func (m *PublicManager) Events(ctx context.Context) ([]EventSummary, error) {
	data, err := m.EnsureData(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(data.Events, data.Enrollments, ""), nil
}

// AdminManager caches the admin panel view: every event regardless of date,
// all enrollments, and the academy directory.
type AdminManager struct {
	*Manager[AdminData]
}

func NewAdminManager(source DataSource, clock Clock, ttl time.Duration, metrics *Metrics) *AdminManager {
	return &AdminManager{
		Manager: newManager("admin", ttl, clock, metrics, func(ctx context.Context) (AdminData, error) {
			return fetchAdminData(ctx, source)
		}),
	}
}

// Data returns the full admin snapshot.
func (m *AdminManager) Data(ctx context.Context) (AdminData, error) {
	return m.EnsureData(ctx)
}

// Summaries returns every event aggregated with no principal.
func (m *AdminManager) Summaries(ctx context.Context) ([]EventSummary, error) {
	data, err := m.EnsureData(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(data.Events, data.Enrollments, ""), nil
}

// fetchEventData issues the event and enrollment reads concurrently and
// joins them into one snapshot. Either failure discards both results.
func fetchEventData(ctx context.Context, source DataSource, clock Clock, pageSize int) (EventData, error) {
	var wg sync.WaitGroup
	var events []event.Event
	var enrollments []enrollment.Enrollment
	var evErr, enErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		events, evErr = source.UpcomingEvents(ctx, clock(), pageSize)
	}()
	go func() {
		defer wg.Done()
		enrollments, enErr = source.AllEnrollments(ctx)
	}()
	wg.Wait()
	if err := errors.Join(evErr, enErr); err != nil {
		return EventData{}, err
	}
	return EventData{Events: events, Enrollments: enrollments}, nil
}

// fetchAdminData is the three-way variant used by the admin manager.
func fetchAdminData(ctx context.Context, source DataSource) (AdminData, error) {
	var wg sync.WaitGroup
	var events []event.Event
	var enrollments []enrollment.Enrollment
	var academies []academy.Academy
	var evErr, enErr, acErr error
	wg.Add(3)
	go func() {
		defer wg.Done()
		events, evErr = source.AllEvents(ctx)
	}()
	go func() {
		defer wg.Done()
		enrollments, enErr = source.AllEnrollments(ctx)
	}()
	go func() {
		defer wg.Done()
		academies, acErr = source.AllAcademies(ctx)
	}()
	wg.Wait()
	if err := errors.Join(evErr, enErr, acErr); err != nil {
		return AdminData{}, err
	}
	return AdminData{Events: events, Enrollments: enrollments, Academies: academies}, nil
}
