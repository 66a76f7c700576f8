package viewcache

import (
	"context"
	"time"

	academystore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/academy"
	enrollmentstore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/enrollment"
	eventstore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/event"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/academy"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

// DataSource supplies the collections the managers cache. Implementations
// decode into typed records at this boundary; malformed rows surface as
// errors, never as zero-value fields.
type DataSource interface {
	UpcomingEvents(ctx context.Context, after time.Time, limit int) ([]event.Event, error)
	AllEvents(ctx context.Context) ([]event.Event, error)
	AllEnrollments(ctx context.Context) ([]enrollment.Enrollment, error)
	AllAcademies(ctx context.Context) ([]academy.Academy, error)
}

// StorageSource adapts the SQLite stores to the DataSource interface.
type StorageSource struct {
	Events      eventstore.Store
	Enrollments enrollmentstore.Store
	Academies   academystore.Store
}

func (s *StorageSource) UpcomingEvents(ctx context.Context, after time.Time, limit int) ([]event.Event, error) {
	return s.Events.ListUpcoming(ctx, after, limit)
}

func (s *StorageSource) AllEvents(ctx context.Context) ([]event.Event, error) {
	return s.Events.ListAll(ctx)
}

func (s *StorageSource) AllEnrollments(ctx context.Context) ([]enrollment.Enrollment, error) {
	return s.Enrollments.ListAll(ctx)
}

func (s *StorageSource) AllAcademies(ctx context.Context) ([]academy.Academy, error) {
	return s.Academies.ListAll(ctx)
}
