package orchestrators

import (
	"context"
	"log/slog"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/blob"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

// EventStoreForDelete defines the store interface needed by DeleteEvent.
type EventStoreForDelete interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
	Delete(ctx context.Context, id string) error
}

// EnrollmentStoreForDelete defines the enrollment store interface needed by DeleteEvent.
type EnrollmentStoreForDelete interface {
	DeleteByEvent(ctx context.Context, eventID string) error
}

// DeleteEventDeps holds dependencies for DeleteEvent.
type DeleteEventDeps struct {
	EventStore      EventStoreForDelete
	EnrollmentStore EnrollmentStoreForDelete
	Blobs           blob.Store
	Invalidator     CacheInvalidator
}

// ExecuteDeleteEvent removes an event, its enrollments, and its poster.
// PRE: Caller is an admin principal (enforced at the HTTP layer)
// POST: Event and every enrollment referencing it are gone; caches invalidated
func ExecuteDeleteEvent(ctx context.Context, eventID string, deps DeleteEventDeps) error {
	e, err := deps.EventStore.GetByID(ctx, eventID)
	if err != nil {
		return ErrEventNotFound
	}

	// Enrollments first so a failure never leaves orphans behind a deleted event.
	if err := deps.EnrollmentStore.DeleteByEvent(ctx, eventID); err != nil {
		return err
	}
	if err := deps.EventStore.Delete(ctx, eventID); err != nil {
		return err
	}
	if e.ImagePath != "" {
		if err := deps.Blobs.Delete(e.ImagePath); err != nil {
			slog.Warn("event_poster_delete_failed", "event_id", eventID, "error", err.Error())
		}
	}

	deps.Invalidator.InvalidateAll()
	slog.Info("event_event", "event", "event_deleted", "event_id", eventID, "name", e.Name)
	return nil
}
