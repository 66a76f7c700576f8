package orchestrators

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/blob"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

// EventStoreForSave defines the store interface needed by the event orchestrators.
type EventStoreForSave interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
	Save(ctx context.Context, e event.Event) error
}

// SaveEventInput carries the create/edit form fields.
type SaveEventInput struct {
	ID                   string // empty on create
	Name                 string
	Date                 string // RFC3339
	RegistrationDeadline string // RFC3339, optional
	Country              string
	City                 string
	Venue                string
	Modality             string
	Description          string
	Image                io.Reader // optional poster upload
}

// SaveEventDeps holds dependencies for the event orchestrators.
type SaveEventDeps struct {
	EventStore  EventStoreForSave
	Blobs       blob.Store
	Invalidator CacheInvalidator
	Now         Clock
}

var ErrEventNotFound = errors.New("event not found")

// ExecuteSaveEvent creates or updates an event.
// PRE: Caller is an admin principal (enforced at the HTTP layer)
// POST: Event persisted, poster stored when provided, all caches invalidated
// INVARIANT: Date and deadline satisfy the schedule rules relative to now
func ExecuteSaveEvent(ctx context.Context, input SaveEventInput, principalID string, deps SaveEventDeps) (string, error) {
	now := deps.Now()

	e := event.Event{
		ID:          input.ID,
		Name:        input.Name,
		Country:     input.Country,
		City:        input.City,
		Venue:       input.Venue,
		Modality:    input.Modality,
		Description: input.Description,
		CreatedBy:   principalID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var err error
	if e.Date, err = event.ParseInstant(input.Date); err != nil {
		return "", err
	}
	if input.RegistrationDeadline != "" {
		if e.RegistrationDeadline, err = event.ParseInstant(input.RegistrationDeadline); err != nil {
			return "", err
		}
	}

	creating := e.ID == ""
	if creating {
		e.ID = uuid.New().String()
	} else {
		prior, err := deps.EventStore.GetByID(ctx, e.ID)
		if err != nil {
			return "", ErrEventNotFound
		}
		e.CreatedBy = prior.CreatedBy
		e.CreatedAt = prior.CreatedAt
		e.ImagePath = prior.ImagePath
	}

	if err := e.Validate(); err != nil {
		return "", err
	}
	if err := e.ValidateSchedule(now); err != nil {
		return "", err
	}

	if input.Image != nil {
		path := "events/" + e.ID + "-poster"
		if err := deps.Blobs.Save(path, input.Image); err != nil {
			return "", err
		}
		e.ImagePath = path
	}

	if err := deps.EventStore.Save(ctx, e); err != nil {
		return "", err
	}
	deps.Invalidator.InvalidateAll()

	action := "event_updated"
	if creating {
		action = "event_created"
	}
	slog.Info("event_event", "event", action, "event_id", e.ID, "name", e.Name, "by", principalID)
	return e.ID, nil
}
