package event

import (
	"context"
	"errors"
	"time"

	domain "github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

// ErrNotFound is returned when no event exists for the given id.
var ErrNotFound = errors.New("event not found")

// Store persists Event state.
type Store interface {
	Save(ctx context.Context, e domain.Event) error
	GetByID(ctx context.Context, id string) (domain.Event, error)
	// ListUpcoming returns events dated strictly after `after`, ordered by
	// date ascending, at most `limit` (0 means no limit).
	ListUpcoming(ctx context.Context, after time.Time, limit int) ([]domain.Event, error)
	ListAll(ctx context.Context) ([]domain.Event, error)
	Delete(ctx context.Context, id string) error
}
