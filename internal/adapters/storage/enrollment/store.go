package enrollment

import (
	"context"
	"errors"

	domain "github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
)

// ErrNotFound is returned when no enrollment exists for the given id.
var ErrNotFound = errors.New("enrollment not found")

// Store persists Enrollment state.
type Store interface {
	Save(ctx context.Context, e domain.Enrollment) error
	GetByID(ctx context.Context, id string) (domain.Enrollment, error)
	ListAll(ctx context.Context) ([]domain.Enrollment, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Enrollment, error)
	ListByAcademy(ctx context.Context, academyID string) ([]domain.Enrollment, error)
	Delete(ctx context.Context, id string) error
	// DeleteByEvent removes every enrollment for an event; used when the
	// event itself is deleted.
	DeleteByEvent(ctx context.Context, eventID string) error
}
