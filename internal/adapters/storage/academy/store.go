package academy

import (
	"context"
	"errors"

	domain "github.com/saren-devv/mexxus-arena-sub001/internal/domain/academy"
)

// ErrNotFound is returned when no academy exists for the given lookup.
var ErrNotFound = errors.New("academy not found")

// Store persists Academy profiles.
type Store interface {
	Save(ctx context.Context, a domain.Academy) error
	GetByID(ctx context.Context, id string) (domain.Academy, error)
	GetByAbbreviation(ctx context.Context, abbreviation string) (domain.Academy, error)
	GetByRepresentativeDNI(ctx context.Context, dni string) (domain.Academy, error)
	ListAll(ctx context.Context) ([]domain.Academy, error)
}
