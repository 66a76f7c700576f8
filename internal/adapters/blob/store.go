package blob

import (
	"errors"
	"io"
)

// ErrNotFound is returned when no blob exists at the given path.
var ErrNotFound = errors.New("blob not found")

// Store is the interface for persisting binary assets such as event images.
// Paths are relative, forward-slash separated, and chosen by the caller
// (e.g. "events/<id>-poster").
type Store interface {
	Save(path string, src io.Reader) error
	Load(path string) ([]byte, error)
	Delete(path string) error
}
