package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned by Path for missing objects.
	ErrNotFound = errors.New("storage: object not found")
	// ErrInvalidName is returned for names that would escape the storage root.
	ErrInvalidName = errors.New("storage: invalid object name")
)

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage defines the operations on the Storage Area.
type Storage interface {
	// Upload writes reader to name. A failed upload leaves nothing behind.
	Upload(ctx context.Context, name string, reader io.Reader) error

	// Delete removes name. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error

	Exists(ctx context.Context, name string) (bool, error)

	// Path returns a location for name that engines can open directly.
	Path(ctx context.Context, name string) (string, error)

	// List returns objects whose name starts with prefix, sorted by name.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}
