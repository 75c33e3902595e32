package provider

import "context"

// Provider is the base interface all providers implement.
type Provider interface {
	Name() string
	// IsAvailable reports whether the backend can take requests right now.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from a generic config map.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// Closeable is implemented by providers holding resources that need an
// explicit release at shutdown.
type Closeable interface {
	Close(ctx context.Context) error
}
