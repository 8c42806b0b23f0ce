package interfaces

import "context"

// Storage persists final workflow artifacts
type Storage interface {
	// Write stores content under the given key
	Write(ctx context.Context, key string, content []byte) (string, error)

	// Name returns the storage backend name
	Name() string
}
