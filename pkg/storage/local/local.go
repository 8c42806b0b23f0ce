package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultBasePath = "./md"

// Storage implements interfaces.Storage on the local filesystem. Keys are
// file names relative to the base directory; anything that would escape the
// base directory is rejected.
type Storage struct {
	basePath   string
	extensions []string
}

// Option represents an option for configuring local storage
type Option func(*Storage)

// WithPath sets the base directory for artifacts
func WithPath(path string) Option {
	return func(s *Storage) {
		if path != "" {
			s.basePath = path
		}
	}
}

// WithAllowedExtensions restricts the file extensions accepted as keys
func WithAllowedExtensions(extensions ...string) Option {
	return func(s *Storage) {
		s.extensions = extensions
	}
}

// New creates a local filesystem storage rooted at the configured base path
func New(options ...Option) (*Storage, error) {
	s := &Storage{
		basePath:   defaultBasePath,
		extensions: []string{".md"},
	}
	for _, opt := range options {
		opt(s)
	}

	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return s, nil
}

// Name returns the storage backend name
func (s *Storage) Name() string {
	return "local"
}

// Write stores content under the given key and returns the file path
func (s *Storage) Write(ctx context.Context, key string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filePath, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return filePath, nil
}

// Read returns the content stored under the given key
func (s *Storage) Read(key string) ([]byte, error) {
	filePath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, nil
}

// resolve validates a key and maps it to a path under the base directory
func (s *Storage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("artifact key is required")
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid artifact key %q", key)
	}
	if len(s.extensions) > 0 {
		ext := filepath.Ext(key)
		allowed := false
		for _, e := range s.extensions {
			if ext == e {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", fmt.Errorf("artifact extension %q is not allowed", ext)
		}
	}
	return filepath.Join(s.basePath, key), nil
}
