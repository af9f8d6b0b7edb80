// Package storage holds uploaded media and attachments.
//
// Client abstracts the backing store; Local keeps files on disk below a root
// directory and serves them under a public URL prefix.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("file not found")

// FileInfo contains metadata about a stored file
type FileInfo struct {
	Key        string // Path relative to the storage root, slash separated
	Size       int64
	ModifiedAt time.Time
}

// Client defines the operations the upload handlers and background tasks need.
type Client interface {
	// Upload writes content to key, creating parent directories as needed
	Upload(ctx context.Context, key string, content io.Reader) (int64, error)

	// Download retrieves the contents of a file
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, key string) error

	// Exists checks if a file exists
	Exists(ctx context.Context, key string) (bool, error)

	// GetMetadata retrieves file info without downloading content
	GetMetadata(ctx context.Context, key string) (*FileInfo, error)

	// URL returns the public URL of key
	URL(key string) string
}
