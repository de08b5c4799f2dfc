// Package storage contains the evidence blob storage abstraction. The
// transactional store never holds evidence bytes; everything binary goes
// through a Storage implementation, keyed by category-prefixed paths with
// freshly generated names.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions define optional parameters for storing objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and
// the implementation will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the evidence blob store interface. Implementations must make
// writes atomic: a key either holds the complete object or does not exist,
// and an existing key is never overwritten or mutated.
type Storage interface {
	// Put stores an object under the given key using the provided reader and
	// options. The key must be fresh; Put fails rather than overwrite.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Exists reports whether the key currently holds an object.
	Exists(ctx context.Context, key string) (bool, error)
}
