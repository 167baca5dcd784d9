// Package storage abstracts the S3-compatible object store holding user
// avatars. Implementations rely on streaming I/O only, never local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions are the optional parameters for an upload. Size should be
// the exact byte count when known; -1 lets the backend buffer/chunk.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object-store client interface consumed by the user service
// for avatar uploads and presigned downloads.
type Storage interface {
	// Put uploads an object under the given key from the reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams an object's content alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL for downloading the object
	// without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
