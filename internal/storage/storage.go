package storage

import "context"

// ObjectInfo represents metadata for a remote object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal object-store operations the pipeline
// needs. Fetch buffers the whole object in memory before returning; memory use
// therefore grows with the concurrency window, a deliberate simplicity
// trade-off for this workload's file sizes.
type ObjectStorage interface {
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}
