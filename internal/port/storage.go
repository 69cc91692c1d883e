package port

import (
	"context"
	"io"
	"time"
)

// StoredObject describes an object to put in a bucket.
type StoredObject struct {
	Bucket      string
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	// DownloadName, when set, is the filename browsers save the object as.
	DownloadName string
}

// ObjectStorage keeps generated files and hands out temporary links to them.
type ObjectStorage interface {
	Put(ctx context.Context, obj StoredObject) error
	Delete(ctx context.Context, bucket, key string) error
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
