package storage

import (
	"context"
	"io"
	"time"
)

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket      string
	KeyPrefix   string
	ContentType string
}

// Service stores CV attachments in remote object storage, hands out
// short-lived view links, and removes objects once nothing references them.
type Service interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, opts UploadOptions) (string, error)
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
}
