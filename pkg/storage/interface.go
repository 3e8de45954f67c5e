package storage

import (
	"context"
	"time"
)

// StorageProvider issues signed URLs so clients move bytes directly to and from the bucket.
type StorageProvider interface {
	PresignUpload(ctx context.Context, request *PresignRequest) (*PresignedURL, error)
	PresignDownload(ctx context.Context, key string, expiration time.Duration) (*PresignedURL, error)
	PublicURL(key string) string
}

type PresignRequest struct {
	Key         string        `json:"key"`
	ContentType string        `json:"content_type"`
	Size        int64         `json:"size"`
	Expiration  time.Duration `json:"expiration"`
}

type PresignedURL struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}
