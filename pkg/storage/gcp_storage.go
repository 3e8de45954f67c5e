package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCPStorage struct {
	client    *storage.Client
	bucket    string
	cdnDomain string
}

func NewGCPStorage(ctx context.Context, bucket, credentialsFile, cdnDomain string) (*GCPStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP storage client: %w", err)
	}

	return &GCPStorage{
		client:    client,
		bucket:    bucket,
		cdnDomain: cdnDomain,
	}, nil
}

func (g *GCPStorage) PresignUpload(ctx context.Context, request *PresignRequest) (*PresignedURL, error) {
	expiresAt := time.Now().Add(request.Expiration)

	url, err := g.client.Bucket(g.bucket).SignedURL(request.Key, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: request.ContentType,
		Expires:     expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign GCS upload: %w", err)
	}

	return &PresignedURL{
		URL:       url,
		Method:    http.MethodPut,
		Headers:   map[string]string{"Content-Type": request.ContentType},
		ExpiresAt: expiresAt,
	}, nil
}

func (g *GCPStorage) PresignDownload(ctx context.Context, key string, expiration time.Duration) (*PresignedURL, error) {
	expiresAt := time.Now().Add(expiration)

	url, err := g.client.Bucket(g.bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return &PresignedURL{
		URL:       url,
		Method:    http.MethodGet,
		ExpiresAt: expiresAt,
	}, nil
}

func (g *GCPStorage) PublicURL(key string) string {
	if g.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", g.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, key)
}

func (g *GCPStorage) Close() error {
	return g.client.Close()
}
