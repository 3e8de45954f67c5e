package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type AWSS3Storage struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	region    string
	cdnDomain string
}

func NewAWSS3Storage(ctx context.Context, region, bucket, cdnDomain string) (*AWSS3Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &AWSS3Storage{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    bucket,
		region:    region,
		cdnDomain: cdnDomain,
	}, nil
}

func (a *AWSS3Storage) PresignUpload(ctx context.Context, request *PresignRequest) (*PresignedURL, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(request.Key),
		ContentType: aws.String(request.ContentType),
	}
	if request.Size > 0 {
		input.ContentLength = aws.Int64(request.Size)
	}

	resp, err := a.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(request.Expiration))
	if err != nil {
		return nil, fmt.Errorf("failed to presign S3 upload: %w", err)
	}

	headers := make(map[string]string, len(resp.SignedHeader))
	for name, values := range resp.SignedHeader {
		if len(values) > 0 && name != "Host" {
			headers[name] = values[0]
		}
	}

	return &PresignedURL{
		URL:       resp.URL,
		Method:    resp.Method,
		Headers:   headers,
		ExpiresAt: time.Now().Add(request.Expiration),
	}, nil
}

func (a *AWSS3Storage) PresignDownload(ctx context.Context, key string, expiration time.Duration) (*PresignedURL, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}

	resp, err := a.presign.PresignGetObject(ctx, input, s3.WithPresignExpires(expiration))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURL{
		URL:       resp.URL,
		Method:    http.MethodGet,
		ExpiresAt: time.Now().Add(expiration),
	}, nil
}

func (a *AWSS3Storage) PublicURL(key string) string {
	if a.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", a.cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key)
}
