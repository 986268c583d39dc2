// Package storage wraps the S3-compatible object store holding menu images
// and the URL scheme used to reference them from database rows.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rawaz/digital-menu/internal/config"
)

// Store is a thin wrapper around the AWS SDK v2 S3 client, tuned for
// self-hosted S3-compatible endpoints (path-style addressing, static
// credentials, optional plain HTTP).
type Store struct {
	api  *s3.Client
	base string // public origin used in row URLs
}

// New initialises a Store from the storage configuration.
func New(cfg config.StorageConfig) (*Store, error) {
	scheme := "https"
	if cfg.DisableTLS {
		scheme = "http"
	}
	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = fmt.Sprintf("%s://%s", scheme, endpoint)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
	if err != nil {
		return nil, err
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &Store{api: api, base: cfg.PublicBaseURL}, nil
}

// Put uploads an object and returns its public URL.
func (s *Store) Put(ctx context.Context, bucket, path, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &path,
		Body:          body,
		ContentLength: &size,
		ContentType:   &contentType,
	})
	if err != nil {
		return "", err
	}
	return BuildPublicURL(s.base, bucket, path), nil
}

// Remove deletes one object. S3 delete is idempotent, so removing an
// already absent object succeeds.
func (s *Store) Remove(ctx context.Context, bucket, path string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &path,
	})
	return err
}
