// Package storage provides object storage for original resume files.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/config"
)

// StoredFile is the handle returned by a successful upload. Key is what
// Delete needs; URL is what clients see.
type StoredFile struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ObjectStore is the narrow interface the core consumes for file storage.
type ObjectStore interface {
	Store(ctx context.Context, data []byte, folder, filename string) (*StoredFile, error)
	Delete(ctx context.Context, key string) error
}

// S3Store implements ObjectStore against any S3-compatible endpoint
// (AWS S3, Cloudflare R2, MinIO).
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Store creates an object store from storage configuration.
func NewS3Store(ctx context.Context, cfg *config.StorageConfig) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

// Store uploads a file buffer and returns its permanent URL and key.
func (s *S3Store) Store(ctx context.Context, data []byte, folder, filename string) (*StoredFile, error) {
	key := path.Join(folder, uuid.NewString()+"-"+sanitizeFilename(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file %s: %w", filename, err)
	}

	return &StoredFile{
		URL: fmt.Sprintf("%s/%s", s.publicURL, key),
		Key: key,
	}, nil
}

// Delete removes a previously stored file.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}
	return nil
}

// sanitizeFilename keeps object keys URL-safe.
func sanitizeFilename(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
