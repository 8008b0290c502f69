package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage is the minimal interface avatar uploads need: save a file, delete
// it, resolve its public URL.
type Storage interface {
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	GetURL(key string) string
}

// Config selects and configures a storage backend
type Config struct {
	Backend string // "s3", "r2" or "local"

	S3Endpoint  string // custom endpoint for MinIO, empty for AWS
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	R2AccountID string
	R2PublicURL string

	LocalPath    string
	LocalBaseURL string
}

// New creates the storage backend named by cfg.Backend
func New(cfg Config) (Storage, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Storage(cfg)
	case "r2":
		return NewR2Storage(R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.S3AccessKey,
			AccessKeySecret: cfg.S3SecretKey,
			BucketName:      cfg.S3Bucket,
			PublicURL:       cfg.R2PublicURL,
		})
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
