// Package storage selects the avatar object store configured for the process.
package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/contactbook-server/internal/config"
	"github.com/dtroode/contactbook-server/internal/model"
	miniostore "github.com/dtroode/contactbook-server/internal/storage/minio"
	s3store "github.com/dtroode/contactbook-server/internal/storage/s3"
)

const (
	DriverMinio = "minio"
	DriverS3    = "s3"
)

// New builds the driver named by cfg.Driver.
func New(ctx context.Context, cfg config.Storage) (model.Storage, error) {
	switch cfg.Driver {
	case DriverMinio:
		client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
			Secure: cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		return miniostore.NewClient(ctx, client, cfg.Minio.Bucket, cfg.Minio.PublicURL)
	case DriverS3:
		return s3store.NewClient(ctx, s3store.Config{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			PublicURL: cfg.S3.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
