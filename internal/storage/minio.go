package storage

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"ripple/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioUploader stores images in a MinIO (or any S3-compatible) bucket.
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioUploader connects to MinIO and ensures the bucket exists.
func NewMinioUploader(ctx context.Context, cfg *config.Config) (*MinioUploader, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioUploader{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimSuffix(cfg.MinioPublicURL, "/"),
	}, nil
}

// Upload stores each file under a date-bucketed object name and returns the
// public URLs in input order.
func (u *MinioUploader) Upload(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))
	now := time.Now()

	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext == "" {
			ext = ".jpg"
		}
		contentType := f.ContentType
		if contentType == "" {
			contentType = mime.TypeByExtension(ext)
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		objectName := fmt.Sprintf("images/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)

		_, err := u.client.PutObject(ctx, u.bucket, objectName, f.Reader, f.Size,
			minio.PutObjectOptions{
				ContentType: contentType,
				UserMetadata: map[string]string{
					"original-filename": f.Name,
					"uploaded-at":       now.Format(time.RFC3339),
				},
			})
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", f.Name, err)
		}

		urls = append(urls, fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, objectName))
	}

	return urls, nil
}
