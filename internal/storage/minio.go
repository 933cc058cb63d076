// Package storage wraps the external image store behind a bytes-in, URL-out
// contract. The rest of the application never sees object storage details.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"pictora/internal/config"
	"pictora/internal/middleware"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageStore stores image bytes and returns a stable public URL. Delete
// takes the URL Upload returned.
type ImageStore interface {
	Upload(ctx context.Context, fileName string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
}

// MinioStore implements ImageStore on a MinIO (or S3-compatible) bucket.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to the object store and ensures the bucket exists.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := &MinioStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimSuffix(cfg.MinioPublicURL, "/"),
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", s.bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", s.bucket, err)
		}
		middleware.Logger.Info("Created image bucket", "bucket", s.bucket)
	}

	return s, nil
}

// Upload stores the image bytes under a generated object name and returns the
// public URL.
func (s *MinioStore) Upload(ctx context.Context, fileName string, r io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("posts/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		middleware.ImageUploads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	middleware.ImageUploads.WithLabelValues("ok").Inc()
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
}

// Delete removes an uploaded object, addressed by the public URL Upload
// returned. Used to clean up when a post fails to persist after its images
// were stored.
func (s *MinioStore) Delete(ctx context.Context, url string) error {
	prefix := fmt.Sprintf("%s/%s/", s.publicURL, s.bucket)
	objectName := strings.TrimPrefix(url, prefix)
	if objectName == url {
		return fmt.Errorf("url %q does not belong to bucket %q", url, s.bucket)
	}
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
