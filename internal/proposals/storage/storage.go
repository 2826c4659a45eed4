// Package storage keeps proposal mockup images in object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mesour/brick-offers-sub007/platform/apperr"
	"github.com/mesour/brick-offers-sub007/platform/config"
)

const presignTTL = 15 * time.Minute

// Store uploads and serves mockup objects from a MinIO bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// New creates a store and ensures the mockup bucket exists. Returns nil
// (no error) when object storage is not configured.
func New(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, nil
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	bucket := cfg.GetMinioBucketMockups()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &Store{client: client, bucket: bucket}, nil
}

// ObjectName builds the canonical object key for a proposal mockup.
func ObjectName(tenantID, proposalID uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%s%s", tenantID, proposalID, ext)
}

// Upload stores a mockup object and returns its key.
func (s *Store) Upload(ctx context.Context, objectName, contentType string, r io.Reader, size int64) (string, error) {
	if s == nil {
		return "", apperr.New(apperr.KindValidation, "object storage is not configured")
	}
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload mockup: %w", err)
	}
	return objectName, nil
}

// PresignedURL returns a short-lived download URL for a mockup object.
func (s *Store) PresignedURL(ctx context.Context, objectName string) (string, error) {
	if s == nil {
		return "", apperr.New(apperr.KindValidation, "object storage is not configured")
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, presignTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign mockup url: %w", err)
	}
	return u.String(), nil
}

// Delete removes a mockup object. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, objectName string) error {
	if s == nil {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete mockup: %w", err)
	}
	return nil
}
