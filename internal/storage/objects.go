// Package storage holds the resume object store (MinIO) and the extraction cache (Redis).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ObjectStore stores and retrieves uploaded resume files
type ObjectStore interface {
	PutResume(ctx context.Context, ownerID uuid.UUID, fileName, contentType string, data []byte) (string, error)
	GetResume(ctx context.Context, key string) ([]byte, error)
}

var _ ObjectStore = (*MinIO)(nil)

// MinIOConfig holds connection settings for an S3-compatible store
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIO implements ObjectStore on an S3-compatible bucket
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO connects to the store and creates the bucket if it does not exist
func NewMinIO(ctx context.Context, cfg MinIOConfig) (*MinIO, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "resumes"
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("created object storage bucket")
	}

	return &MinIO{client: client, bucket: cfg.Bucket}, nil
}

// ResumeObjectKey builds the object key for an upload: resumes/<owner>/<uuid><ext>
func ResumeObjectKey(ownerID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("resumes/%s/%s%s", ownerID, uuid.NewString(), ext)
}

// PutResume uploads a resume file and returns its object key
func (m *MinIO) PutResume(ctx context.Context, ownerID uuid.UUID, fileName, contentType string, data []byte) (string, error) {
	key := ResumeObjectKey(ownerID, fileName)
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// GetResume downloads a resume file by object key
func (m *MinIO) GetResume(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}
