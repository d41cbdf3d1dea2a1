package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	apperrors "recorder-whisper/internal/app/errors"
	"recorder-whisper/internal/config"
)

// RecordingPrefix is the object key prefix of stored recordings.
const RecordingPrefix = "recordings/"

// MinioRecordingStore keeps recordings in an S3-compatible bucket and hands
// out presigned GET URLs.
type MinioRecordingStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinioClient builds a client for cfg. Setting the region avoids a
// bucket-location round trip before presigning.
func NewMinioClient(cfg config.MinioConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: "us-east-1",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return client, nil
}

// NewMinioRecordingStore wraps client.
func NewMinioRecordingStore(client *minio.Client, bucket string, expiry time.Duration) *MinioRecordingStore {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &MinioRecordingStore{client: client, bucket: bucket, expiry: expiry}
}

// EnsureBucket creates the bucket when it does not exist.
func (s *MinioRecordingStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Save uploads r and presigns a GET URL for it.
func (s *MinioRecordingStore) Save(ctx context.Context, r io.Reader, size int64, contentType string) (*Recording, error) {
	id := newRecordingID(contentType)
	key := RecordingPrefix + id

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentTypeForID(id),
		UserMetadata: map[string]string{
			"uploaded-at": time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload recording to MinIO: %w", err)
	}

	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &Recording{
		ID:          id,
		URL:         presignedURL.String(),
		ContentType: contentTypeForID(id),
		Size:        info.Size,
		CreatedAt:   time.Now(),
	}, nil
}

// Open streams the object back.
func (s *MinioRecordingStore) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	if err := validateID(id); err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrFileNotFound, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, RecordingPrefix+id, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get recording: %w", err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", apperrors.ErrFileNotFound
		}
		return nil, "", fmt.Errorf("failed to stat recording: %w", err)
	}
	return obj, contentTypeForID(id), nil
}
