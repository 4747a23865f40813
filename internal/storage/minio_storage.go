package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"storagemarket/web/internal/config"
	"storagemarket/web/internal/logging"
)

// MinIOStorage implements IMediaStore on a MinIO server.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates a MinIO media store. No request is made until EnsureBucket or Upload.
func NewMinIOStorage(cfg *config.Config) (*MinIOStorage, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.MinIOEndpoint, err)
	}
	return &MinIOStorage{client: client, bucket: cfg.MediaBucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinIOStorage) EnsureBucket(ctx context.Context) error {
	err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err == nil {
		logging.Logger.WithField("bucket", s.bucket).Info("Created MinIO bucket")
		return nil
	}
	exists, errBucketExists := s.client.BucketExists(ctx, s.bucket)
	if errBucketExists == nil && exists {
		return nil
	}
	return fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", s.bucket, err, errBucketExists)
}

func (s *MinIOStorage) Upload(ctx context.Context, path, contentType string, data []byte) error {
	info, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return &ServiceError{
			Op:      fmt.Sprintf("failed to upload %s to bucket %s", path, s.bucket),
			Message: minio.ToErrorResponse(err).Message,
			Err:     err,
		}
	}

	logging.Logger.WithFields(logrus.Fields{
		"bucket": info.Bucket,
		"key":    info.Key,
		"etag":   info.ETag,
		"size":   info.Size,
	}).Debug("Uploaded object to MinIO")
	return nil
}

func (s *MinIOStorage) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, path)
}
