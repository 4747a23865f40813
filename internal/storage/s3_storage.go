package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"

	"storagemarket/web/internal/config"
	"storagemarket/web/internal/logging"
)

// s3Storage implements IMediaStore on Amazon S3 or an S3-compatible endpoint.
type s3Storage struct {
	s3Client *s3.Client
	bucket   string
	region   string
	baseURL  string
}

// NewS3Storage creates a new S3 media store.
func NewS3Storage(ctx context.Context, cfg *config.Config) (IMediaStore, error) {
	opts := []func(*aws_config.LoadOptions) error{
		aws_config.WithRegion(cfg.AwsRegion),
	}
	if cfg.AwsAccessKeyID != "" {
		opts = append(opts, aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)))
	}

	awsCfg, err := aws_config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AwsS3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AwsS3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Storage{
		s3Client: s3Client,
		bucket:   cfg.MediaBucket,
		region:   cfg.AwsRegion,
		baseURL:  cfg.ImageBaseS3URL,
	}, nil
}

func (s *s3Storage) Upload(ctx context.Context, path, contentType string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.s3Client.PutObject(ctx, input); err != nil {
		return &ServiceError{
			Op:      fmt.Sprintf("failed to upload %s to bucket %s", path, s.bucket),
			Message: s3ErrorMessage(err),
			Err:     err,
		}
	}

	logging.Logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"key":    path,
		"size":   len(data),
	}).Debug("Uploaded object to S3")
	return nil
}

func (s *s3Storage) PublicURL(path string) string {
	return s3PublicURL(s.baseURL, s.bucket, s.region, path)
}

func s3PublicURL(baseURL, bucket, region, path string) string {
	if baseURL != "" {
		return strings.TrimRight(baseURL, "/") + "/" + path
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, path)
}

// s3ErrorMessage extracts the message S3 returned, if the error came from the service.
func s3ErrorMessage(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorMessage()
	}
	return ""
}
