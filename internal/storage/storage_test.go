package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storagemarket/web/internal/config"
)

func TestNewObjectPath(t *testing.T) {
	uuidPattern := `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

	tests := []struct {
		name     string
		prefix   string
		filename string
		pattern  string
	}{
		{"keeps extension", "unit-images", "garage.jpg", `^unit-images/` + uuidPattern + `\.jpg$`},
		{"last extension only", "unit-images", "photo.final.PNG", `^unit-images/` + uuidPattern + `\.PNG$`},
		{"no extension", "unit-images", "README", `^unit-images/` + uuidPattern + `$`},
		{"empty prefix", "", "a.webp", `^` + uuidPattern + `\.webp$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewObjectPath(tt.prefix, tt.filename)
			assert.Regexp(t, regexp.MustCompile(tt.pattern), got)
		})
	}

	assert.NotEqual(t, NewObjectPath("p", "a.jpg"), NewObjectPath("p", "a.jpg"))
}

func TestServiceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("upload: %w", &ServiceError{Op: "failed to upload x", Message: "Bucket not found", Err: cause})

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "Bucket not found", svcErr.ServiceMessage())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to upload x: connection reset", svcErr.Error())
}

func TestS3PublicURL(t *testing.T) {
	assert.Equal(t,
		"https://unit-images.s3.us-east-1.amazonaws.com/unit-images/a.jpg",
		s3PublicURL("", "unit-images", "us-east-1", "unit-images/a.jpg"))
	assert.Equal(t,
		"https://cdn.example.com/unit-images/a.jpg",
		s3PublicURL("https://cdn.example.com/", "unit-images", "us-east-1", "unit-images/a.jpg"))
}

func TestS3ErrorMessage(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}
	assert.Equal(t, "The specified bucket does not exist", s3ErrorMessage(fmt.Errorf("put: %w", apiErr)))
	assert.Equal(t, "", s3ErrorMessage(errors.New("dial tcp: timeout")))
}

func TestMinIOStorage_PublicURL(t *testing.T) {
	s, err := NewMinIOStorage(&config.Config{
		MinIOEndpoint:  "localhost:9000",
		MinIOAccessKey: "minioadmin",
		MinIOSecretKey: "minioadmin",
		MediaBucket:    "unit-images",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/unit-images/unit-images/a.jpg", s.PublicURL("unit-images/a.jpg"))
}

// Runs against a live MinIO when MINIO_TEST_ENDPOINT is set.
func TestMinIOStorage_Upload(t *testing.T) {
	endpoint := os.Getenv("MINIO_TEST_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_TEST_ENDPOINT not set; skipping MinIO-backed test")
	}
	s, err := NewMinIOStorage(&config.Config{
		MinIOEndpoint:  endpoint,
		MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MediaBucket:    "unit-images-test",
	})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.EnsureBucket(ctx))
	require.NoError(t, s.EnsureBucket(ctx))

	path := NewObjectPath("unit-images", "test.txt")
	require.NoError(t, s.Upload(ctx, path, "text/plain", []byte("hello")))
	assert.True(t, strings.HasSuffix(s.PublicURL(path), path))
}
