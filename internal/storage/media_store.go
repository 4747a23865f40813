package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// IMediaStore is the hosted object store holding uploaded unit images.
type IMediaStore interface {
	// Upload stores data under path in the configured bucket.
	Upload(ctx context.Context, path, contentType string, data []byte) error
	// PublicURL returns the publicly reachable URL for an uploaded path.
	PublicURL(path string) string
}

// ServiceError wraps a media store failure together with the message reported by the backend.
type ServiceError struct {
	Op      string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ServiceMessage returns the backend's own error text, possibly empty.
func (e *ServiceError) ServiceMessage() string {
	return e.Message
}

// NewObjectPath builds "<prefix>/<uuid><ext>" keeping the original file extension.
func NewObjectPath(prefix, originalName string) string {
	return path.Join(prefix, uuid.NewString()+filepath.Ext(originalName))
}
