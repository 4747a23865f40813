package db

import (
	"context"
	"fmt"
	"time"

	"storagemarket/web/internal/logging"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// verifyConnection pings a freshly opened backend and closes it again when the ping fails.
func verifyConnection(backend string, ping func(ctx context.Context) error, closeFn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		_ = closeFn()
		return fmt.Errorf("failed to ping %s: %w", backend, err)
	}
	logging.Logger.WithField("backend", backend).Info("Database connection verified")
	return nil
}

// closeConnection closes a backend handle and logs the result.
func closeConnection(backend string, closeFn func() error) error {
	if err := closeFn(); err != nil {
		return fmt.Errorf("failed to close %s connection: %w", backend, err)
	}
	logging.Logger.WithField("backend", backend).Info("Database connection closed")
	return nil
}
