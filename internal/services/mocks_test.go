package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storagemarket/web/internal/models"
)

// MockListingStore
type MockListingStore struct {
	mock.Mock
}

func (m *MockListingStore) ListAvailable(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingStore) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingStore) Insert(ctx context.Context, draft models.ListingDraft) (*models.Listing, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

// MockMediaStore
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, path, contentType string, data []byte) error {
	args := m.Called(ctx, path, contentType, data)
	return args.Error(0)
}

func (m *MockMediaStore) PublicURL(path string) string {
	args := m.Called(path)
	return args.String(0)
}

// MockListingNotifier
type MockListingNotifier struct {
	mock.Mock
}

func (m *MockListingNotifier) ListingCreated(ctx context.Context, listing models.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
