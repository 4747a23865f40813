package store

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

// MockSnapshotCache
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Get(ctx context.Context) ([]models.Listing, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Listing), args.Bool(1), args.Error(2)
}

func (m *MockSnapshotCache) Generation(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSnapshotCache) Set(ctx context.Context, generation int64, listings []models.Listing) (bool, error) {
	args := m.Called(ctx, generation, listings)
	return args.Bool(0), args.Error(1)
}

func (m *MockSnapshotCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
