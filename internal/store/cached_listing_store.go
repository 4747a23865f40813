package store

import (
	"context"

	"github.com/sirupsen/logrus"

	"storagemarket/web/internal/logging"
	"storagemarket/web/internal/models"
)

// SnapshotCache holds a copy of the available-listings snapshot together with a
// generation counter that Invalidate advances.
type SnapshotCache interface {
	// Get returns the cached snapshot and whether one was present.
	Get(ctx context.Context) ([]models.Listing, bool, error)
	// Generation returns the current generation.
	Generation(ctx context.Context) (int64, error)
	// Set stores listings only while the generation is still generation.
	// It reports false when an invalidation happened in between.
	Set(ctx context.Context, generation int64, listings []models.Listing) (bool, error)
	// Invalidate drops the snapshot and advances the generation.
	Invalidate(ctx context.Context) error
}

// cachedListingStore serves ListAvailable from a SnapshotCache and drops the
// cached snapshot after every successful insert.
type cachedListingStore struct {
	next  IListingStore
	cache SnapshotCache
}

// NewCachedListingStore wraps next with a snapshot cache.
func NewCachedListingStore(next IListingStore, cache SnapshotCache) IListingStore {
	return &cachedListingStore{next: next, cache: cache}
}

// ListAvailable serves the cached snapshot when present. On a miss the generation is read before
// the store query, so a fill computed before a concurrent Insert is discarded instead of cached.
func (s *cachedListingStore) ListAvailable(ctx context.Context) ([]models.Listing, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		logging.Logger.WithError(err).Warn("Snapshot cache read failed, querying store")
	} else if ok {
		return cached, nil
	}

	generation, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		logging.Logger.WithError(genErr).Warn("Snapshot cache generation read failed, skipping fill")
	}

	listings, err := s.next.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return listings, nil
	}

	stored, err := s.cache.Set(ctx, generation, listings)
	if err != nil {
		logging.Logger.WithError(err).Warn("Snapshot cache write failed")
	} else if !stored {
		logging.Logger.WithField("generation", generation).Debug("Snapshot superseded by an insert, not cached")
	}
	return listings, nil
}

func (s *cachedListingStore) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	return s.next.FindByID(ctx, id)
}

func (s *cachedListingStore) Insert(ctx context.Context, draft models.ListingDraft) (*models.Listing, error) {
	listing, err := s.next.Insert(ctx, draft)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logging.Logger.WithFields(logrus.Fields{
			"listing_id": listing.ID,
			"error":      err,
		}).Error("Snapshot cache invalidation failed; browse results may be stale until the TTL expires")
	}
	return listing, nil
}
