package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/reviewlens/reviewlens/internal/core/cachekey"
	"github.com/reviewlens/reviewlens/internal/core/storage"
	"github.com/reviewlens/reviewlens/internal/core/storage/sqlite"
	"github.com/reviewlens/reviewlens/internal/migrations"
	storagemocks "github.com/reviewlens/reviewlens/internal/mocks/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func newSQLiteService(t *testing.T) *Service {
	t.Helper()

	store, err := sqlite.Open(":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, migrations.RunMigrations(store.DB(), true))

	svc := NewService(store, cachekey.NewPolicy(cachekey.DefaultTTL))
	svc.nowFn = func() time.Time { return fixedNow }
	return svc
}

func samplePayload() Payload {
	return Payload{
		Hours: 24,
		Reviews: []v1.Review{
			{ID: "google_a", Author: "Ann", Rating: 5, Content: "love it", Date: fixedNow.Add(-time.Hour), Source: v1.SourceGoogle},
			{ID: "apple_b", Author: "Bo", Rating: 2, Content: "crashes", Date: fixedNow.Add(-2 * time.Hour), Source: v1.SourceApple},
		},
		Stats: v1.AggregateStats{
			TotalReviews:       2,
			AverageRating:      3.5,
			RatingDistribution: map[int]int{1: 0, 2: 1, 3: 0, 4: 0, 5: 1},
			GoogleCount:        1,
			AppleCount:         1,
			PositiveReviews:    1,
			NegativeReviews:    1,
		},
		FetchID:   "run-1",
		FetchedAt: fixedNow.Add(-time.Second),
	}
}

func TestService_PutThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)
	p := samplePayload()

	require.True(t, svc.Put(ctx, "reviews_24h", p))

	entry, ok := svc.Get(ctx, "reviews_24h")
	require.True(t, ok)
	require.Equal(t, p.Reviews, entry.Reviews)
	require.Equal(t, p.Stats, entry.Stats)
	require.Equal(t, "run-1", entry.FetchID)
	require.True(t, fixedNow.Equal(entry.CachedAt))
	require.True(t, fixedNow.Add(cachekey.DefaultTTL).Equal(entry.ExpiresAt))
}

func TestService_ExpiryBoundaryIsMissButNotDeleted(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	require.True(t, svc.Put(ctx, "reviews_24h", samplePayload()))

	svc.nowFn = func() time.Time { return fixedNow.Add(cachekey.DefaultTTL - time.Millisecond) }
	_, ok := svc.Get(ctx, "reviews_24h")
	require.True(t, ok, "entry is valid until the last millisecond before expiry")

	svc.nowFn = func() time.Time { return fixedNow.Add(cachekey.DefaultTTL) }
	entry, ok := svc.Get(ctx, "reviews_24h")
	require.False(t, ok)
	require.Nil(t, entry)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.EntryCount, "expired entries stay until cleanup")
	require.Zero(t, stats.ValidEntryCount)

	stale, ok := svc.GetStale(ctx, "reviews_24h", 0)
	require.True(t, ok)
	require.Len(t, stale.Reviews, 2)
}

func TestService_GetStaleRespectsMaxAge(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	require.True(t, svc.Put(ctx, "reviews_24h", samplePayload()))
	svc.nowFn = func() time.Time { return fixedNow.Add(72 * time.Hour) }

	_, ok := svc.GetStale(ctx, "reviews_24h", 48*time.Hour)
	require.False(t, ok)

	_, ok = svc.GetStale(ctx, "reviews_24h", 96*time.Hour)
	require.True(t, ok)

	_, ok = svc.GetStale(ctx, "reviews_12h", 0)
	require.False(t, ok)
}

func TestService_CleanupIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	for hours := 1; hours <= 3; hours++ {
		p := samplePayload()
		p.Hours = hours
		require.True(t, svc.Put(ctx, fmt.Sprintf("reviews_%dh", hours), p))
	}

	svc.nowFn = func() time.Time { return fixedNow.Add(cachekey.DefaultTTL) }

	removed, err := svc.Cleanup(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, removed)

	removed, err = svc.Cleanup(ctx)
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestService_InvalidateAndInvalidateAll(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)

	require.True(t, svc.Put(ctx, "reviews_24h", samplePayload()))
	require.True(t, svc.Put(ctx, "reviews_24h_google", samplePayload()))
	require.True(t, svc.Put(ctx, "reviews_24h_apple", samplePayload()))

	existed, err := svc.Invalidate(ctx, "reviews_24h")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = svc.Invalidate(ctx, "reviews_24h")
	require.NoError(t, err)
	require.False(t, existed)

	removed, err := svc.InvalidateAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	_, ok := svc.Get(ctx, "reviews_24h_google")
	require.False(t, ok)
}

func TestService_PutStampsCachedAtAndExpiry(t *testing.T) {
	store := storagemocks.NewReviewStore(t)
	svc := NewService(store, cachekey.NewPolicy(6*time.Hour))
	svc.nowFn = func() time.Time { return fixedNow }

	var saved storage.CacheEntry
	store.EXPECT().
		SaveEntry(mock.Anything, mock.AnythingOfType("storage.CacheEntry")).
		Run(func(_ context.Context, entry storage.CacheEntry) { saved = entry }).
		Return(nil).
		Once()

	p := samplePayload()
	p.Source = v1.SourceApple
	require.True(t, svc.Put(context.Background(), "reviews_24h_apple", p))

	require.Equal(t, "reviews_24h_apple", saved.Key)
	require.Equal(t, v1.SourceApple, saved.Source)
	require.Equal(t, fixedNow, saved.CachedAt)
	require.Equal(t, fixedNow.Add(6*time.Hour), saved.ExpiresAt)
	require.Equal(t, p.FetchedAt, saved.FetchedAt)
}

func TestService_StoreFailuresOnRequestPathAreAbsorbed(t *testing.T) {
	ctx := context.Background()
	store := storagemocks.NewReviewStore(t)
	svc := NewService(store, cachekey.NewPolicy(0))

	storeDown := fmt.Errorf("%w: disk full", storage.ErrStoreUnavailable)
	store.EXPECT().GetEntry(mock.Anything, "reviews_24h").Return(nil, storeDown).Twice()
	store.EXPECT().SaveEntry(mock.Anything, mock.Anything).Return(storeDown).Once()

	entry, ok := svc.Get(ctx, "reviews_24h")
	require.False(t, ok)
	require.Nil(t, entry)

	_, ok = svc.GetStale(ctx, "reviews_24h", 0)
	require.False(t, ok)

	require.False(t, svc.Put(ctx, "reviews_24h", samplePayload()))
}

func TestService_AdminOperationsSurfaceStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := storagemocks.NewReviewStore(t)
	svc := NewService(store, cachekey.NewPolicy(0))

	storeDown := fmt.Errorf("%w: database is locked", storage.ErrStoreUnavailable)
	store.EXPECT().DeleteExpired(mock.Anything, mock.Anything).Return(0, storeDown).Once()
	store.EXPECT().Stats(mock.Anything, mock.Anything).Return(storage.Stats{}, storeDown).Once()

	_, err := svc.Cleanup(ctx)
	require.True(t, errors.Is(err, storage.ErrStoreUnavailable))

	_, err = svc.Statistics(ctx)
	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
}
