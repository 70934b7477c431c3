package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/reviewlens/reviewlens/internal/core/storage"
)

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", storage.ErrStoreUnavailable, op, err)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// reviewArgs flattens a review into queryUpsertReview arguments.
func reviewArgs(r v1.Review, cachedAt time.Time) []interface{} {
	return append(reviewColumns(r), toMillis(cachedAt))
}

// entryReviewArgs flattens a review into queryInsertEntryReview arguments.
func entryReviewArgs(key string, r v1.Review) []interface{} {
	return append([]interface{}{key}, reviewColumns(r)...)
}

// reviewColumns returns the review fields in table column order.
// Optional fields become SQL NULL rather than zero values.
func reviewColumns(r v1.Review) []interface{} {
	var (
		title      sql.NullString
		helpful    sql.NullInt64
		appVersion sql.NullString
	)
	if r.Title != nil {
		title = sql.NullString{String: *r.Title, Valid: true}
	}
	if r.HelpfulCount != nil {
		helpful = sql.NullInt64{Int64: int64(*r.HelpfulCount), Valid: true}
	}
	if r.AppVersion != nil {
		appVersion = sql.NullString{String: *r.AppVersion, Valid: true}
	}

	return []interface{}{
		r.ID,
		r.Author,
		r.Rating,
		title,
		r.Content,
		toMillis(r.Date),
		string(r.Source),
		helpful,
		appVersion,
	}
}

// scanReviewRow scans one querySelectReviewsForKey row.
func scanReviewRow(row scanner) (v1.Review, error) {
	var (
		r          v1.Review
		title      sql.NullString
		date       int64
		source     string
		helpful    sql.NullInt64
		appVersion sql.NullString
	)

	if err := row.Scan(
		&r.ID,
		&r.Author,
		&r.Rating,
		&title,
		&r.Content,
		&date,
		&source,
		&helpful,
		&appVersion,
	); err != nil {
		return v1.Review{}, fmt.Errorf("scan review row: %w", err)
	}

	r.Date = fromMillis(date)
	r.Source = v1.Source(source)
	if title.Valid {
		t := title.String
		r.Title = &t
	}
	if helpful.Valid {
		h := int(helpful.Int64)
		r.HelpfulCount = &h
	}
	if appVersion.Valid {
		v := appVersion.String
		r.AppVersion = &v
	}
	return r, nil
}

// metadataArgs flattens an entry into queryUpsertCacheMetadata arguments.
func metadataArgs(e storage.CacheEntry) ([]interface{}, error) {
	distribution := e.Stats.RatingDistribution
	if distribution == nil {
		distribution = v1.EmptyDistribution()
	}
	distributionJSON, err := json.Marshal(distribution)
	if err != nil {
		return nil, fmt.Errorf("marshal rating distribution: %w", err)
	}

	return []interface{}{
		e.Key,
		e.Hours,
		string(e.Source),
		e.Stats.TotalReviews,
		e.Stats.GoogleCount,
		e.Stats.AppleCount,
		e.Stats.TrustpilotCount,
		e.Stats.PositiveReviews,
		e.Stats.NegativeReviews,
		e.Stats.AverageRating,
		string(distributionJSON),
		e.FetchID,
		toMillis(e.FetchedAt),
		toMillis(e.CachedAt),
		toMillis(e.ExpiresAt),
	}, nil
}

// scanCacheMetadataRow scans one querySelectCacheMetadata row.
func scanCacheMetadataRow(row scanner) (*storage.CacheEntry, error) {
	var (
		e                storage.CacheEntry
		source           string
		distributionJSON string
		fetchedAt        int64
		cachedAt         int64
		expiresAt        int64
	)

	if err := row.Scan(
		&e.Key,
		&e.Hours,
		&source,
		&e.Stats.TotalReviews,
		&e.Stats.GoogleCount,
		&e.Stats.AppleCount,
		&e.Stats.TrustpilotCount,
		&e.Stats.PositiveReviews,
		&e.Stats.NegativeReviews,
		&e.Stats.AverageRating,
		&distributionJSON,
		&e.FetchID,
		&fetchedAt,
		&cachedAt,
		&expiresAt,
	); err != nil {
		return nil, err
	}

	e.Source = v1.Source(source)
	e.FetchedAt = fromMillis(fetchedAt)
	e.CachedAt = fromMillis(cachedAt)
	e.ExpiresAt = fromMillis(expiresAt)

	e.Stats.RatingDistribution = v1.EmptyDistribution()
	if err := json.Unmarshal([]byte(distributionJSON), &e.Stats.RatingDistribution); err != nil {
		return nil, fmt.Errorf("unmarshal rating distribution: %w", err)
	}

	return &e, nil
}
