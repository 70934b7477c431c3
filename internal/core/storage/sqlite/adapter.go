package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/reviewlens/reviewlens/internal/core/storage"
	_ "modernc.org/sqlite" // Register sqlite driver
)

const (
	connectPingTimeout = 5 * time.Second
	memoryPath         = ":memory:"
)

var requiredTables = []string{"reviews", "cache_metadata", "cache_entry_reviews"}

// Adapter implements storage.ReviewStore on an embedded SQLite database.
type Adapter struct {
	db    *sql.DB
	nowFn func() time.Time
}

// Open opens (or creates) the SQLite database at path.
// ":memory:" gives a private in-memory database, pinned to a single connection
// since every SQLite connection would otherwise see its own empty database.
//
// Schema must be applied separately via migrations.RunMigrations.
func Open(path string, maxOpenConns int) (*Adapter, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := memoryPath
	if path != memoryPath {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	} else {
		maxOpenConns = 1
	}
	if maxOpenConns <= 0 {
		maxOpenConns = 1
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)
	if path == memoryPath {
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), connectPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	slog.Info("[SQLite] Store opened",
		"path", path,
		"max_open_conns", maxOpenConns)

	return NewAdapter(db), nil
}

// NewAdapter wraps an already opened database handle.
func NewAdapter(db *sql.DB) *Adapter {
	return &Adapter{
		db: db,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ValidateSchema checks that the cache tables exist.
// Returns an error if any table is missing (migrations not run).
func (a *Adapter) ValidateSchema(ctx context.Context) error {
	for _, table := range requiredTables {
		var count int
		if err := a.db.QueryRowContext(ctx, queryTableExists, table).Scan(&count); err != nil {
			return fmt.Errorf("failed to check schema: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("%s table does not exist", table)
		}
	}
	return nil
}

// UpsertReviews inserts or replaces review rows in one transaction.
func (a *Adapter) UpsertReviews(ctx context.Context, batch []v1.Review) error {
	if err := ctx.Err(); err != nil {
		return storeErr("upsert reviews", err)
	}
	if len(batch) == 0 {
		return nil
	}
	if err := validateReviews(batch); err != nil {
		return storeErr("upsert reviews", err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("upsert reviews: begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := upsertReviewsTx(ctx, tx, batch, a.nowFn()); err != nil {
		return storeErr("upsert reviews", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("upsert reviews: commit", err)
	}
	return nil
}

// UpsertCacheMetadata inserts or replaces the metadata row for entry.Key.
func (a *Adapter) UpsertCacheMetadata(ctx context.Context, entry storage.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return storeErr("upsert cache metadata", err)
	}
	if err := validateEntry(entry); err != nil {
		return storeErr("upsert cache metadata", err)
	}

	args, err := metadataArgs(entry)
	if err != nil {
		return storeErr("upsert cache metadata", err)
	}
	if _, err := a.db.ExecContext(ctx, queryUpsertCacheMetadata, args...); err != nil {
		return storeErr("upsert cache metadata", err)
	}
	return nil
}

// SaveEntry replaces the entry for entry.Key in a single transaction. Reviews only
// the previous payload referenced are removed, and the entry gets its own copy of
// every review in the new payload. Entries stored under other keys are untouched.
func (a *Adapter) SaveEntry(ctx context.Context, entry storage.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return storeErr("save entry", err)
	}
	if err := validateEntry(entry); err != nil {
		return storeErr("save entry", err)
	}
	if err := validateReviews(entry.Reviews); err != nil {
		return storeErr("save entry", err)
	}

	args, err := metadataArgs(entry)
	if err != nil {
		return storeErr("save entry", err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("save entry: begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, querySweepEntryReviews, entry.Key, entry.Key); err != nil {
		return storeErr("save entry: sweep reviews", err)
	}
	if _, err := tx.ExecContext(ctx, queryDeleteEntryLinks, entry.Key); err != nil {
		return storeErr("save entry: clear links", err)
	}
	if _, err := tx.ExecContext(ctx, queryUpsertCacheMetadata, args...); err != nil {
		return storeErr("save entry: upsert metadata", err)
	}
	if err := upsertReviewsTx(ctx, tx, entry.Reviews, entry.CachedAt); err != nil {
		return storeErr("save entry", err)
	}
	if err := insertEntryReviewsTx(ctx, tx, entry.Key, entry.Reviews); err != nil {
		return storeErr("save entry", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("save entry: commit", err)
	}

	slog.Debug("[SQLite] Saved cache entry",
		"cache_key", entry.Key,
		"reviews", len(entry.Reviews),
		"expires_at", entry.ExpiresAt)
	return nil
}

// GetCacheMetadata returns the metadata row for key, or nil when absent.
func (a *Adapter) GetCacheMetadata(ctx context.Context, key string) (*storage.CacheEntry, error) {
	entry, err := scanCacheMetadataRow(a.db.QueryRowContext(ctx, querySelectCacheMetadata, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get cache metadata", err)
	}
	return entry, nil
}

// GetReviewsForKey returns the reviews stored with key, newest first.
func (a *Adapter) GetReviewsForKey(ctx context.Context, key string, hours int, source v1.Source) ([]v1.Review, error) {
	reviews, err := selectReviewsForKey(ctx, a.db, key, hours, source)
	if err != nil {
		return nil, storeErr("get reviews for key", err)
	}
	return reviews, nil
}

// GetEntry reads metadata and payload inside one transaction so a concurrent
// SaveEntry for the same key is never observed half-applied.
func (a *Adapter) GetEntry(ctx context.Context, key string) (*storage.CacheEntry, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("get entry: begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	entry, err := scanCacheMetadataRow(tx.QueryRowContext(ctx, querySelectCacheMetadata, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get entry: metadata", err)
	}

	reviews, err := selectReviewsForKey(ctx, tx, key, entry.Hours, entry.Source)
	if err != nil {
		return nil, storeErr("get entry: reviews", err)
	}
	entry.Reviews = reviews

	if err := tx.Commit(); err != nil {
		return nil, storeErr("get entry: commit", err)
	}
	return entry, nil
}

// DeleteCacheEntry removes the entry for key and any reviews only it referenced.
func (a *Adapter) DeleteCacheEntry(ctx context.Context, key string) (bool, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storeErr("delete entry: begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, queryDeleteEntryLinks, key); err != nil {
		return false, storeErr("delete entry: links", err)
	}
	removed, err := execRowsAffected(ctx, tx, queryDeleteCacheMetadata, key)
	if err != nil {
		return false, storeErr("delete entry: metadata", err)
	}
	if _, err := tx.ExecContext(ctx, querySweepOrphanReviews); err != nil {
		return false, storeErr("delete entry: sweep reviews", err)
	}

	if err := tx.Commit(); err != nil {
		return false, storeErr("delete entry: commit", err)
	}
	return removed > 0, nil
}

// DeleteAll clears the cache and returns the number of entries removed.
func (a *Adapter) DeleteAll(ctx context.Context) (int, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr("delete all: begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, queryDeleteAllLinks); err != nil {
		return 0, storeErr("delete all: links", err)
	}
	removed, err := execRowsAffected(ctx, tx, queryDeleteAllMetadata)
	if err != nil {
		return 0, storeErr("delete all: metadata", err)
	}
	if _, err := tx.ExecContext(ctx, queryDeleteAllReviews); err != nil {
		return 0, storeErr("delete all: reviews", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("delete all: commit", err)
	}
	return int(removed), nil
}

// DeleteExpired removes entries with expires_at <= now and sweeps orphaned reviews
// in the same transaction. Running it twice removes nothing the second time.
func (a *Adapter) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	cutoff := toMillis(now)

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr("delete expired: begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, queryDeleteExpiredLinks, cutoff); err != nil {
		return 0, storeErr("delete expired: links", err)
	}
	removed, err := execRowsAffected(ctx, tx, queryDeleteExpiredMetadata, cutoff)
	if err != nil {
		return 0, storeErr("delete expired: metadata", err)
	}
	if _, err := tx.ExecContext(ctx, querySweepOrphanReviews); err != nil {
		return 0, storeErr("delete expired: sweep reviews", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("delete expired: commit", err)
	}

	if removed > 0 {
		slog.Info("[SQLite] Removed expired cache entries", "count", removed)
	}
	return int(removed), nil
}

// Stats summarizes the store contents from one snapshot.
func (a *Adapter) Stats(ctx context.Context, now time.Time) (storage.Stats, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Stats{}, storeErr("stats: begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var (
		stats  storage.Stats
		oldest sql.NullInt64
		newest sql.NullInt64
	)
	if err := tx.QueryRowContext(ctx, queryEntryStats, toMillis(now)).Scan(
		&stats.EntryCount,
		&stats.ValidEntryCount,
		&oldest,
		&newest,
	); err != nil {
		return storage.Stats{}, storeErr("stats: entries", err)
	}
	if err := tx.QueryRowContext(ctx, queryCountReviews).Scan(&stats.TotalReviews); err != nil {
		return storage.Stats{}, storeErr("stats: reviews", err)
	}

	if err := tx.Commit(); err != nil {
		return storage.Stats{}, storeErr("stats: commit", err)
	}

	if oldest.Valid {
		t := fromMillis(oldest.Int64)
		stats.OldestCachedAt = &t
	}
	if newest.Valid {
		t := fromMillis(newest.Int64)
		stats.NewestCachedAt = &t
	}
	return stats, nil
}

// Ping verifies the database is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// DB returns the underlying *sql.DB, shared with migrations and the health check.
func (a *Adapter) DB() *sql.DB {
	return a.db
}

// Close closes the database connection.
// Should be called during graceful shutdown.
func (a *Adapter) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	slog.Info("[SQLite] Store closed")
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func selectReviewsForKey(ctx context.Context, q queryer, key string, hours int, source v1.Source) ([]v1.Review, error) {
	rows, err := q.QueryContext(ctx, querySelectReviewsForKey, key, hours, string(source), string(source))
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]v1.Review, 0)
	for rows.Next() {
		r, err := scanReviewRow(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

func upsertReviewsTx(ctx context.Context, tx *sql.Tx, reviews []v1.Review, cachedAt time.Time) error {
	if len(reviews) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, queryUpsertReview)
	if err != nil {
		return fmt.Errorf("prepare review upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reviews {
		if _, err := stmt.ExecContext(ctx, reviewArgs(r, cachedAt)...); err != nil {
			return fmt.Errorf("upsert review %s: %w", r.ID, err)
		}
	}
	return nil
}

func insertEntryReviewsTx(ctx context.Context, tx *sql.Tx, key string, reviews []v1.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, queryInsertEntryReview)
	if err != nil {
		return fmt.Errorf("prepare entry review insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reviews {
		if _, err := stmt.ExecContext(ctx, entryReviewArgs(key, r)...); err != nil {
			return fmt.Errorf("store review %s for %s: %w", r.ID, key, err)
		}
	}
	return nil
}

func execRowsAffected(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (int64, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func validateEntry(entry storage.CacheEntry) error {
	if strings.TrimSpace(entry.Key) == "" {
		return fmt.Errorf("cache key is required")
	}
	if !entry.ExpiresAt.After(entry.CachedAt) {
		return fmt.Errorf("expires_at must be after cached_at")
	}
	return nil
}

func validateReviews(reviews []v1.Review) error {
	for i := range reviews {
		if err := reviews[i].Validate(); err != nil {
			return fmt.Errorf("review %q: %w", reviews[i].ID, err)
		}
	}
	return nil
}
