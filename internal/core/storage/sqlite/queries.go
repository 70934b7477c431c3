package sqlite

// SQL statements for the review cache. Timestamps are stored as Unix milliseconds (UTC).

const (
	// queryUpsertReview inserts a review or overwrites the existing row with the same id.
	// Cached payloads keep their own copies in cache_entry_reviews, so this row
	// only tracks the latest known version of the review.
	queryUpsertReview = `
		INSERT INTO reviews (
			id, author, rating, title, content, review_date,
			source, helpful_count, app_version, cached_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			author        = excluded.author,
			rating        = excluded.rating,
			title         = excluded.title,
			content       = excluded.content,
			review_date   = excluded.review_date,
			source        = excluded.source,
			helpful_count = excluded.helpful_count,
			app_version   = excluded.app_version,
			cached_at     = excluded.cached_at
	`

	queryUpsertCacheMetadata = `
		INSERT INTO cache_metadata (
			cache_key, hours, source_filter,
			total_count, google_count, apple_count, trustpilot_count,
			positive_count, negative_count, avg_rating, rating_distribution,
			fetch_id, fetched_at, cached_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			hours               = excluded.hours,
			source_filter       = excluded.source_filter,
			total_count         = excluded.total_count,
			google_count        = excluded.google_count,
			apple_count         = excluded.apple_count,
			trustpilot_count    = excluded.trustpilot_count,
			positive_count      = excluded.positive_count,
			negative_count      = excluded.negative_count,
			avg_rating          = excluded.avg_rating,
			rating_distribution = excluded.rating_distribution,
			fetch_id            = excluded.fetch_id,
			fetched_at          = excluded.fetched_at,
			cached_at           = excluded.cached_at,
			expires_at          = excluded.expires_at
	`

	queryDeleteEntryLinks = `DELETE FROM cache_entry_reviews WHERE cache_key = ?`

	// queryInsertEntryReview stores the entry's own copy of a review. Later writes
	// to the shared reviews row never reach it.
	queryInsertEntryReview = `
		INSERT INTO cache_entry_reviews (
			cache_key, review_id, author, rating, title, content,
			review_date, source, helpful_count, app_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (cache_key, review_id) DO UPDATE SET
			author        = excluded.author,
			rating        = excluded.rating,
			title         = excluded.title,
			content       = excluded.content,
			review_date   = excluded.review_date,
			source        = excluded.source,
			helpful_count = excluded.helpful_count,
			app_version   = excluded.app_version
	`

	// querySweepEntryReviews drops reviews referenced by key and by no other entry.
	// It runs before the entry's links are replaced; reviews the new payload still
	// carries are written back by queryUpsertReview.
	querySweepEntryReviews = `
		DELETE FROM reviews
		WHERE id IN (SELECT review_id FROM cache_entry_reviews WHERE cache_key = ?)
		  AND NOT EXISTS (
			SELECT 1 FROM cache_entry_reviews l
			WHERE l.review_id = reviews.id AND l.cache_key <> ?
		  )
	`

	querySelectCacheMetadata = `
		SELECT
			cache_key, hours, source_filter,
			total_count, google_count, apple_count, trustpilot_count,
			positive_count, negative_count, avg_rating, rating_distribution,
			fetch_id, fetched_at, cached_at, expires_at
		FROM cache_metadata
		WHERE cache_key = ?
	`

	// querySelectReviewsForKey reads an entry's payload from its own review copies.
	// The source filter argument is passed twice; '' disables it.
	querySelectReviewsForKey = `
		SELECT
			l.review_id, l.author, l.rating, l.title, l.content, l.review_date,
			l.source, l.helpful_count, l.app_version
		FROM cache_entry_reviews l
		JOIN cache_metadata m ON m.cache_key = l.cache_key
		WHERE l.cache_key = ?
		  AND m.hours = ?
		  AND (? = '' OR l.source = ?)
		ORDER BY l.review_date DESC, l.review_id ASC
	`

	queryDeleteCacheMetadata = `DELETE FROM cache_metadata WHERE cache_key = ?`

	queryDeleteExpiredLinks = `
		DELETE FROM cache_entry_reviews
		WHERE cache_key IN (SELECT cache_key FROM cache_metadata WHERE expires_at <= ?)
	`

	queryDeleteExpiredMetadata = `DELETE FROM cache_metadata WHERE expires_at <= ?`

	// querySweepOrphanReviews drops reviews no cache entry refers to anymore.
	querySweepOrphanReviews = `
		DELETE FROM reviews
		WHERE NOT EXISTS (
			SELECT 1 FROM cache_entry_reviews l WHERE l.review_id = reviews.id
		)
	`

	queryDeleteAllLinks    = `DELETE FROM cache_entry_reviews`
	queryDeleteAllMetadata = `DELETE FROM cache_metadata`
	queryDeleteAllReviews  = `DELETE FROM reviews`

	queryEntryStats = `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN expires_at > ? THEN 1 ELSE 0 END), 0),
			MIN(cached_at),
			MAX(cached_at)
		FROM cache_metadata
	`

	queryCountReviews = `SELECT COUNT(*) FROM reviews`

	queryTableExists = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
)
