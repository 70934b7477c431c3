package reviews

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
)

// Normalize converts a raw adapter review into the stored form. It reports false
// for reviews that cannot be stored (missing native id or a rating outside 1..5).
func Normalize(platform v1.Source, raw v1.RawReview) (v1.Review, bool) {
	nativeID := strings.TrimSpace(raw.ID)
	if nativeID == "" {
		return v1.Review{}, false
	}
	if raw.Rating < 1 || raw.Rating > 5 {
		return v1.Review{}, false
	}
	if raw.Date.IsZero() {
		return v1.Review{}, false
	}

	author := strings.TrimSpace(raw.Author)
	if author == "" {
		author = v1.AnonymousAuthor
	}

	r := v1.Review{
		ID:         qualifiedID(platform, nativeID),
		Author:     author,
		Rating:     raw.Rating,
		Title:      raw.Title,
		Content:    raw.Content,
		Date:       raw.Date.UTC(),
		Source:     platform,
		AppVersion: raw.AppVersion,
	}
	if raw.HelpfulCount != nil && *raw.HelpfulCount >= 0 {
		helpful := *raw.HelpfulCount
		r.HelpfulCount = &helpful
	}
	return r, true
}

// qualifiedID makes native ids unique across platforms: "<source>_<native id>".
func qualifiedID(platform v1.Source, nativeID string) string {
	prefix := string(platform) + "_"
	if strings.HasPrefix(nativeID, prefix) {
		return nativeID
	}
	return prefix + nativeID
}

// merge normalizes every successful batch, deduplicates by id (later batches win),
// keeps reviews dated at or after windowStart and orders them newest first.
func merge(outcomes []fetchOutcome, windowStart time.Time) []v1.Review {
	merged := make([]v1.Review, 0)
	index := make(map[string]int)
	dropped := 0

	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		for _, raw := range o.batch.Reviews {
			r, ok := Normalize(o.source, raw)
			if !ok {
				dropped++
				continue
			}
			if i, seen := index[r.ID]; seen {
				merged[i] = r
				continue
			}
			index[r.ID] = len(merged)
			merged = append(merged, r)
		}
	}

	if dropped > 0 {
		slog.Warn("[Aggregator] Dropped malformed reviews", "count", dropped)
	}

	inWindow := merged[:0]
	for _, r := range merged {
		if !r.Date.Before(windowStart) {
			inWindow = append(inWindow, r)
		}
	}

	sort.SliceStable(inWindow, func(i, j int) bool {
		if !inWindow[i].Date.Equal(inWindow[j].Date) {
			return inWindow[i].Date.After(inWindow[j].Date)
		}
		return inWindow[i].ID < inWindow[j].ID
	})
	return inWindow
}
