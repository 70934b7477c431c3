package source

import (
	"context"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
)

type fixtureReview struct {
	id      string
	author  string
	rating  int
	title   string
	content string
	age     time.Duration
	helpful int
	version string
}

var fixtureData = map[v1.Source][]fixtureReview{
	v1.SourceGoogle: {
		{"g-1001", "Marta K.", 5, "Finally consistent", "Lessons load fast and the tutor matching works.", 2 * time.Hour, 15, "5.8.1"},
		{"g-1002", "dev_null", 4, "Solid", "Occasional reconnects during calls.", 5 * time.Hour, 8, "5.8.1"},
		{"g-1003", "", 2, "", "Billing page keeps crashing.", 30 * time.Hour, 3, "5.7.9"},
	},
	v1.SourceApple: {
		{"a-2001", "Lingo Fan", 5, "Love it", "Worth every penny for speaking practice.", time.Hour, 22, "5.8.0"},
		{"a-2002", "quietreader", 3, "Okay", "Works, but the calendar UI needs love.", 4 * time.Hour, 5, "5.7.2"},
	},
	v1.SourceTrustpilot: {
		{"t-3001", "Sam R.", 4, "Helpful support", "Refund handled within a day.", 3 * time.Hour, 0, ""},
		{"t-3002", "Anon", 1, "Cancelled lesson", "Tutor did not show up twice.", 80 * time.Hour, 0, ""},
	},
}

// Fixture serves canned reviews dated relative to the current time.
// It stands in for the extraction API during local development.
type Fixture struct {
	platform v1.Source
	nowFn    func() time.Time
}

// NewFixture returns a fixture adapter for platform.
func NewFixture(platform v1.Source) *Fixture {
	return &Fixture{
		platform: platform,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// FixtureSources returns fixture adapters for every platform.
func FixtureSources() []Source {
	out := make([]Source, 0, len(v1.AllSources))
	for _, platform := range v1.AllSources {
		out = append(out, NewFixture(platform))
	}
	return out
}

func (f *Fixture) Name() v1.Source {
	return f.platform
}

// Fetch returns every canned review for the platform; older ones are left for
// the caller's window filter, the same way the real API over-fetches.
func (f *Fixture) Fetch(ctx context.Context, req FetchRequest) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, Unavailable(f.platform, err)
	}

	now := f.nowFn()
	data := fixtureData[f.platform]
	reviews := make([]v1.RawReview, 0, len(data))
	for _, d := range data {
		r := v1.RawReview{
			ID:      d.id,
			Author:  d.author,
			Rating:  d.rating,
			Content: d.content,
			Date:    now.Add(-d.age),
		}
		if d.title != "" {
			title := d.title
			r.Title = &title
		}
		if f.platform != v1.SourceTrustpilot {
			helpful := d.helpful
			version := d.version
			r.HelpfulCount = &helpful
			r.AppVersion = &version
		}
		reviews = append(reviews, r)
	}

	if req.Limit > 0 && len(reviews) > req.Limit {
		reviews = reviews[:req.Limit]
	}
	return Batch{Reviews: reviews, FetchedAt: now}, nil
}
