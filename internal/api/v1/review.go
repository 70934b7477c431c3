package v1

import (
	"fmt"
	"strings"
	"time"
)

// Source identifies the review platform a review was collected from.
type Source string

const (
	SourceGoogle     Source = "google"
	SourceApple      Source = "apple"
	SourceTrustpilot Source = "trustpilot"
)

// AllSources lists every supported platform in canonical order.
var AllSources = []Source{SourceGoogle, SourceApple, SourceTrustpilot}

// Valid reports whether s is one of the supported platforms.
func (s Source) Valid() bool {
	switch s {
	case SourceGoogle, SourceApple, SourceTrustpilot:
		return true
	}
	return false
}

// ParseSource converts a user supplied platform name. An empty string is
// returned as the zero Source, meaning "all platforms".
func ParseSource(s string) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	if src == "" || src.Valid() {
		return src, nil
	}
	return "", fmt.Errorf("unknown source %q (must be google, apple or trustpilot)", s)
}

// AnonymousAuthor replaces missing author names during normalization.
const AnonymousAuthor = "Anonymous"

// Review is the normalized review record served to clients and stored in the cache.
type Review struct {
	// ID is unique per platform: "<source>_<native id>".
	ID      string  `json:"id" yaml:"id"`
	Author  string  `json:"author" yaml:"author"`
	Rating  int     `json:"rating" yaml:"rating"`
	Title   *string `json:"title,omitempty" yaml:"title,omitempty"`
	Content string  `json:"content" yaml:"content"`

	// Date is the platform reported publication time, not the fetch time.
	Date   time.Time `json:"date" yaml:"date"`
	Source Source    `json:"source" yaml:"source"`

	HelpfulCount *int    `json:"helpful_count,omitempty" yaml:"helpful_count,omitempty"`
	AppVersion   *string `json:"app_version,omitempty" yaml:"app_version,omitempty"`
}

// Validate ensures the review satisfies the stored record invariants.
func (r *Review) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating %d out of range (must be 1-5)", r.Rating)
	}
	if !r.Source.Valid() {
		return fmt.Errorf("invalid source %q", r.Source)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if r.HelpfulCount != nil && *r.HelpfulCount < 0 {
		return fmt.Errorf("helpful_count must be >= 0")
	}
	return nil
}

// RawReview is a review as a source adapter returns it, before normalization.
// Optional fields are left empty by platforms that do not report them.
type RawReview struct {
	ID           string    `json:"id"`
	Author       string    `json:"author"`
	Rating       int       `json:"rating"`
	Title        *string   `json:"title,omitempty"`
	Content      string    `json:"content"`
	Date         time.Time `json:"date"`
	HelpfulCount *int      `json:"helpful_count,omitempty"`
	AppVersion   *string   `json:"app_version,omitempty"`
}

// AggregateStats summarizes one review set. Counts always add up to TotalReviews.
type AggregateStats struct {
	TotalReviews       int         `json:"total_reviews" yaml:"total_reviews"`
	AverageRating      float64     `json:"average_rating" yaml:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution" yaml:"rating_distribution"`

	GoogleCount     int `json:"google_count" yaml:"google_count"`
	AppleCount      int `json:"apple_count" yaml:"apple_count"`
	TrustpilotCount int `json:"trustpilot_count" yaml:"trustpilot_count"`

	// PositiveReviews counts ratings >= 4, NegativeReviews counts ratings <= 2.
	PositiveReviews int `json:"positive_reviews" yaml:"positive_reviews"`
	NegativeReviews int `json:"negative_reviews" yaml:"negative_reviews"`
}

// EmptyDistribution returns a distribution with every rating bucket present and zeroed.
func EmptyDistribution() map[int]int {
	return map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}

// Provenance tells callers where a result came from.
type Provenance string

const (
	ProvenanceCached Provenance = "cached"
	ProvenanceFresh  Provenance = "fresh"
)
