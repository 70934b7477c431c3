package cachekey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
)

const (
	// MinHours and MaxHours bound the look-back window; the upstream extractor
	// refuses anything beyond one week.
	MinHours = 1
	MaxHours = 168

	// DefaultHours is the window used when a caller does not pick one.
	DefaultHours = 24

	// DefaultTTL applies regardless of the requested window. The window decides
	// which reviews qualify, not how fast they go stale.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "reviews"
)

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid review query")

// Query is one logical review request shape. Two queries that derive the same
// key must be answerable by the same cached payload.
type Query struct {
	Hours  int
	Source v1.Source // empty means every source

	// Extra holds additional dimensions such as pagination depth.
	Extra map[string]string
}

// Validate checks the query against the upstream limits.
func (q Query) Validate() error {
	if q.Hours < MinHours || q.Hours > MaxHours {
		return invalidQueryf("hours must be between %d and %d, got %d", MinHours, MaxHours, q.Hours)
	}
	if q.Source != "" && !q.Source.Valid() {
		return invalidQueryf("unknown source %q", q.Source)
	}
	for name, value := range q.Extra {
		if strings.TrimSpace(name) == "" {
			return invalidQueryf("extra dimension name must not be empty")
		}
		if strings.ContainsAny(name, "=") || strings.ContainsAny(value, "=") {
			return invalidQueryf("extra dimension %q must not contain '='", name)
		}
	}
	return nil
}

// DeriveKey maps a query to its cache key:
//
//	reviews_{hours}h[_{source}][_{name}={value}...]
//
// Extra dimensions are appended sorted by name so call-site ordering never
// changes the key.
func DeriveKey(q Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s_%dh", keyPrefix, q.Hours)
	if q.Source != "" {
		b.WriteByte('_')
		b.WriteString(string(q.Source))
	}

	names := make([]string, 0, len(q.Extra))
	for name := range q.Extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "_%s=%s", name, q.Extra[name])
	}

	return b.String(), nil
}

// Policy couples key derivation with the expiry rule.
type Policy struct {
	ttl time.Duration
}

// NewPolicy returns a policy with the given TTL; non-positive values fall back to DefaultTTL.
func NewPolicy(ttl time.Duration) Policy {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Policy{ttl: ttl}
}

// Key is DeriveKey bound to the policy.
func (p Policy) Key(q Query) (string, error) {
	return DeriveKey(q)
}

// TTL returns how long an entry for the given window stays valid.
// It is deliberately independent of hours.
func (p Policy) TTL(hours int) time.Duration {
	if p.ttl <= 0 {
		return DefaultTTL
	}
	return p.ttl
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
