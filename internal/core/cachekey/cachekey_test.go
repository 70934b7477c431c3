package cachekey

import (
	"testing"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Format(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"all sources", Query{Hours: 24}, "reviews_24h"},
		{"single source", Query{Hours: 48, Source: v1.SourceApple}, "reviews_48h_apple"},
		{
			name:  "pagination depth",
			query: Query{Hours: 24, Source: v1.SourceTrustpilot, Extra: map[string]string{"max_pages": "5"}},
			want:  "reviews_24h_trustpilot_max_pages=5",
		},
		{
			name:  "extras sorted by name",
			query: Query{Hours: 1, Extra: map[string]string{"z": "1", "a": "2", "m": "3"}},
			want:  "reviews_1h_a=2_m=3_z=1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key, err := DeriveKey(tc.query)
			require.NoError(t, err)
			require.Equal(t, tc.want, key)
		})
	}
}

func TestDeriveKey_DeterministicAcrossInsertionOrder(t *testing.T) {
	for hours := MinHours; hours <= MaxHours; hours++ {
		first := map[string]string{}
		first["max_pages"] = "10"
		first["country"] = "us"

		second := map[string]string{}
		second["country"] = "us"
		second["max_pages"] = "10"

		k1, err := DeriveKey(Query{Hours: hours, Source: v1.SourceGoogle, Extra: first})
		require.NoError(t, err)
		k2, err := DeriveKey(Query{Hours: hours, Source: v1.SourceGoogle, Extra: second})
		require.NoError(t, err)
		require.Equal(t, k1, k2)
	}
}

func TestDeriveKey_DistinctDepthsNeverConflated(t *testing.T) {
	k1, err := DeriveKey(Query{Hours: 24, Extra: map[string]string{"max_pages": "5"}})
	require.NoError(t, err)
	k2, err := DeriveKey(Query{Hours: 24, Extra: map[string]string{"max_pages": "10"}})
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)
}

func TestDeriveKey_RejectsInvalidQueries(t *testing.T) {
	tests := []struct {
		name  string
		query Query
	}{
		{"zero hours", Query{Hours: 0}},
		{"negative hours", Query{Hours: -3}},
		{"beyond one week", Query{Hours: MaxHours + 1}},
		{"unknown source", Query{Hours: 24, Source: v1.Source("yelp")}},
		{"empty extra name", Query{Hours: 24, Extra: map[string]string{" ": "1"}}},
		{"separator in value", Query{Hours: 24, Extra: map[string]string{"max_pages": "a=b"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DeriveKey(tc.query)
			require.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestPolicy_TTLIndependentOfWindow(t *testing.T) {
	p := NewPolicy(0)
	require.Equal(t, DefaultTTL, p.TTL(1))
	require.Equal(t, DefaultTTL, p.TTL(168))

	custom := NewPolicy(90 * time.Minute)
	require.Equal(t, 90*time.Minute, custom.TTL(24))
}
