package reviews

import (
	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/shopspring/decimal"
)

// ComputeStats aggregates a review set. The average is rounded to two decimals
// and is 0 for an empty set.
func ComputeStats(reviews []v1.Review) v1.AggregateStats {
	stats := v1.AggregateStats{
		TotalReviews:       len(reviews),
		RatingDistribution: v1.EmptyDistribution(),
	}

	sum := int64(0)
	for _, r := range reviews {
		sum += int64(r.Rating)
		stats.RatingDistribution[r.Rating]++

		switch r.Source {
		case v1.SourceGoogle:
			stats.GoogleCount++
		case v1.SourceApple:
			stats.AppleCount++
		case v1.SourceTrustpilot:
			stats.TrustpilotCount++
		}

		switch {
		case r.Rating >= 4:
			stats.PositiveReviews++
		case r.Rating <= 2:
			stats.NegativeReviews++
		}
	}

	if len(reviews) > 0 {
		avg := decimal.NewFromInt(sum).
			Div(decimal.NewFromInt(int64(len(reviews)))).
			Round(2)
		stats.AverageRating = avg.InexactFloat64()
	}

	return stats
}
