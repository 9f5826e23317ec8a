package deal

import (
	"context"
	"time"
)

// OfferRepository owns the offer catalog. Upsert is keyed by OfferKey so
// re-running a scan never duplicates an itinerary.
type OfferRepository interface {
	GetByID(ctx context.Context, id string) (Offer, error)
	Upsert(ctx context.Context, offer Offer) (Offer, error)

	// ListComparables returns offers sharing origin, destination, cabin
	// and stops category, with depart and return dates within +/-2 days
	// of the subject. The subject itself is excluded.
	ListComparables(ctx context.Context, subject Offer) ([]Offer, error)

	// ListStale returns ids of offers whose metrics are older than cutoff.
	ListStale(ctx context.Context, cutoff time.Time, limit int) ([]string, error)

	UpdateMetrics(ctx context.Context, offerID string, metrics DealMetrics) error
}

// PriceHistoryRepository is append-only.
type PriceHistoryRepository interface {
	Append(ctx context.Context, sample PriceSample) error
	ListSince(ctx context.Context, offerID string, since time.Time) ([]PriceSample, error)
}
