package deal

import (
	"context"
)

// DealService wraps the scoring core with catalog persistence.
type DealService interface {
	// IngestOffer classifies, keys and upserts one raw fare result and
	// appends a price sample. Itineraries with stops but no qualifying
	// overnight layover are rejected with ErrNoQualifyingItinerary.
	IngestOffer(ctx context.Context, req IngestOfferRequest) (OfferResponse, error)

	GetOffer(ctx context.Context, id string) (OfferResponse, error)

	// RescoreOffer recomputes DealMetrics from the current comparable
	// set and the last 7 days of price history, and persists the result.
	RescoreOffer(ctx context.Context, id string) (DealMetrics, error)

	// GenerateDatePairs enumerates the scan search space. Pure.
	GenerateDatePairs(req DatePairsRequest) (DatePairsResponse, error)
}
