package deal

import (
	"context"
	"fmt"
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/deal"
	"golang.org/x/sync/errgroup"
)

// priceHistoryWindow bounds the drop signal to recent movement.
const priceHistoryWindow = 7 * 24 * time.Hour

type DealServiceImpl struct {
	scorer            *DealScorer
	offerRepo         deal.OfferRepository
	historyRepo       deal.PriceHistoryRepository
	overnightMinHours int
}

func NewDealService(
	scorer *DealScorer,
	offerRepo deal.OfferRepository,
	historyRepo deal.PriceHistoryRepository,
	overnightMinHours int,
) deal.DealService {
	return &DealServiceImpl{
		scorer:            scorer,
		offerRepo:         offerRepo,
		historyRepo:       historyRepo,
		overnightMinHours: overnightMinHours,
	}
}

// IngestOffer implements deal.DealService.
func (s *DealServiceImpl) IngestOffer(ctx context.Context, req deal.IngestOfferRequest) (deal.OfferResponse, error) {
	if req.PriceTotalCents <= 0 {
		return deal.OfferResponse{}, deal.ErrInvalidOfferPrice
	}

	category, ok, err := ClassifyStops(req.Segments, s.overnightMinHours)
	if err != nil {
		return deal.OfferResponse{}, err
	}
	if !ok {
		return deal.OfferResponse{}, deal.ErrNoQualifyingItinerary
	}

	offer := deal.Offer{
		OfferKey: OfferKey(req.Provider, req.Origin, req.Destination, req.Cabin,
			req.DepartDate, req.ReturnDate, req.PartySize, req.Segments),
		Provider:         req.Provider,
		Origin:           req.Origin,
		Destination:      req.Destination,
		Cabin:            req.Cabin,
		DepartDate:       req.DepartDate,
		ReturnDate:       req.ReturnDate,
		Stops:            len(req.Segments) - 1,
		StopsCategory:    category,
		PriceTotalCents:  req.PriceTotalCents,
		TotalTripMinutes: req.TotalTripMinutes,
		PartySize:        req.PartySize,
		Segments:         req.Segments,
	}

	saved, err := s.offerRepo.Upsert(ctx, offer)
	if err != nil {
		return deal.OfferResponse{}, fmt.Errorf("failed to upsert offer: %w", err)
	}

	sample := deal.PriceSample{
		OfferID:         saved.ID,
		CapturedAt:      time.Now().UTC(),
		PriceTotalCents: req.PriceTotalCents,
	}
	if err := s.historyRepo.Append(ctx, sample); err != nil {
		return deal.OfferResponse{}, fmt.Errorf("failed to append price sample: %w", err)
	}

	return mapOffer(saved), nil
}

// GetOffer implements deal.DealService.
func (s *DealServiceImpl) GetOffer(ctx context.Context, id string) (deal.OfferResponse, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return deal.OfferResponse{}, err
	}
	return mapOffer(offer), nil
}

// RescoreOffer implements deal.DealService.
func (s *DealServiceImpl) RescoreOffer(ctx context.Context, id string) (deal.DealMetrics, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return deal.DealMetrics{}, err
	}

	var (
		comparables []deal.Offer
		history     []deal.PriceSample
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comparables, err = s.offerRepo.ListComparables(gCtx, offer)
		if err != nil {
			return fmt.Errorf("failed to list comparables: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = s.historyRepo.ListSince(gCtx, offer.ID, time.Now().UTC().Add(-priceHistoryWindow))
		if err != nil {
			return fmt.Errorf("failed to load price history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return deal.DealMetrics{}, err
	}

	metrics, err := s.scorer.ComputeDealMetrics(offer, comparables, history)
	if err != nil {
		return deal.DealMetrics{}, err
	}

	if err := s.offerRepo.UpdateMetrics(ctx, offer.ID, metrics); err != nil {
		return deal.DealMetrics{}, fmt.Errorf("failed to persist metrics: %w", err)
	}
	return metrics, nil
}

// GenerateDatePairs implements deal.DealService.
func (s *DealServiceImpl) GenerateDatePairs(req deal.DatePairsRequest) (deal.DatePairsResponse, error) {
	pairs, err := GenerateDatePairs(req.DepartFrom, req.DepartTo, req.ReturnFrom, req.ReturnTo, req.MinNights, req.MaxNights)
	if err != nil {
		return deal.DatePairsResponse{}, err
	}
	return deal.DatePairsResponse{Pairs: pairs, Count: len(pairs)}, nil
}

func mapOffer(offer deal.Offer) deal.OfferResponse {
	resp := deal.OfferResponse{
		ID:               offer.ID,
		OfferKey:         offer.OfferKey,
		Provider:         offer.Provider,
		Origin:           offer.Origin,
		Destination:      offer.Destination,
		Cabin:            offer.Cabin,
		DepartDate:       offer.DepartDate,
		ReturnDate:       offer.ReturnDate,
		Stops:            offer.Stops,
		StopsCategory:    offer.StopsCategory,
		PriceTotalCents:  offer.PriceTotalCents,
		TotalTripMinutes: offer.TotalTripMinutes,
	}
	if offer.DealScore != nil {
		resp.Metrics = &deal.DealMetrics{
			DealScore:                  *offer.DealScore,
			IsGreatDeal:                offer.IsGreatDeal,
			Rationale:                  offer.Rationale,
			PricePercentile:            offer.PricePercentile,
			ComparableMedianPriceCents: offer.ComparableMedianPriceCents,
			PriceDrop7dPct:             offer.PriceDrop7dPct,
			DurationVsMedianMinutes:    offer.DurationVsMedianMinutes,
		}
	}
	return resp
}
