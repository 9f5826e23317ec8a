package deal

import (
	"context"
	"testing"
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/deal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOfferRepo struct {
	byID      map[string]deal.Offer
	byKey     map[string]deal.Offer
	compsFor  []deal.Offer
	lastSaved deal.Offer
	metrics   map[string]deal.DealMetrics
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{
		byID:    map[string]deal.Offer{},
		byKey:   map[string]deal.Offer{},
		metrics: map[string]deal.DealMetrics{},
	}
}

func (f *fakeOfferRepo) GetByID(_ context.Context, id string) (deal.Offer, error) {
	offer, ok := f.byID[id]
	if !ok {
		return deal.Offer{}, deal.ErrOfferNotFound
	}
	return offer, nil
}

func (f *fakeOfferRepo) Upsert(_ context.Context, offer deal.Offer) (deal.Offer, error) {
	if existing, ok := f.byKey[offer.OfferKey]; ok {
		offer.ID = existing.ID
	} else if offer.ID == "" {
		offer.ID = "offer-" + offer.OfferKey[:8]
	}
	f.byID[offer.ID] = offer
	f.byKey[offer.OfferKey] = offer
	f.lastSaved = offer
	return offer, nil
}

func (f *fakeOfferRepo) ListComparables(_ context.Context, _ deal.Offer) ([]deal.Offer, error) {
	return f.compsFor, nil
}

func (f *fakeOfferRepo) ListStale(_ context.Context, _ time.Time, _ int) ([]string, error) {
	return nil, nil
}

func (f *fakeOfferRepo) UpdateMetrics(_ context.Context, offerID string, metrics deal.DealMetrics) error {
	if _, ok := f.byID[offerID]; !ok {
		return deal.ErrOfferNotFound
	}
	f.metrics[offerID] = metrics
	return nil
}

type fakeHistoryRepo struct {
	samples []deal.PriceSample
}

func (f *fakeHistoryRepo) Append(_ context.Context, sample deal.PriceSample) error {
	f.samples = append(f.samples, sample)
	return nil
}

func (f *fakeHistoryRepo) ListSince(_ context.Context, _ string, _ time.Time) ([]deal.PriceSample, error) {
	return f.samples, nil
}

func ingestRequest() deal.IngestOfferRequest {
	return deal.IngestOfferRequest{
		Provider:         "kiwi",
		Origin:           "CGK",
		Destination:      "LHR",
		Cabin:            "economy",
		DepartDate:       "2026-12-10",
		ReturnDate:       "2026-12-24",
		PriceTotalCents:  450000,
		TotalTripMinutes: 980,
		PartySize:        2,
		Segments: []deal.Segment{
			{Origin: "CGK", Destination: "LHR", DepartLocal: "2026-12-10T18:00:00", ArriveLocal: "2026-12-11T06:00:00"},
		},
	}
}

func TestDealService_IngestOffer_UpsertsAndSamples(t *testing.T) {
	offers := newFakeOfferRepo()
	history := &fakeHistoryRepo{}
	svc := NewDealService(NewDealScorer(), offers, history, 8)

	resp, err := svc.IngestOffer(context.Background(), ingestRequest())
	require.NoError(t, err)

	assert.Equal(t, deal.StopsNonstop, resp.StopsCategory)
	assert.Equal(t, 0, resp.Stops)
	assert.NotEmpty(t, resp.OfferKey)
	require.Len(t, history.samples, 1)
	assert.Equal(t, int64(450000), history.samples[0].PriceTotalCents)
}

func TestDealService_IngestOffer_SameItineraryKeepsOneRow(t *testing.T) {
	offers := newFakeOfferRepo()
	svc := NewDealService(NewDealScorer(), offers, &fakeHistoryRepo{}, 8)

	first, err := svc.IngestOffer(context.Background(), ingestRequest())
	require.NoError(t, err)

	// Same itinerary at a new price refreshes the existing row.
	req := ingestRequest()
	req.PriceTotalCents = 420000
	second, err := svc.IngestOffer(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, offers.byID, 1)
	assert.Equal(t, int64(420000), offers.lastSaved.PriceTotalCents)
}

func TestDealService_IngestOffer_RejectsStopsWithoutOvernight(t *testing.T) {
	svc := NewDealService(NewDealScorer(), newFakeOfferRepo(), &fakeHistoryRepo{}, 8)

	req := ingestRequest()
	req.Segments = []deal.Segment{
		{Origin: "CGK", Destination: "SIN", DepartLocal: "2026-12-10T18:00:00", ArriveLocal: "2026-12-10T21:00:00"},
		{Origin: "SIN", Destination: "LHR", DepartLocal: "2026-12-10T23:30:00", ArriveLocal: "2026-12-11T06:00:00"},
	}

	_, err := svc.IngestOffer(context.Background(), req)
	assert.ErrorIs(t, err, deal.ErrNoQualifyingItinerary)
}

func TestDealService_IngestOffer_RejectsNonPositivePrice(t *testing.T) {
	svc := NewDealService(NewDealScorer(), newFakeOfferRepo(), &fakeHistoryRepo{}, 8)

	req := ingestRequest()
	req.PriceTotalCents = 0

	_, err := svc.IngestOffer(context.Background(), req)
	assert.ErrorIs(t, err, deal.ErrInvalidOfferPrice)
}

func TestDealService_RescoreOffer_PersistsMetrics(t *testing.T) {
	offers := newFakeOfferRepo()
	history := &fakeHistoryRepo{}
	svc := NewDealService(NewDealScorer(), offers, history, 8)

	resp, err := svc.IngestOffer(context.Background(), ingestRequest())
	require.NoError(t, err)

	offers.compsFor = []deal.Offer{
		{ID: "c1", PriceTotalCents: 500000, TotalTripMinutes: 980},
		{ID: "c2", PriceTotalCents: 550000, TotalTripMinutes: 980},
		{ID: "c3", PriceTotalCents: 600000, TotalTripMinutes: 980},
		{ID: "c4", PriceTotalCents: 650000, TotalTripMinutes: 980},
	}

	metrics, err := svc.RescoreOffer(context.Background(), resp.ID)
	require.NoError(t, err)

	require.NotNil(t, metrics.PricePercentile)
	assert.Equal(t, 0.0, *metrics.PricePercentile)
	assert.True(t, metrics.IsGreatDeal)
	assert.Equal(t, metrics, offers.metrics[resp.ID])
}

func TestDealService_RescoreOffer_NotFound(t *testing.T) {
	svc := NewDealService(NewDealScorer(), newFakeOfferRepo(), &fakeHistoryRepo{}, 8)

	_, err := svc.RescoreOffer(context.Background(), "missing")
	assert.ErrorIs(t, err, deal.ErrOfferNotFound)
}

func TestDealService_GenerateDatePairs_WrapsCount(t *testing.T) {
	svc := NewDealService(NewDealScorer(), newFakeOfferRepo(), &fakeHistoryRepo{}, 8)

	resp, err := svc.GenerateDatePairs(deal.DatePairsRequest{
		DepartFrom: "2026-12-10",
		DepartTo:   "2026-12-10",
		ReturnFrom: "2026-12-17",
		ReturnTo:   "2026-12-17",
		MinNights:  7,
		MaxNights:  7,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Pairs, 1)
}
