package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/deal"
)

const rescoreBatchSize = 200

type DealJobs struct {
	dealSvc   deal.DealService
	offerRepo deal.OfferRepository
	staleAge  time.Duration
}

func NewDealJobs(dealSvc deal.DealService, offerRepo deal.OfferRepository, staleAge time.Duration) *DealJobs {
	return &DealJobs{
		dealSvc:   dealSvc,
		offerRepo: offerRepo,
		staleAge:  staleAge,
	}
}

func (j *DealJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("rescore_stale_offers", 1*time.Hour, j.RescoreStaleOffers)
}

// RescoreStaleOffers refreshes metrics for offers that were never scored
// or whose score predates recent comparable ingests.
func (j *DealJobs) RescoreStaleOffers(ctx context.Context) error {
	cutoff := time.Now().Add(-j.staleAge)

	ids, err := j.offerRepo.ListStale(ctx, cutoff, rescoreBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list stale offers: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.Info("Cron: Rescoring stale offers", "count", len(ids))

	rescored := 0
	for _, id := range ids {
		if _, err := j.dealSvc.RescoreOffer(ctx, id); err != nil {
			// Offers can be deleted between listing and rescoring.
			if errors.Is(err, deal.ErrOfferNotFound) {
				continue
			}
			slog.Error("Cron: Failed to rescore offer", "offer_id", id, "error", err)
			continue
		}
		rescored++
	}

	slog.Info("Cron: Rescore completed", "rescored", rescored, "listed", len(ids))
	return nil
}
