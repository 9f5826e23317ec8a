package deal

import (
	"fmt"
	"math"
	"sort"

	"github.com/loopwork/insights-backend-go/internal/domain/deal"
	"github.com/loopwork/insights-backend-go/internal/pkg/stats"
)

const (
	baseScore = 50

	// minComparablesForClaims gates percentile/median rationale sentences
	// so tiny samples don't produce overconfident copy.
	minComparablesForClaims = 4

	// medianDeltaRationaleCents is the minimum absolute gap to the
	// comparable median worth calling out ($250 equivalent).
	medianDeltaRationaleCents = 25000

	// dropRationalePct is the minimum 7-day drop worth calling out.
	dropRationalePct = 0.10

	greatDealScore      = 80
	greatDealPercentile = 15
	greatDealDropPct    = 0.10

	maxDurationPenalty = 15
)

// DealScorer converts a fare offer plus its comparable set and recent
// price history into a 0-100 score with rationale. Stateless and
// deterministic; callers supply every input.
type DealScorer struct {
}

func NewDealScorer() *DealScorer {
	return &DealScorer{}
}

// ComputeDealMetrics scores one offer against its comparables. Sparse
// inputs degrade to nil metric fields; a comparable with a non-positive
// price is a structural defect and fails the computation.
func (s *DealScorer) ComputeDealMetrics(
	offer deal.Offer,
	comparables []deal.Offer,
	history []deal.PriceSample,
) (deal.DealMetrics, error) {
	if offer.PriceTotalCents <= 0 {
		return deal.DealMetrics{}, deal.ErrInvalidOfferPrice
	}

	prices := make([]float64, 0, len(comparables))
	durations := make([]float64, 0, len(comparables))
	for _, comp := range comparables {
		if comp.PriceTotalCents <= 0 {
			return deal.DealMetrics{}, fmt.Errorf("comparable %s: %w", comp.ID, deal.ErrInvalidComparable)
		}
		prices = append(prices, float64(comp.PriceTotalCents))
		if comp.TotalTripMinutes > 0 {
			durations = append(durations, float64(comp.TotalTripMinutes))
		}
	}

	metrics := deal.DealMetrics{Rationale: []string{}}

	if pct, ok := stats.PercentileRank(prices, float64(offer.PriceTotalCents)); ok {
		metrics.PricePercentile = &pct
	}
	if median, ok := stats.Median(prices); ok {
		cents := int64(math.Round(median))
		metrics.ComparableMedianPriceCents = &cents
	}
	metrics.PriceDrop7dPct = priceDrop7d(history)
	if median, ok := stats.Median(durations); ok && offer.TotalTripMinutes > 0 {
		delta := offer.TotalTripMinutes - int(math.Round(median))
		metrics.DurationVsMedianMinutes = &delta
	}

	metrics.Rationale = s.buildRationale(offer, metrics, len(comparables))
	metrics.DealScore = s.score(offer, metrics)
	metrics.IsGreatDeal = metrics.DealScore >= greatDealScore ||
		(metrics.PricePercentile != nil && *metrics.PricePercentile <= greatDealPercentile) ||
		(metrics.PriceDrop7dPct != nil && *metrics.PriceDrop7dPct >= greatDealDropPct)

	return metrics, nil
}

// priceDrop7d compares the oldest and newest samples. With fewer than
// two samples there is no signal; a price rise reports 0, not negative.
func priceDrop7d(history []deal.PriceSample) *float64 {
	if len(history) < 2 {
		return nil
	}
	sorted := make([]deal.PriceSample, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CapturedAt.Before(sorted[j].CapturedAt)
	})

	oldest := float64(sorted[0].PriceTotalCents)
	newest := float64(sorted[len(sorted)-1].PriceTotalCents)

	drop := 0.0
	if newest < oldest && oldest > 0 {
		drop = (oldest - newest) / oldest
	}
	return &drop
}

// score starts at 50 and applies fixed additive bands, first match wins
// within each group, then clamps to [0, 100].
func (s *DealScorer) score(offer deal.Offer, m deal.DealMetrics) int {
	score := baseScore

	if m.PricePercentile != nil {
		pct := *m.PricePercentile
		switch {
		case pct <= 15:
			score += 30
		case pct <= 30:
			score += 20
		case pct <= 50:
			score += 10
		case pct >= 85:
			score -= 15
		case pct >= 70:
			score -= 8
		}
	}

	if m.PriceDrop7dPct != nil {
		drop := *m.PriceDrop7dPct
		switch {
		case drop >= 0.15:
			score += 12
		case drop >= 0.10:
			score += 10
		case drop >= 0.05:
			score += 6
		}
	}

	switch offer.StopsCategory {
	case deal.StopsNonstop:
		score += 10
	case deal.StopsOneStopOvernight:
		score += 5
	}

	if m.DurationVsMedianMinutes != nil && *m.DurationVsMedianMinutes > 0 {
		penalty := int(math.Round(float64(*m.DurationVsMedianMinutes)/60)) * 2
		if penalty > maxDurationPenalty {
			penalty = maxDurationPenalty
		}
		score -= penalty
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// buildRationale appends sentences in a fixed order so rendered copy is
// stable across rescoring runs.
func (s *DealScorer) buildRationale(offer deal.Offer, m deal.DealMetrics, comparableCount int) []string {
	rationale := []string{}

	if comparableCount >= minComparablesForClaims && m.PricePercentile != nil {
		rationale = append(rationale, fmt.Sprintf(
			"Priced in the %.0fth percentile of %d comparable fares.",
			*m.PricePercentile, comparableCount))
	}

	if comparableCount >= minComparablesForClaims && m.ComparableMedianPriceCents != nil {
		delta := offer.PriceTotalCents - *m.ComparableMedianPriceCents
		if delta <= -medianDeltaRationaleCents {
			rationale = append(rationale, fmt.Sprintf(
				"About $%d below the comparable median price.", -delta/100))
		} else if delta >= medianDeltaRationaleCents {
			rationale = append(rationale, fmt.Sprintf(
				"About $%d above the comparable median price.", delta/100))
		}
	}

	switch offer.StopsCategory {
	case deal.StopsNonstop:
		rationale = append(rationale, "Nonstop itinerary.")
	case deal.StopsOneStopOvernight:
		rationale = append(rationale, "One stop with an overnight connection.")
	}

	if m.PriceDrop7dPct != nil && *m.PriceDrop7dPct >= dropRationalePct {
		rationale = append(rationale, fmt.Sprintf(
			"Price dropped %.0f%% over the last 7 days.", *m.PriceDrop7dPct*100))
	}

	if comparableCount >= minComparablesForClaims && m.DurationVsMedianMinutes != nil && *m.DurationVsMedianMinutes != 0 {
		delta := *m.DurationVsMedianMinutes
		if delta > 0 {
			rationale = append(rationale, fmt.Sprintf(
				"About %s longer than the comparable median duration.", formatHours(delta)))
		} else {
			rationale = append(rationale, fmt.Sprintf(
				"About %s shorter than the comparable median duration.", formatHours(-delta)))
		}
	}

	return rationale
}

func formatHours(minutes int) string {
	hours := minutes / 60
	rem := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", rem)
	}
	if rem == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%02dm", hours, rem)
}
