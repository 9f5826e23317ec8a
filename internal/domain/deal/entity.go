package deal

import (
	"time"
)

// StopsCategory buckets itineraries for comparable-set matching. Anything
// with stops but no qualifying overnight connection is excluded from the
// catalog entirely.
type StopsCategory string

const (
	StopsNonstop          StopsCategory = "NONSTOP"
	StopsOneStopOvernight StopsCategory = "ONE_STOP_OVERNIGHT"
)

// Segment timestamps are provider-supplied local wall-clock strings
// ("2006-01-02T15:04:05"), deliberately not UTC-normalized. Layover
// arithmetic treats them as naive local times.
type Segment struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartLocal string `json:"depart_local"`
	ArriveLocal string `json:"arrive_local"`
}

// Offer is one priced itinerary. OfferKey is a content hash of
// provider+route+dates+cabin+party+segments, so the same logical
// itinerary from the same provider always upserts onto one row.
type Offer struct {
	ID               string
	OfferKey         string
	Provider         string
	Origin           string
	Destination      string
	Cabin            string
	DepartDate       string
	ReturnDate       string
	Stops            int
	StopsCategory    StopsCategory
	PriceTotalCents  int64
	TotalTripMinutes int
	PartySize        int
	Segments         []Segment
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Scoring output, written back by the scan
	DealScore                  *int
	IsGreatDeal                bool
	Rationale                  []string
	PricePercentile            *float64
	ComparableMedianPriceCents *int64
	PriceDrop7dPct             *float64
	DurationVsMedianMinutes    *int
}

// PriceSample is an append-only price observation; never mutated after
// insert.
type PriceSample struct {
	ID              string
	OfferID         string
	CapturedAt      time.Time
	PriceTotalCents int64
}

// DealMetrics is the scoring result written back onto an Offer. Nil
// fields mean the comparable set or history was too sparse to say.
type DealMetrics struct {
	DealScore                  int      `json:"deal_score"`
	IsGreatDeal                bool     `json:"is_great_deal"`
	Rationale                  []string `json:"rationale"`
	PricePercentile            *float64 `json:"price_percentile"`
	ComparableMedianPriceCents *int64   `json:"comparable_median_price_cents"`
	PriceDrop7dPct             *float64 `json:"price_drop_7d_pct"`
	DurationVsMedianMinutes    *int     `json:"duration_vs_median_minutes"`
}

// Layover is the gap between two consecutive segments.
type Layover struct {
	Airport   string
	Minutes   int
	Overnight bool
}

type LayoverSummary struct {
	Layovers        []Layover
	HasAnyOvernight bool
}

// OvernightCount returns how many layovers qualify as overnight.
func (s LayoverSummary) OvernightCount() int {
	n := 0
	for _, l := range s.Layovers {
		if l.Overnight {
			n++
		}
	}
	return n
}

// DatePair is one depart/return candidate in a scan's search space.
type DatePair struct {
	Depart string `json:"depart"`
	Return string `json:"return"`
}
