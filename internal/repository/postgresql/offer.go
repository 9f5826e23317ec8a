package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/loopwork/insights-backend-go/internal/domain/deal"
	"github.com/loopwork/insights-backend-go/internal/pkg/database"
)

// comparableDayWindow is the +/- day proximity for comparable matching.
const comparableDayWindow = 2

type offerRepository struct {
	db *database.DB
}

func NewOfferRepository(db *database.DB) deal.OfferRepository {
	return &offerRepository{db: db}
}

const offerSelect = `
	SELECT id, offer_key, provider, origin, destination, cabin,
	       to_char(depart_date, 'YYYY-MM-DD'), to_char(return_date, 'YYYY-MM-DD'),
	       stops, stops_category, price_total_cents, total_trip_minutes, party_size,
	       segments, created_at, updated_at,
	       deal_score, is_great_deal, rationale, price_percentile,
	       comparable_median_price_cents, price_drop_7d_pct, duration_vs_median_minutes
	FROM offers
`

func scanOffer(row pgx.Row) (deal.Offer, error) {
	var (
		offer       deal.Offer
		segmentsRaw []byte
	)
	err := row.Scan(
		&offer.ID, &offer.OfferKey, &offer.Provider, &offer.Origin, &offer.Destination, &offer.Cabin,
		&offer.DepartDate, &offer.ReturnDate,
		&offer.Stops, &offer.StopsCategory, &offer.PriceTotalCents, &offer.TotalTripMinutes, &offer.PartySize,
		&segmentsRaw, &offer.CreatedAt, &offer.UpdatedAt,
		&offer.DealScore, &offer.IsGreatDeal, &offer.Rationale, &offer.PricePercentile,
		&offer.ComparableMedianPriceCents, &offer.PriceDrop7dPct, &offer.DurationVsMedianMinutes,
	)
	if err != nil {
		return deal.Offer{}, err
	}
	if len(segmentsRaw) > 0 {
		if err := json.Unmarshal(segmentsRaw, &offer.Segments); err != nil {
			return deal.Offer{}, fmt.Errorf("failed to decode segments: %w", err)
		}
	}
	return offer, nil
}

// GetByID implements deal.OfferRepository.
func (r *offerRepository) GetByID(ctx context.Context, id string) (deal.Offer, error) {
	q := GetQuerier(ctx, r.db)

	offer, err := scanOffer(q.QueryRow(ctx, offerSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return deal.Offer{}, deal.ErrOfferNotFound
		}
		return deal.Offer{}, fmt.Errorf("failed to get offer: %w", err)
	}
	return offer, nil
}

// Upsert implements deal.OfferRepository: offer_key is the natural key,
// so re-ingesting the same itinerary refreshes price and timestamps
// instead of inserting a duplicate.
func (r *offerRepository) Upsert(ctx context.Context, offer deal.Offer) (deal.Offer, error) {
	q := GetQuerier(ctx, r.db)

	segmentsRaw, err := json.Marshal(offer.Segments)
	if err != nil {
		return deal.Offer{}, fmt.Errorf("failed to encode segments: %w", err)
	}

	id := offer.ID
	if id == "" {
		id = uuid.NewString()
	}

	err = q.QueryRow(ctx, `
		INSERT INTO offers (
			id, offer_key, provider, origin, destination, cabin,
			depart_date, return_date, stops, stops_category,
			price_total_cents, total_trip_minutes, party_size, segments,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		ON CONFLICT (offer_key) DO UPDATE SET
			price_total_cents = EXCLUDED.price_total_cents,
			total_trip_minutes = EXCLUDED.total_trip_minutes,
			segments = EXCLUDED.segments,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`,
		id, offer.OfferKey, offer.Provider, offer.Origin, offer.Destination, offer.Cabin,
		offer.DepartDate, offer.ReturnDate, offer.Stops, offer.StopsCategory,
		offer.PriceTotalCents, offer.TotalTripMinutes, offer.PartySize, segmentsRaw,
	).Scan(&offer.ID, &offer.CreatedAt, &offer.UpdatedAt)
	if err != nil {
		return deal.Offer{}, fmt.Errorf("failed to upsert offer: %w", err)
	}
	return offer, nil
}

// ListComparables implements deal.OfferRepository.
func (r *offerRepository) ListComparables(ctx context.Context, subject deal.Offer) ([]deal.Offer, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, offerSelect+`
		WHERE id <> $1
		  AND origin = $2
		  AND destination = $3
		  AND cabin = $4
		  AND stops_category = $5
		  AND depart_date BETWEEN $6::date - $8 AND $6::date + $8
		  AND return_date BETWEEN $7::date - $8 AND $7::date + $8
	`,
		subject.ID, subject.Origin, subject.Destination, subject.Cabin, subject.StopsCategory,
		subject.DepartDate, subject.ReturnDate, comparableDayWindow,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparables: %w", err)
	}
	defer rows.Close()

	var offers []deal.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comparable: %w", err)
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

// ListStale implements deal.OfferRepository.
func (r *offerRepository) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id FROM offers
		WHERE deal_score IS NULL OR updated_at < $1
		ORDER BY updated_at
		LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale offers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan offer id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateMetrics implements deal.OfferRepository.
func (r *offerRepository) UpdateMetrics(ctx context.Context, offerID string, metrics deal.DealMetrics) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE offers SET
			deal_score = $2,
			is_great_deal = $3,
			rationale = $4,
			price_percentile = $5,
			comparable_median_price_cents = $6,
			price_drop_7d_pct = $7,
			duration_vs_median_minutes = $8,
			updated_at = NOW()
		WHERE id = $1
	`,
		offerID, metrics.DealScore, metrics.IsGreatDeal, metrics.Rationale,
		metrics.PricePercentile, metrics.ComparableMedianPriceCents,
		metrics.PriceDrop7dPct, metrics.DurationVsMedianMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to update offer metrics: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return deal.ErrOfferNotFound
	}
	return nil
}
