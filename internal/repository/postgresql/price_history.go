package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loopwork/insights-backend-go/internal/domain/deal"
	"github.com/loopwork/insights-backend-go/internal/pkg/database"
)

type priceHistoryRepository struct {
	db *database.DB
}

func NewPriceHistoryRepository(db *database.DB) deal.PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

// Append implements deal.PriceHistoryRepository. Samples are append-only
// and never mutated after insert.
func (r *priceHistoryRepository) Append(ctx context.Context, sample deal.PriceSample) error {
	q := GetQuerier(ctx, r.db)

	id := sample.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := q.Exec(ctx, `
		INSERT INTO price_history (id, offer_id, captured_at, price_total_cents)
		VALUES ($1, $2, $3, $4)
	`, id, sample.OfferID, sample.CapturedAt, sample.PriceTotalCents)
	if err != nil {
		return fmt.Errorf("failed to append price sample: %w", err)
	}
	return nil
}

// ListSince implements deal.PriceHistoryRepository.
func (r *priceHistoryRepository) ListSince(ctx context.Context, offerID string, since time.Time) ([]deal.PriceSample, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, offer_id, captured_at, price_total_cents
		FROM price_history
		WHERE offer_id = $1 AND captured_at >= $2
		ORDER BY captured_at
	`, offerID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var samples []deal.PriceSample
	for rows.Next() {
		var sample deal.PriceSample
		if err := rows.Scan(&sample.ID, &sample.OfferID, &sample.CapturedAt, &sample.PriceTotalCents); err != nil {
			return nil, fmt.Errorf("failed to scan price sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}
