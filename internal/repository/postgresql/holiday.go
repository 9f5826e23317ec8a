package postgresql

import (
	"context"
	"fmt"

	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/loopwork/insights-backend-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) attendance.HolidayRepository {
	return &holidayRepository{db: db}
}

// IndexForRange implements attendance.HolidayRepository.
func (r *holidayRepository) IndexForRange(ctx context.Context, from, to string) (attendance.HolidayIndex, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD'), location_id
		FROM holidays
		WHERE date BETWEEN $1 AND $2
	`, from, to)
	if err != nil {
		return attendance.HolidayIndex{}, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	index := attendance.HolidayIndex{
		Global:     make(map[string]bool),
		ByLocation: make(map[string]map[string]bool),
	}
	for rows.Next() {
		var (
			dateKey    string
			locationID *string
		)
		if err := rows.Scan(&dateKey, &locationID); err != nil {
			return attendance.HolidayIndex{}, fmt.Errorf("failed to scan holiday: %w", err)
		}
		if locationID == nil {
			index.Global[dateKey] = true
			continue
		}
		if index.ByLocation[*locationID] == nil {
			index.ByLocation[*locationID] = make(map[string]bool)
		}
		index.ByLocation[*locationID][dateKey] = true
	}
	return index, rows.Err()
}
