package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/loopwork/insights-backend-go/internal/pkg/database"
)

type attendanceDayRepository struct {
	db *database.DB
}

func NewAttendanceDayRepository(db *database.DB) attendance.AttendanceDayRepository {
	return &attendanceDayRepository{db: db}
}

// PresenceForRange implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) PresenceForRange(ctx context.Context, from, to string) (attendance.PresenceIndex, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, to_char(date, 'YYYY-MM-DD'), present,
		       first_seen_at, last_seen_at, location_id, source, created_at, updated_at
		FROM attendance_days
		WHERE date BETWEEN $1 AND $2
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance days: %w", err)
	}
	defer rows.Close()

	index := make(attendance.PresenceIndex)
	for rows.Next() {
		var day attendance.AttendanceDay
		err := rows.Scan(
			&day.ID, &day.EmployeeID, &day.Date, &day.Present,
			&day.FirstSeenAt, &day.LastSeenAt, &day.LocationID, &day.Source,
			&day.CreatedAt, &day.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		index[attendance.PresenceKey{EmployeeID: day.EmployeeID, Date: day.Date}] = day
	}
	return index, rows.Err()
}

// UpsertMany implements attendance.AttendanceDayRepository. The
// (employee_id, date) unique constraint is what makes reconciliation
// safe to re-run over overlapping windows.
func (r *attendanceDayRepository) UpsertMany(ctx context.Context, days []attendance.AttendanceDay) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO attendance_days (
				id, employee_id, date, present, first_seen_at, last_seen_at,
				location_id, source, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			ON CONFLICT (employee_id, date) DO UPDATE SET
				present = EXCLUDED.present,
				first_seen_at = EXCLUDED.first_seen_at,
				last_seen_at = EXCLUDED.last_seen_at,
				location_id = EXCLUDED.location_id,
				source = EXCLUDED.source,
				updated_at = NOW()
		`
		for _, day := range days {
			id := day.ID
			if id == "" {
				id = uuid.NewString()
			}
			_, err := tx.Exec(ctx, query,
				id, day.EmployeeID, day.Date, day.Present,
				day.FirstSeenAt, day.LastSeenAt, day.LocationID, day.Source,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert attendance day %s/%s: %w", day.EmployeeID, day.Date, err)
			}
		}
		return nil
	})
}
