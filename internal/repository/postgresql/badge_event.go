package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/loopwork/insights-backend-go/internal/pkg/database"
)

type badgeEventRepository struct {
	db *database.DB
}

func NewBadgeEventRepository(db *database.DB) attendance.BadgeEventRepository {
	return &badgeEventRepository{db: db}
}

const badgeEventSelect = `
	SELECT id, brivo_user_id, door_id, occurred_at, event_type, security_action, source
	FROM badge_events
`

// ListInRange implements attendance.BadgeEventRepository.
func (r *badgeEventRepository) ListInRange(ctx context.Context, from, to time.Time) ([]attendance.BadgeEvent, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, badgeEventSelect+`
		WHERE occurred_at >= $1 AND occurred_at < $2
		ORDER BY occurred_at
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query badge events: %w", err)
	}
	defer rows.Close()

	return scanBadgeEvents(rows)
}

// ListRecentByEmployee implements attendance.BadgeEventRepository.
func (r *badgeEventRepository) ListRecentByEmployee(ctx context.Context, brivoUserID string, limit int) ([]attendance.BadgeEvent, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, badgeEventSelect+`
		WHERE brivo_user_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, brivoUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent badge events: %w", err)
	}
	defer rows.Close()

	return scanBadgeEvents(rows)
}

func scanBadgeEvents(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]attendance.BadgeEvent, error) {
	var events []attendance.BadgeEvent
	for rows.Next() {
		var event attendance.BadgeEvent
		err := rows.Scan(
			&event.ID, &event.BrivoUserID, &event.DoorID, &event.OccurredAt,
			&event.EventType, &event.SecurityAction, &event.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

type doorRepository struct {
	db *database.DB
}

func NewDoorRepository(db *database.DB) attendance.DoorRepository {
	return &doorRepository{db: db}
}

// ListCountingForEntry implements attendance.DoorRepository.
func (r *doorRepository) ListCountingForEntry(ctx context.Context) ([]attendance.Door, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, name, location_id, counts_for_entry
		FROM doors
		WHERE counts_for_entry
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query doors: %w", err)
	}
	defer rows.Close()

	var doors []attendance.Door
	for rows.Next() {
		var door attendance.Door
		if err := rows.Scan(&door.ID, &door.Name, &door.LocationID, &door.CountsForEntry); err != nil {
			return nil, fmt.Errorf("failed to scan door: %w", err)
		}
		doors = append(doors, door)
	}
	return doors, rows.Err()
}
