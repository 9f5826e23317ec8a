package attendance

import (
	"context"
	"time"
)

// EmployeeRepository supplies roster rows with team and office location
// already resolved, filtered to active records.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive returns active employees; teamID and locationID narrow
	// the set when non-empty.
	ListActive(ctx context.Context, teamID, locationID string) ([]Employee, error)

	// MapByBrivoUserID returns the brivoUserID -> employee mapping for
	// the current roster (active employees with a badge id).
	MapByBrivoUserID(ctx context.Context) (map[string]Employee, error)

	GetTeam(ctx context.Context, teamID string) (Team, error)
	ListLocations(ctx context.Context) ([]OfficeLocation, error)
}

// HolidayRepository supplies the holiday calendar partitioned into
// global and per-location date sets.
type HolidayRepository interface {
	// IndexForRange builds a HolidayIndex for [from, to] date keys.
	IndexForRange(ctx context.Context, from, to string) (HolidayIndex, error)
}

// AttendanceDayRepository owns the derived presence facts. UpsertMany is
// keyed by (employee, date) so reconciliation can be re-run over
// overlapping windows without drift.
type AttendanceDayRepository interface {
	PresenceForRange(ctx context.Context, from, to string) (PresenceIndex, error)
	UpsertMany(ctx context.Context, days []AttendanceDay) error
}

// BadgeEventRepository reads raw events; rows are append-only.
type BadgeEventRepository interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]BadgeEvent, error)
	ListRecentByEmployee(ctx context.Context, brivoUserID string, limit int) ([]BadgeEvent, error)
}

// DoorRepository supplies the entry-door configuration.
type DoorRepository interface {
	ListCountingForEntry(ctx context.Context) ([]Door, error)
}
