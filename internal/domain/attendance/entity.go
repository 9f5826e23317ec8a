package attendance

import (
	"time"
)

// Employee is a roster member. Employees are never hard-deleted: roster
// imports flip Active to false instead.
type Employee struct {
	ID               string
	FullName         string
	Email            string
	BrivoUserID      *string
	TeamID           string
	ManagerID        *string
	OfficeLocationID *string
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Resolved by the repository
	Team           *Team
	OfficeLocation *OfficeLocation
}

// Team carries the office-day policy its members are measured against.
type Team struct {
	ID                  string
	Name                string
	ScheduleDays        []time.Weekday
	RequiredDaysPerWeek int
}

// IsScheduledDay reports whether wd is one of the team's office days.
func (t Team) IsScheduledDay(wd time.Weekday) bool {
	for _, d := range t.ScheduleDays {
		if d == wd {
			return true
		}
	}
	return false
}

type OfficeLocation struct {
	ID       string
	Name     string
	Timezone string
}

// Holiday scopes to one office location, or globally when LocationID is
// nil. A date may carry several holiday rows distinguished by name and
// location.
type Holiday struct {
	ID         string
	Date       string
	Name       string
	LocationID *string
}

// AttendanceDay is the derived presence fact: at most one row per
// (employee, date), rebuilt idempotently from raw badge events.
type AttendanceDay struct {
	ID          string
	EmployeeID  string
	Date        string
	Present     bool
	FirstSeenAt time.Time
	LastSeenAt  time.Time
	LocationID  *string
	Source      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Badge event sources, in order of authority.
const (
	SourceWebhook = "webhook"
	SourcePolling = "polling"
)

// BadgeEvent is a raw swipe as delivered by the badge vendor. Events are
// keyed by the vendor's user id, not ours.
type BadgeEvent struct {
	ID             string
	BrivoUserID    string
	DoorID         string
	OccurredAt     time.Time
	EventType      string
	SecurityAction string
	Source         string
}

// Door is a badge reader; only doors with CountsForEntry contribute to
// presence (garage gates and exits do not).
type Door struct {
	ID             string
	Name           string
	LocationID     *string
	CountsForEntry bool
}

// HolidayIndex is the pure-engine holiday lookup: date keys partitioned
// into a global set and per-location sets.
type HolidayIndex struct {
	Global     map[string]bool
	ByLocation map[string]map[string]bool
}

// IsHoliday reports whether dateKey is a holiday for an employee scoped
// to locationID (nil scope checks only global holidays).
func (h HolidayIndex) IsHoliday(dateKey string, locationID *string) bool {
	if h.Global[dateKey] {
		return true
	}
	if locationID == nil {
		return false
	}
	return h.ByLocation[*locationID][dateKey]
}

// PresenceIndex looks up presence facts by (employee, date).
type PresenceIndex map[PresenceKey]AttendanceDay

type PresenceKey struct {
	EmployeeID string
	Date       string
}

func (p PresenceIndex) Get(employeeID, dateKey string) (AttendanceDay, bool) {
	day, ok := p[PresenceKey{EmployeeID: employeeID, Date: dateKey}]
	return day, ok
}

// WeeklyEmployeeRow is the computed compliance verdict for one employee
// and one Monday-anchored week. It is never persisted.
type WeeklyEmployeeRow struct {
	EmployeeID              string
	WeekStart               string
	EligibleDays            int
	ScheduledEligibleDays   int
	RequiredDaysAdjusted    int
	ActualDays              int
	AttendedOnScheduledDays int
	Deficit                 int
	PolicyCompliant         bool
	ScheduleAdherencePct    float64
	LastSeenAt              *time.Time
}
