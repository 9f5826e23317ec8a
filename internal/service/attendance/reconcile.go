package attendance

import (
	"sort"
	"strings"
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/loopwork/insights-backend-go/internal/pkg/dateutil"
)

// MarkerAllowlist is the admin-configured set of badge event markers that
// count as a presence signal. An event qualifies when either its event
// type or its security action is listed. Matching is case-insensitive.
type MarkerAllowlist map[string]bool

// NewMarkerAllowlist builds an allowlist from configured marker values.
func NewMarkerAllowlist(markers []string) MarkerAllowlist {
	allow := make(MarkerAllowlist, len(markers))
	for _, m := range markers {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" {
			allow[m] = true
		}
	}
	return allow
}

func (a MarkerAllowlist) Matches(event attendance.BadgeEvent) bool {
	return a[strings.ToUpper(event.EventType)] || a[strings.ToUpper(event.SecurityAction)]
}

// ReconcileInput is one rebuild's worth of raw badge events plus the
// lookup tables needed to resolve them.
type ReconcileInput struct {
	Events          []attendance.BadgeEvent
	RosterByBrivoID map[string]attendance.Employee
	EntryDoorIDs    map[string]bool
	Markers         MarkerAllowlist
	// LocationZones maps office location id to its timezone; employees
	// without a resolvable location bucket in DefaultZone.
	LocationZones map[string]*time.Location
	DefaultZone   *time.Location
}

// BuildAttendanceDays collapses raw badge events into one AttendanceDay
// per (employee, local calendar day). Events with an unknown badge user,
// a door not counting for entry, or a type/action outside the marker
// allowlist are silently discarded; badge vendors emit plenty of
// non-qualifying traffic (garage gates, exits).
//
// Within a bucket, first/last seen are the min/max across all qualifying
// events regardless of source; the bucket's source flips to webhook as
// soon as any webhook event lands in it. Pure and deterministic: the
// same input always yields the same rows, so callers can upsert the
// result over overlapping windows.
func BuildAttendanceDays(in ReconcileInput) ([]attendance.AttendanceDay, int) {
	zone := in.DefaultZone
	if zone == nil {
		zone = time.UTC
	}

	buckets := make(map[attendance.PresenceKey]*attendance.AttendanceDay)
	discarded := 0

	for _, event := range in.Events {
		emp, ok := in.RosterByBrivoID[event.BrivoUserID]
		if !ok {
			discarded++
			continue
		}
		if !in.EntryDoorIDs[event.DoorID] {
			discarded++
			continue
		}
		if !in.Markers.Matches(event) {
			discarded++
			continue
		}

		loc := zone
		if emp.OfficeLocationID != nil {
			if z, ok := in.LocationZones[*emp.OfficeLocationID]; ok && z != nil {
				loc = z
			}
		}
		dateKey := dateutil.LocalDateKey(event.OccurredAt, loc)

		key := attendance.PresenceKey{EmployeeID: emp.ID, Date: dateKey}
		day, ok := buckets[key]
		if !ok {
			day = &attendance.AttendanceDay{
				EmployeeID:  emp.ID,
				Date:        dateKey,
				Present:     true,
				FirstSeenAt: event.OccurredAt,
				LastSeenAt:  event.OccurredAt,
				LocationID:  emp.OfficeLocationID,
				Source:      event.Source,
			}
			buckets[key] = day
			continue
		}

		if event.OccurredAt.Before(day.FirstSeenAt) {
			day.FirstSeenAt = event.OccurredAt
		}
		if event.OccurredAt.After(day.LastSeenAt) {
			day.LastSeenAt = event.OccurredAt
		}
		if event.Source == attendance.SourceWebhook {
			day.Source = attendance.SourceWebhook
		}
	}

	days := make([]attendance.AttendanceDay, 0, len(buckets))
	for _, day := range buckets {
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].EmployeeID != days[j].EmployeeID {
			return days[i].EmployeeID < days[j].EmployeeID
		}
		return days[i].Date < days[j].Date
	})

	return days, discarded
}
