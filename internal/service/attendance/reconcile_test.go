package attendance

import (
	"testing"
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconcileFixture() ReconcileInput {
	return ReconcileInput{
		RosterByBrivoID: map[string]attendance.Employee{
			"brivo-1": {ID: "emp-1"},
		},
		EntryDoorIDs: map[string]bool{"door-main": true},
		Markers:      NewMarkerAllowlist([]string{"door_opened", "ADMITTED"}),
		DefaultZone:  time.UTC,
	}
}

func badgeEvent(brivoID, doorID string, at time.Time, source string) attendance.BadgeEvent {
	return attendance.BadgeEvent{
		BrivoUserID:    brivoID,
		DoorID:         doorID,
		OccurredAt:     at,
		EventType:      "DOOR_OPENED",
		SecurityAction: "admitted",
		Source:         source,
	}
}

func TestMarkerAllowlist_MatchesEitherField(t *testing.T) {
	allow := NewMarkerAllowlist([]string{"door_opened", " admitted "})

	assert.True(t, allow.Matches(attendance.BadgeEvent{EventType: "DOOR_OPENED"}))
	assert.True(t, allow.Matches(attendance.BadgeEvent{SecurityAction: "Admitted"}))
	assert.False(t, allow.Matches(attendance.BadgeEvent{EventType: "DOOR_FORCED", SecurityAction: "denied"}))
}

func TestBuildAttendanceDays_CollapsesToMinMax(t *testing.T) {
	in := reconcileFixture()
	in.Events = []attendance.BadgeEvent{
		badgeEvent("brivo-1", "door-main", time.Date(2026, 1, 5, 12, 15, 0, 0, time.UTC), attendance.SourcePolling),
		badgeEvent("brivo-1", "door-main", time.Date(2026, 1, 5, 8, 55, 0, 0, time.UTC), attendance.SourcePolling),
		badgeEvent("brivo-1", "door-main", time.Date(2026, 1, 5, 17, 40, 0, 0, time.UTC), attendance.SourcePolling),
	}

	days, discarded := BuildAttendanceDays(in)
	require.Len(t, days, 1)
	assert.Equal(t, 0, discarded)

	day := days[0]
	assert.Equal(t, "emp-1", day.EmployeeID)
	assert.Equal(t, "2026-01-05", day.Date)
	assert.True(t, day.Present)
	assert.Equal(t, time.Date(2026, 1, 5, 8, 55, 0, 0, time.UTC), day.FirstSeenAt)
	assert.Equal(t, time.Date(2026, 1, 5, 17, 40, 0, 0, time.UTC), day.LastSeenAt)
	assert.Equal(t, attendance.SourcePolling, day.Source)
}

func TestBuildAttendanceDays_WebhookWinsOverPolling(t *testing.T) {
	in := reconcileFixture()
	in.Events = []attendance.BadgeEvent{
		badgeEvent("brivo-1", "door-main", time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), attendance.SourcePolling),
		badgeEvent("brivo-1", "door-main", time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC), attendance.SourceWebhook),
		badgeEvent("brivo-1", "door-main", time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC), attendance.SourcePolling),
	}

	days, _ := BuildAttendanceDays(in)
	require.Len(t, days, 1)

	// Source flips to webhook, but first/last seen still span every
	// qualifying event regardless of source.
	assert.Equal(t, attendance.SourceWebhook, days[0].Source)
	assert.Equal(t, time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), days[0].FirstSeenAt)
	assert.Equal(t, time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC), days[0].LastSeenAt)
}

func TestBuildAttendanceDays_DiscardsNonQualifying(t *testing.T) {
	in := reconcileFixture()
	at := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	unknownUser := badgeEvent("brivo-ghost", "door-main", at, attendance.SourceWebhook)
	garageDoor := badgeEvent("brivo-1", "door-garage", at, attendance.SourceWebhook)
	denied := badgeEvent("brivo-1", "door-main", at, attendance.SourceWebhook)
	denied.EventType = "DOOR_FORCED"
	denied.SecurityAction = "denied"

	in.Events = []attendance.BadgeEvent{unknownUser, garageDoor, denied}

	days, discarded := BuildAttendanceDays(in)
	assert.Empty(t, days)
	assert.Equal(t, 3, discarded)
}

func TestBuildAttendanceDays_BucketsByLocationZone(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	locID := "loc-jkt"
	in := reconcileFixture()
	in.RosterByBrivoID = map[string]attendance.Employee{
		"brivo-1": {ID: "emp-1", OfficeLocationID: &locID},
	}
	in.LocationZones = map[string]*time.Location{locID: jakarta}
	// 18:30 UTC on Jan 5 is 01:30 on Jan 6 in Jakarta.
	in.Events = []attendance.BadgeEvent{
		badgeEvent("brivo-1", "door-main", time.Date(2026, 1, 5, 18, 30, 0, 0, time.UTC), attendance.SourceWebhook),
	}

	days, _ := BuildAttendanceDays(in)
	require.Len(t, days, 1)
	assert.Equal(t, "2026-01-06", days[0].Date)
}

func TestBuildAttendanceDays_Deterministic(t *testing.T) {
	in := reconcileFixture()
	in.RosterByBrivoID["brivo-2"] = attendance.Employee{ID: "emp-2"}
	in.Events = []attendance.BadgeEvent{
		badgeEvent("brivo-2", "door-main", time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC), attendance.SourceWebhook),
		badgeEvent("brivo-1", "door-main", time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), attendance.SourceWebhook),
		badgeEvent("brivo-1", "door-main", time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC), attendance.SourceWebhook),
	}

	first, _ := BuildAttendanceDays(in)
	second, _ := BuildAttendanceDays(in)
	assert.Equal(t, first, second)

	// Sorted by employee then date.
	require.Len(t, first, 3)
	assert.Equal(t, "emp-1", first[0].EmployeeID)
	assert.Equal(t, "2026-01-05", first[0].Date)
	assert.Equal(t, "emp-1", first[1].EmployeeID)
	assert.Equal(t, "2026-01-06", first[1].Date)
	assert.Equal(t, "emp-2", first[2].EmployeeID)
}

func TestSortTeamRows_WorstFirst(t *testing.T) {
	rows := []attendance.TeamComplianceRow{
		{TeamName: "Platform", NonCompliantCount: 1},
		{TeamName: "Design", NonCompliantCount: 4},
		{TeamName: "Ops", NonCompliantCount: 4},
		{TeamName: "Data", NonCompliantCount: 0},
	}

	sortTeamRows(rows)

	assert.Equal(t, "Design", rows[0].TeamName)
	assert.Equal(t, "Ops", rows[1].TeamName)
	assert.Equal(t, "Platform", rows[2].TeamName)
	assert.Equal(t, "Data", rows[3].TeamName)
}

func TestWeekAgg_Percentages(t *testing.T) {
	empty := weekAgg{}
	assert.Equal(t, 0.0, empty.compliancePct())
	assert.Equal(t, 0.0, empty.avgActualDays())

	agg := weekAgg{total: 4, compliant: 3, nonCompliant: 1, sumActualDays: 10}
	assert.Equal(t, 75.0, agg.compliancePct())
	assert.Equal(t, 2.5, agg.avgActualDays())
}
