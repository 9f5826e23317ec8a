package attendance

import (
	"testing"
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Week under test: Monday 2026-01-05 .. Friday 2026-01-09.
const testWeek = "2026-01-05"

func testEmployee() attendance.Employee {
	return attendance.Employee{
		ID:       "emp-1",
		FullName: "Ayu Lestari",
		TeamID:   "team-1",
		Active:   true,
		Team: &attendance.Team{
			ID:                  "team-1",
			Name:                "Platform",
			ScheduleDays:        []time.Weekday{time.Monday, time.Wednesday, time.Thursday},
			RequiredDaysPerWeek: 3,
		},
	}
}

func presentOn(employeeID string, dates ...string) attendance.PresenceIndex {
	idx := make(attendance.PresenceIndex)
	for i, date := range dates {
		seen := time.Date(2026, 1, 5+i, 17, 0, 0, 0, time.UTC)
		idx[attendance.PresenceKey{EmployeeID: employeeID, Date: date}] = attendance.AttendanceDay{
			EmployeeID:  employeeID,
			Date:        date,
			Present:     true,
			FirstSeenAt: seen.Add(-8 * time.Hour),
			LastSeenAt:  seen,
			Source:      attendance.SourceWebhook,
		}
	}
	return idx
}

func globalHolidays(dates ...string) attendance.HolidayIndex {
	idx := attendance.HolidayIndex{Global: map[string]bool{}, ByLocation: map[string]map[string]bool{}}
	for _, d := range dates {
		idx.Global[d] = true
	}
	return idx
}

func TestComplianceCalculator_ComputeWeeklyRow_FullWeek(t *testing.T) {
	calc := NewComplianceCalculator()
	emp := testEmployee()
	presence := presentOn(emp.ID, "2026-01-05", "2026-01-06", "2026-01-07")

	row, err := calc.ComputeWeeklyRow(emp, testWeek, globalHolidays(), presence)
	require.NoError(t, err)

	assert.Equal(t, 5, row.EligibleDays)
	assert.Equal(t, 3, row.ScheduledEligibleDays)
	assert.Equal(t, 3, row.RequiredDaysAdjusted)
	assert.Equal(t, 3, row.ActualDays)
	assert.Equal(t, 0, row.Deficit)
	assert.True(t, row.PolicyCompliant)
}

func TestComplianceCalculator_ComputeWeeklyRow_OneHolidayKeepsRequirement(t *testing.T) {
	calc := NewComplianceCalculator()
	emp := testEmployee()
	// Tuesday holiday: 4 eligible days remain, still >= 3 required.
	holidays := globalHolidays("2026-01-06")

	row, err := calc.ComputeWeeklyRow(emp, testWeek, holidays, attendance.PresenceIndex{})
	require.NoError(t, err)

	assert.Equal(t, 4, row.EligibleDays)
	assert.Equal(t, 3, row.RequiredDaysAdjusted)
}

func TestComplianceCalculator_ComputeWeeklyRow_HolidaysShrinkRequirement(t *testing.T) {
	calc := NewComplianceCalculator()
	emp := testEmployee()
	// Three holidays leave 2 eligible days, so the requirement drops to 2.
	holidays := globalHolidays("2026-01-06", "2026-01-07", "2026-01-08")
	presence := presentOn(emp.ID, "2026-01-05", "2026-01-09")

	row, err := calc.ComputeWeeklyRow(emp, testWeek, holidays, presence)
	require.NoError(t, err)

	assert.Equal(t, 2, row.EligibleDays)
	assert.Equal(t, 2, row.RequiredDaysAdjusted)
	assert.Equal(t, 2, row.ActualDays)
	assert.True(t, row.PolicyCompliant)
}

func TestComplianceCalculator_ComputeWeeklyRow_AllHolidaysTriviallyCompliant(t *testing.T) {
	calc := NewComplianceCalculator()
	emp := testEmployee()
	holidays := globalHolidays("2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08", "2026-01-09")

	row, err := calc.ComputeWeeklyRow(emp, testWeek, holidays, attendance.PresenceIndex{})
	require.NoError(t, err)

	assert.Equal(t, 0, row.EligibleDays)
	assert.Equal(t, 0, row.RequiredDaysAdjusted)
	assert.True(t, row.PolicyCompliant)
	assert.Equal(t, 0.0, row.ScheduleAdherencePct)
}

func TestComplianceCalculator_ComputeWeeklyRow_ComplianceBoundary(t *testing.T) {
	calc := NewComplianceCalculator()
	emp := testEmployee()

	exact, err := calc.ComputeWeeklyRow(emp, testWeek, globalHolidays(),
		presentOn(emp.ID, "2026-01-05", "2026-01-06", "2026-01-07"))
	require.NoError(t, err)
	assert.True(t, exact.PolicyCompliant)
	assert.Equal(t, 0, exact.Deficit)

	oneShort, err := calc.ComputeWeeklyRow(emp, testWeek, globalHolidays(),
		presentOn(emp.ID, "2026-01-05", "2026-01-06"))
	require.NoError(t, err)
	assert.False(t, oneShort.PolicyCompliant)
	assert.Equal(t, 1, oneShort.Deficit)
}

func TestComplianceCalculator_ComputeWeeklyRow_DeficitNeverNegative(t *testing.T) {
	calc := NewComplianceCalculator()
	emp := testEmployee()
	// Present all 5 weekdays, required only 3.
	presence := presentOn(emp.ID, "2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08", "2026-01-09")

	row, err := calc.ComputeWeeklyRow(emp, testWeek, globalHolidays(), presence)
	require.NoError(t, err)
	assert.Equal(t, 5, row.ActualDays)
	assert.Equal(t, 0, row.Deficit)
}

func TestComplianceCalculator_ComputeWeeklyRow_ScheduleAdherence(t *testing.T) {
	calc := NewComplianceCalculator()
	emp := testEmployee()
	// Present Monday (scheduled) and Tuesday (not scheduled): 1 of 3
	// scheduled days attended.
	presence := presentOn(emp.ID, "2026-01-05", "2026-01-06")

	row, err := calc.ComputeWeeklyRow(emp, testWeek, globalHolidays(), presence)
	require.NoError(t, err)
	assert.Equal(t, 1, row.AttendedOnScheduledDays)
	assert.InDelta(t, 33.33, row.ScheduleAdherencePct, 0.01)
}

func TestComplianceCalculator_ComputeWeeklyRow_LocationScopedHoliday(t *testing.T) {
	calc := NewComplianceCalculator()
	jakarta := "loc-jkt"

	emp := testEmployee()
	emp.OfficeLocationID = &jakarta

	other := testEmployee()
	other.ID = "emp-2"

	holidays := attendance.HolidayIndex{
		Global: map[string]bool{},
		ByLocation: map[string]map[string]bool{
			jakarta: {"2026-01-07": true},
		},
	}

	scoped, err := calc.ComputeWeeklyRow(emp, testWeek, holidays, attendance.PresenceIndex{})
	require.NoError(t, err)
	assert.Equal(t, 4, scoped.EligibleDays)

	unscoped, err := calc.ComputeWeeklyRow(other, testWeek, holidays, attendance.PresenceIndex{})
	require.NoError(t, err)
	assert.Equal(t, 5, unscoped.EligibleDays)
}

func TestComplianceCalculator_ComputeWeeklyRow_TracksLatestSeen(t *testing.T) {
	calc := NewComplianceCalculator()
	emp := testEmployee()
	presence := presentOn(emp.ID, "2026-01-05", "2026-01-07")

	row, err := calc.ComputeWeeklyRow(emp, testWeek, globalHolidays(), presence)
	require.NoError(t, err)
	require.NotNil(t, row.LastSeenAt)
	assert.Equal(t, time.Date(2026, 1, 6, 17, 0, 0, 0, time.UTC), *row.LastSeenAt)
}

func TestComplianceCalculator_ComputeWeeklyRow_NoTeam(t *testing.T) {
	calc := NewComplianceCalculator()
	emp := testEmployee()
	emp.Team = nil

	_, err := calc.ComputeWeeklyRow(emp, testWeek, globalHolidays(), attendance.PresenceIndex{})
	assert.ErrorIs(t, err, attendance.ErrEmployeeWithoutTeam)
}

func TestComplianceCalculator_ComputeWeeklyRow_NonMondayWeekStart(t *testing.T) {
	calc := NewComplianceCalculator()

	_, err := calc.ComputeWeeklyRow(testEmployee(), "2026-01-06", globalHolidays(), attendance.PresenceIndex{})
	assert.ErrorIs(t, err, attendance.ErrInvalidWeekStart)
}

func TestComplianceCalculator_ComputeWeeklyRow_Idempotent(t *testing.T) {
	calc := NewComplianceCalculator()
	emp := testEmployee()
	holidays := globalHolidays("2026-01-06")
	presence := presentOn(emp.ID, "2026-01-05", "2026-01-07")

	first, err := calc.ComputeWeeklyRow(emp, testWeek, holidays, presence)
	require.NoError(t, err)
	second, err := calc.ComputeWeeklyRow(emp, testWeek, holidays, presence)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComplianceCalculator_ReportingTreeIDs_Transitive(t *testing.T) {
	calc := NewComplianceCalculator()
	manager := "mgr"
	r1 := "r1"

	employees := []attendance.Employee{
		{ID: "r1", ManagerID: &manager},
		{ID: "r2", ManagerID: &r1},
		{ID: "unrelated"},
	}

	tree := calc.ReportingTreeIDs(manager, employees)
	assert.Equal(t, map[string]bool{"r1": true, "r2": true}, tree)
}

func TestComplianceCalculator_ReportingTreeIDs_CycleTerminates(t *testing.T) {
	calc := NewComplianceCalculator()
	a, b := "a", "b"

	// a manages b and b manages a; the walk must not loop.
	employees := []attendance.Employee{
		{ID: "a", ManagerID: &b},
		{ID: "b", ManagerID: &a},
	}

	tree := calc.ReportingTreeIDs("a", employees)
	assert.Equal(t, map[string]bool{"b": true}, tree)
}
