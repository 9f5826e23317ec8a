package attendance

import (
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/loopwork/insights-backend-go/internal/pkg/dateutil"
	"github.com/loopwork/insights-backend-go/internal/pkg/stats"
)

// ComplianceCalculator turns presence facts into weekly compliance
// verdicts. It holds no state and reads no clock: the week is always an
// explicit parameter, so identical inputs yield identical rows.
type ComplianceCalculator struct {
}

func NewComplianceCalculator() *ComplianceCalculator {
	return &ComplianceCalculator{}
}

// ComputeWeeklyRow evaluates one employee against one Monday-anchored
// week.
//
// A day is eligible iff it is a weekday and not a holiday for the
// employee's scope (global or matching office location). A day is
// scheduled iff its weekday is in the team's office-day set. Holidays
// shrink the requirement instead of penalizing the employee:
// requiredDaysAdjusted = min(team requirement, eligible day count).
func (c *ComplianceCalculator) ComputeWeeklyRow(
	emp attendance.Employee,
	weekStart string,
	holidays attendance.HolidayIndex,
	presence attendance.PresenceIndex,
) (attendance.WeeklyEmployeeRow, error) {
	if emp.Team == nil {
		return attendance.WeeklyEmployeeRow{}, attendance.ErrEmployeeWithoutTeam
	}

	days, err := dateutil.WeekdayKeys(weekStart)
	if err != nil {
		return attendance.WeeklyEmployeeRow{}, attendance.ErrInvalidWeekStart
	}

	row := attendance.WeeklyEmployeeRow{
		EmployeeID: emp.ID,
		WeekStart:  weekStart,
	}

	var lastSeen *time.Time

	for i, dayKey := range days {
		if holidays.IsHoliday(dayKey, emp.OfficeLocationID) {
			continue
		}
		row.EligibleDays++

		weekday := time.Monday + time.Weekday(i)
		scheduled := emp.Team.IsScheduledDay(weekday)
		if scheduled {
			row.ScheduledEligibleDays++
		}

		day, ok := presence.Get(emp.ID, dayKey)
		if !ok || !day.Present {
			continue
		}
		row.ActualDays++
		if scheduled {
			row.AttendedOnScheduledDays++
		}
		if lastSeen == nil || day.LastSeenAt.After(*lastSeen) {
			seen := day.LastSeenAt
			lastSeen = &seen
		}
	}

	row.RequiredDaysAdjusted = emp.Team.RequiredDaysPerWeek
	if row.EligibleDays < row.RequiredDaysAdjusted {
		row.RequiredDaysAdjusted = row.EligibleDays
	}
	row.Deficit = row.RequiredDaysAdjusted - row.ActualDays
	if row.Deficit < 0 {
		row.Deficit = 0
	}
	row.PolicyCompliant = row.ActualDays >= row.RequiredDaysAdjusted
	row.ScheduleAdherencePct = stats.Pct(row.AttendedOnScheduledDays, row.ScheduledEligibleDays)
	row.LastSeenAt = lastSeen

	return row, nil
}

// ReportingTreeIDs walks the manager->reports adjacency breadth-first
// and returns every transitive report of managerID. Each employee has at
// most one manager so the graph is a forest, but a malformed cycle must
// not hang: visited ids are never re-enqueued.
func (c *ComplianceCalculator) ReportingTreeIDs(managerID string, employees []attendance.Employee) map[string]bool {
	reports := make(map[string][]string, len(employees))
	for _, emp := range employees {
		if emp.ManagerID == nil {
			continue
		}
		reports[*emp.ManagerID] = append(reports[*emp.ManagerID], emp.ID)
	}

	tree := make(map[string]bool)
	visited := map[string]bool{managerID: true}
	queue := []string{managerID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, reportID := range reports[current] {
			if visited[reportID] {
				continue
			}
			visited[reportID] = true
			tree[reportID] = true
			queue = append(queue, reportID)
		}
	}

	return tree
}
