package attendance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/loopwork/insights-backend-go/internal/pkg/dateutil"
	"github.com/loopwork/insights-backend-go/internal/pkg/stats"
	"golang.org/x/sync/errgroup"
)

const (
	// trendWeeks is the trailing window for leader and employee trends:
	// the selected week plus the 7 preceding ones.
	trendWeeks = 8

	// rawEventLimit caps the badge events exposed on the employee detail.
	rawEventLimit = 50
)

type AttendanceServiceImpl struct {
	calc         *ComplianceCalculator
	employeeRepo attendance.EmployeeRepository
	holidayRepo  attendance.HolidayRepository
	dayRepo      attendance.AttendanceDayRepository
	eventRepo    attendance.BadgeEventRepository
	doorRepo     attendance.DoorRepository
	markers      MarkerAllowlist
	defaultZone  *time.Location
}

func NewAttendanceService(
	calc *ComplianceCalculator,
	employeeRepo attendance.EmployeeRepository,
	holidayRepo attendance.HolidayRepository,
	dayRepo attendance.AttendanceDayRepository,
	eventRepo attendance.BadgeEventRepository,
	doorRepo attendance.DoorRepository,
	markers MarkerAllowlist,
	defaultZone *time.Location,
) attendance.AttendanceService {
	if defaultZone == nil {
		defaultZone = time.UTC
	}
	return &AttendanceServiceImpl{
		calc:         calc,
		employeeRepo: employeeRepo,
		holidayRepo:  holidayRepo,
		dayRepo:      dayRepo,
		eventRepo:    eventRepo,
		doorRepo:     doorRepo,
		markers:      markers,
		defaultZone:  defaultZone,
	}
}

// resolveWeekStart validates an explicit week key or falls back to the
// current week's Monday. The pure calculator never reads the clock; the
// default happens here at the collaborator layer.
func (s *AttendanceServiceImpl) resolveWeekStart(weekStart string) (string, error) {
	if weekStart == "" {
		return dateutil.DateKey(dateutil.MondayOf(time.Now().In(s.defaultZone))), nil
	}
	if !dateutil.IsMonday(weekStart) {
		return "", attendance.ErrInvalidWeekStart
	}
	return weekStart, nil
}

// loadWeekInputs fetches employees, holidays and presence for a date
// range in parallel.
func (s *AttendanceServiceImpl) loadWeekInputs(
	ctx context.Context,
	teamID, locationID string,
	from, to string,
) ([]attendance.Employee, attendance.HolidayIndex, attendance.PresenceIndex, error) {
	var (
		employees []attendance.Employee
		holidays  attendance.HolidayIndex
		presence  attendance.PresenceIndex
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = s.employeeRepo.ListActive(gCtx, teamID, locationID)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		holidays, err = s.holidayRepo.IndexForRange(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("failed to index holidays: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		presence, err = s.dayRepo.PresenceForRange(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("failed to load presence: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, attendance.HolidayIndex{}, nil, err
	}
	return employees, holidays, presence, nil
}

// weekAgg accumulates one team-week (or overall-week) bucket.
type weekAgg struct {
	total         int
	compliant     int
	nonCompliant  int
	sumActualDays int
}

func (a weekAgg) compliancePct() float64 {
	return stats.Pct(a.compliant, a.total)
}

func (a weekAgg) avgActualDays() float64 {
	if a.total == 0 {
		return 0
	}
	return float64(a.sumActualDays) / float64(a.total)
}

// sortTeamRows orders the leader table worst-first: descending
// non-compliant count, ties broken by team name ascending.
func sortTeamRows(rows []attendance.TeamComplianceRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].NonCompliantCount != rows[j].NonCompliantCount {
			return rows[i].NonCompliantCount > rows[j].NonCompliantCount
		}
		return rows[i].TeamName < rows[j].TeamName
	})
}

// LeaderDashboard implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) LeaderDashboard(ctx context.Context, req attendance.LeaderDashboardRequest) (attendance.LeaderDashboardResponse, error) {
	weekStart, err := s.resolveWeekStart(req.WeekStart)
	if err != nil {
		return attendance.LeaderDashboardResponse{}, err
	}

	weeks, err := dateutil.WeekStarts(weekStart, trendWeeks)
	if err != nil {
		return attendance.LeaderDashboardResponse{}, attendance.ErrInvalidWeekStart
	}
	rangeEnd, err := dateutil.AddDays(weekStart, 4)
	if err != nil {
		return attendance.LeaderDashboardResponse{}, err
	}

	employees, holidays, presence, err := s.loadWeekInputs(ctx, req.TeamID, req.LocationID, weeks[0], rangeEnd)
	if err != nil {
		return attendance.LeaderDashboardResponse{}, err
	}

	teamNames := make(map[string]string)
	teamAggs := make(map[string][]weekAgg)
	overall := make([]weekAgg, len(weeks))

	for wi, week := range weeks {
		for _, emp := range employees {
			row, err := s.calc.ComputeWeeklyRow(emp, week, holidays, presence)
			if err != nil {
				return attendance.LeaderDashboardResponse{}, fmt.Errorf("failed to compute weekly row for employee %s: %w", emp.ID, err)
			}

			if _, ok := teamAggs[emp.TeamID]; !ok {
				teamAggs[emp.TeamID] = make([]weekAgg, len(weeks))
				teamNames[emp.TeamID] = emp.Team.Name
			}

			agg := &teamAggs[emp.TeamID][wi]
			agg.total++
			overall[wi].total++
			if row.PolicyCompliant {
				agg.compliant++
				overall[wi].compliant++
			} else {
				agg.nonCompliant++
				overall[wi].nonCompliant++
			}
			agg.sumActualDays += row.ActualDays
			overall[wi].sumActualDays += row.ActualDays
		}
	}

	lastIdx := len(weeks) - 1
	teams := make([]attendance.TeamComplianceRow, 0, len(teamAggs))
	for teamID, aggs := range teamAggs {
		trend := make([]float64, len(aggs))
		for i, agg := range aggs {
			trend[i] = agg.compliancePct()
		}
		teams = append(teams, attendance.TeamComplianceRow{
			TeamID:            teamID,
			TeamName:          teamNames[teamID],
			CompliancePct:     aggs[lastIdx].compliancePct(),
			NonCompliantCount: aggs[lastIdx].nonCompliant,
			AvgActualDays:     aggs[lastIdx].avgActualDays(),
			Trend:             trend,
		})
	}
	sortTeamRows(teams)

	var trailingSum float64
	for _, agg := range overall {
		trailingSum += agg.compliancePct()
	}

	return attendance.LeaderDashboardResponse{
		WeekStart: weekStart,
		Overall: attendance.OverallCompliance{
			ThisWeekPct:       overall[lastIdx].compliancePct(),
			LastWeekPct:       overall[lastIdx-1].compliancePct(),
			TrailingAvgPct:    trailingSum / float64(len(overall)),
			EmployeesMeasured: overall[lastIdx].total,
		},
		Teams: teams,
	}, nil
}

// ManagerDashboard implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ManagerDashboard(ctx context.Context, managerID, weekStart string) (attendance.ManagerDashboardResponse, error) {
	weekStart, err := s.resolveWeekStart(weekStart)
	if err != nil {
		return attendance.ManagerDashboardResponse{}, err
	}
	rangeEnd, err := dateutil.AddDays(weekStart, 4)
	if err != nil {
		return attendance.ManagerDashboardResponse{}, err
	}

	employees, holidays, presence, err := s.loadWeekInputs(ctx, "", "", weekStart, rangeEnd)
	if err != nil {
		return attendance.ManagerDashboardResponse{}, err
	}

	tree := s.calc.ReportingTreeIDs(managerID, employees)

	resp := attendance.ManagerDashboardResponse{
		ManagerID: managerID,
		WeekStart: weekStart,
	}
	for _, emp := range employees {
		if !tree[emp.ID] {
			continue
		}
		row, err := s.calc.ComputeWeeklyRow(emp, weekStart, holidays, presence)
		if err != nil {
			return attendance.ManagerDashboardResponse{}, fmt.Errorf("failed to compute weekly row for employee %s: %w", emp.ID, err)
		}
		resp.ReportCount++
		if row.PolicyCompliant {
			resp.Compliant++
		}
		resp.Reports = append(resp.Reports, mapWeeklyRow(emp, row))
	}

	sort.Slice(resp.Reports, func(i, j int) bool {
		return resp.Reports[i].EmployeeName < resp.Reports[j].EmployeeName
	})
	return resp, nil
}

// TeamDetail implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TeamDetail(ctx context.Context, teamID, weekStart string) (attendance.TeamDetailResponse, error) {
	weekStart, err := s.resolveWeekStart(weekStart)
	if err != nil {
		return attendance.TeamDetailResponse{}, err
	}

	team, err := s.employeeRepo.GetTeam(ctx, teamID)
	if err != nil {
		return attendance.TeamDetailResponse{}, fmt.Errorf("failed to get team: %w", err)
	}

	rangeEnd, err := dateutil.AddDays(weekStart, 4)
	if err != nil {
		return attendance.TeamDetailResponse{}, err
	}
	employees, holidays, presence, err := s.loadWeekInputs(ctx, teamID, "", weekStart, rangeEnd)
	if err != nil {
		return attendance.TeamDetailResponse{}, err
	}

	days, err := dateutil.WeekdayKeys(weekStart)
	if err != nil {
		return attendance.TeamDetailResponse{}, attendance.ErrInvalidWeekStart
	}

	resp := attendance.TeamDetailResponse{
		TeamID:    teamID,
		TeamName:  team.Name,
		WeekStart: weekStart,
	}

	var agg weekAgg
	for _, emp := range employees {
		row, err := s.calc.ComputeWeeklyRow(emp, weekStart, holidays, presence)
		if err != nil {
			return attendance.TeamDetailResponse{}, fmt.Errorf("failed to compute weekly row for employee %s: %w", emp.ID, err)
		}
		agg.total++
		if row.PolicyCompliant {
			agg.compliant++
		}

		member := attendance.TeamMemberDetail{
			EmployeeWeeklyResponse: mapWeeklyRow(emp, row),
		}
		for i, dayKey := range days {
			eligible := !holidays.IsHoliday(dayKey, emp.OfficeLocationID)
			day, ok := presence.Get(emp.ID, dayKey)
			member.Days[i] = attendance.DayPresence{
				Date:      dayKey,
				Eligible:  eligible,
				Scheduled: team.IsScheduledDay(time.Monday + time.Weekday(i)),
				Present:   eligible && ok && day.Present,
			}
		}
		resp.Members = append(resp.Members, member)
	}
	resp.CompliancePct = agg.compliancePct()

	sort.Slice(resp.Members, func(i, j int) bool {
		return resp.Members[i].EmployeeName < resp.Members[j].EmployeeName
	})
	return resp, nil
}

// EmployeeDetail implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EmployeeDetail(ctx context.Context, req attendance.EmployeeDetailRequest) (attendance.EmployeeDetailResponse, error) {
	weekStart, err := s.resolveWeekStart(req.WeekStart)
	if err != nil {
		return attendance.EmployeeDetailResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.EmployeeDetailResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	weeks, err := dateutil.WeekStarts(weekStart, trendWeeks)
	if err != nil {
		return attendance.EmployeeDetailResponse{}, attendance.ErrInvalidWeekStart
	}
	rangeEnd, err := dateutil.AddDays(weekStart, 4)
	if err != nil {
		return attendance.EmployeeDetailResponse{}, err
	}

	var (
		holidays attendance.HolidayIndex
		presence attendance.PresenceIndex
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		holidays, err = s.holidayRepo.IndexForRange(gCtx, weeks[0], rangeEnd)
		return err
	})
	g.Go(func() error {
		var err error
		presence, err = s.dayRepo.PresenceForRange(gCtx, weeks[0], rangeEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.EmployeeDetailResponse{}, err
	}

	resp := attendance.EmployeeDetailResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
	}
	if emp.Team != nil {
		resp.TeamName = emp.Team.Name
	}

	for _, week := range weeks {
		row, err := s.calc.ComputeWeeklyRow(emp, week, holidays, presence)
		if err != nil {
			return attendance.EmployeeDetailResponse{}, fmt.Errorf("failed to compute weekly row: %w", err)
		}
		resp.Trend = append(resp.Trend, mapWeeklyRow(emp, row))
	}
	resp.CurrentWeek = resp.Trend[len(resp.Trend)-1]

	if req.IncludeRawEvents && emp.BrivoUserID != nil {
		events, err := s.eventRepo.ListRecentByEmployee(ctx, *emp.BrivoUserID, rawEventLimit)
		if err != nil {
			return attendance.EmployeeDetailResponse{}, fmt.Errorf("failed to list badge events: %w", err)
		}
		for _, event := range events {
			resp.RawEvents = append(resp.RawEvents, attendance.BadgeEventResponse{
				ID:             event.ID,
				DoorID:         event.DoorID,
				OccurredAt:     event.OccurredAt.UTC().Format(time.RFC3339),
				EventType:      event.EventType,
				SecurityAction: event.SecurityAction,
				Source:         event.Source,
			})
		}
	}

	return resp, nil
}

// RebuildWindow implements attendance.AttendanceService.
//
// Events are fetched with a one-day margin on each side so that local
// days near the window edges bucket correctly across timezones; rows
// outside [From, To] are dropped before the upsert.
func (s *AttendanceServiceImpl) RebuildWindow(ctx context.Context, req attendance.RebuildRequest) (attendance.RebuildResult, error) {
	fromDay, err := dateutil.ParseDateKey(req.From)
	if err != nil {
		return attendance.RebuildResult{}, err
	}
	toDay, err := dateutil.ParseDateKey(req.To)
	if err != nil {
		return attendance.RebuildResult{}, err
	}

	roster, err := s.employeeRepo.MapByBrivoUserID(ctx)
	if err != nil {
		return attendance.RebuildResult{}, fmt.Errorf("failed to load roster mapping: %w", err)
	}
	doors, err := s.doorRepo.ListCountingForEntry(ctx)
	if err != nil {
		return attendance.RebuildResult{}, fmt.Errorf("failed to load doors: %w", err)
	}
	entryDoors := make(map[string]bool, len(doors))
	for _, door := range doors {
		entryDoors[door.ID] = true
	}

	locations, err := s.employeeRepo.ListLocations(ctx)
	if err != nil {
		return attendance.RebuildResult{}, fmt.Errorf("failed to list locations: %w", err)
	}
	zones := make(map[string]*time.Location, len(locations))
	for _, location := range locations {
		loc, err := time.LoadLocation(location.Timezone)
		if err != nil {
			loc = s.defaultZone
		}
		zones[location.ID] = loc
	}

	events, err := s.eventRepo.ListInRange(ctx,
		fromDay.AddDate(0, 0, -1),
		toDay.AddDate(0, 0, 2),
	)
	if err != nil {
		return attendance.RebuildResult{}, fmt.Errorf("failed to list badge events: %w", err)
	}

	days, discarded := BuildAttendanceDays(ReconcileInput{
		Events:          events,
		RosterByBrivoID: roster,
		EntryDoorIDs:    entryDoors,
		Markers:         s.markers,
		LocationZones:   zones,
		DefaultZone:     s.defaultZone,
	})

	inWindow := days[:0]
	for _, day := range days {
		if day.Date >= req.From && day.Date <= req.To {
			inWindow = append(inWindow, day)
		}
	}

	if err := s.dayRepo.UpsertMany(ctx, inWindow); err != nil {
		return attendance.RebuildResult{}, fmt.Errorf("failed to upsert attendance days: %w", err)
	}

	return attendance.RebuildResult{
		DaysUpserted:    len(inWindow),
		EventsSeen:      len(events),
		EventsDiscarded: discarded,
	}, nil
}

// mapWeeklyRow converts a computed row plus its employee into the
// response shape.
func mapWeeklyRow(emp attendance.Employee, row attendance.WeeklyEmployeeRow) attendance.EmployeeWeeklyResponse {
	resp := attendance.EmployeeWeeklyResponse{
		EmployeeID:           row.EmployeeID,
		EmployeeName:         emp.FullName,
		WeekStart:            row.WeekStart,
		RequiredDaysAdjusted: row.RequiredDaysAdjusted,
		ActualDays:           row.ActualDays,
		Deficit:              row.Deficit,
		PolicyCompliant:      row.PolicyCompliant,
		ScheduleAdherencePct: row.ScheduleAdherencePct,
	}
	if emp.Team != nil {
		resp.TeamName = emp.Team.Name
	}
	if row.LastSeenAt != nil {
		formatted := row.LastSeenAt.UTC().Format("2006-01-02 15:04:05")
		resp.LastSeenAt = &formatted
	}
	return resp
}
