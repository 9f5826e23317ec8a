package attendance

import (
	"context"
)

// AttendanceService exposes the compliance dashboards and the badge
// reconciliation entry point.
type AttendanceService interface {
	// LeaderDashboard computes the 8-week cross-team rollup.
	LeaderDashboard(ctx context.Context, req LeaderDashboardRequest) (LeaderDashboardResponse, error)

	// ManagerDashboard scopes weekly rows to a manager's transitive reports.
	ManagerDashboard(ctx context.Context, managerID, weekStart string) (ManagerDashboardResponse, error)

	// TeamDetail adds a Mon-Fri presence breakdown per member.
	TeamDetail(ctx context.Context, teamID, weekStart string) (TeamDetailResponse, error)

	// EmployeeDetail adds an 8-week trend and, when the caller permits,
	// up to 50 most recent raw badge events.
	EmployeeDetail(ctx context.Context, req EmployeeDetailRequest) (EmployeeDetailResponse, error)

	// RebuildWindow reconciles raw badge events into AttendanceDay rows
	// for [req.From, req.To]. Safe to re-run over overlapping windows.
	RebuildWindow(ctx context.Context, req RebuildRequest) (RebuildResult, error)
}
