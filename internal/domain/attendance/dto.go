package attendance

// ========== LEADER DASHBOARD ==========

type LeaderDashboardRequest struct {
	WeekStart  string // Monday date key; empty = current week
	TeamID     string // optional filter
	LocationID string // optional filter
}

// LeaderDashboardResponse covers the selected week plus the 7 preceding
// weeks (an 8-week trailing window).
type LeaderDashboardResponse struct {
	WeekStart string              `json:"week_start"`
	Overall   OverallCompliance   `json:"overall"`
	Teams     []TeamComplianceRow `json:"teams"`
}

type OverallCompliance struct {
	ThisWeekPct       float64 `json:"this_week_pct"`
	LastWeekPct       float64 `json:"last_week_pct"`
	TrailingAvgPct    float64 `json:"trailing_avg_pct"`
	EmployeesMeasured int     `json:"employees_measured"`
}

// TeamComplianceRow is one row of the leader table, sorted worst-first:
// descending non-compliant count, ties broken by team name.
type TeamComplianceRow struct {
	TeamID            string    `json:"team_id"`
	TeamName          string    `json:"team_name"`
	CompliancePct     float64   `json:"compliance_pct"`
	NonCompliantCount int       `json:"non_compliant_count"`
	AvgActualDays     float64   `json:"avg_actual_days"`
	Trend             []float64 `json:"trend"` // 8 points, oldest first
}

// ========== MANAGER DASHBOARD ==========

type ManagerDashboardResponse struct {
	ManagerID   string                   `json:"manager_id"`
	WeekStart   string                   `json:"week_start"`
	ReportCount int                      `json:"report_count"`
	Compliant   int                      `json:"compliant"`
	Reports     []EmployeeWeeklyResponse `json:"reports"`
}

type EmployeeWeeklyResponse struct {
	EmployeeID           string  `json:"employee_id"`
	EmployeeName         string  `json:"employee_name"`
	TeamName             string  `json:"team_name"`
	WeekStart            string  `json:"week_start"`
	RequiredDaysAdjusted int     `json:"required_days_adjusted"`
	ActualDays           int     `json:"actual_days"`
	Deficit              int     `json:"deficit"`
	PolicyCompliant      bool    `json:"policy_compliant"`
	ScheduleAdherencePct float64 `json:"schedule_adherence_pct"`
	LastSeenAt           *string `json:"last_seen_at,omitempty"`
}

// ========== TEAM DETAIL ==========

type TeamDetailResponse struct {
	TeamID        string             `json:"team_id"`
	TeamName      string             `json:"team_name"`
	WeekStart     string             `json:"week_start"`
	CompliancePct float64            `json:"compliance_pct"`
	Members       []TeamMemberDetail `json:"members"`
}

type TeamMemberDetail struct {
	EmployeeWeeklyResponse
	Days [5]DayPresence `json:"days"` // Mon..Fri of the selected week
}

type DayPresence struct {
	Date      string `json:"date"`
	Eligible  bool   `json:"eligible"`
	Scheduled bool   `json:"scheduled"`
	Present   bool   `json:"present"`
}

// ========== EMPLOYEE DETAIL ==========

type EmployeeDetailRequest struct {
	EmployeeID string
	WeekStart  string
	// IncludeRawEvents is an authorization decision made by the caller
	// (HR/admin only); the service just honors it.
	IncludeRawEvents bool
}

type EmployeeDetailResponse struct {
	EmployeeID   string                   `json:"employee_id"`
	EmployeeName string                   `json:"employee_name"`
	TeamName     string                   `json:"team_name"`
	CurrentWeek  EmployeeWeeklyResponse   `json:"current_week"`
	Trend        []EmployeeWeeklyResponse `json:"trend"` // 8 weeks, oldest first
	RawEvents    []BadgeEventResponse     `json:"raw_events,omitempty"`
}

type BadgeEventResponse struct {
	ID             string `json:"id"`
	DoorID         string `json:"door_id"`
	OccurredAt     string `json:"occurred_at"`
	EventType      string `json:"event_type"`
	SecurityAction string `json:"security_action"`
	Source         string `json:"source"`
}

// ========== RECONCILIATION ==========

type RebuildRequest struct {
	From string `json:"from"` // date key, inclusive
	To   string `json:"to"`   // date key, inclusive
}

type RebuildResult struct {
	DaysUpserted    int `json:"days_upserted"`
	EventsSeen      int `json:"events_seen"`
	EventsDiscarded int `json:"events_discarded"`
}
