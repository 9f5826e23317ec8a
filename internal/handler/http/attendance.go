package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/loopwork/insights-backend-go/internal/handler/http/middleware"
	"github.com/loopwork/insights-backend-go/internal/handler/http/response"
	"github.com/loopwork/insights-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	// LeaderDashboard returns the cross-team compliance rollup
	LeaderDashboard(w http.ResponseWriter, r *http.Request)
	// ManagerDashboard returns weekly rows for a manager's reporting tree
	ManagerDashboard(w http.ResponseWriter, r *http.Request)
	// TeamDetail returns per-member day breakdowns for one team
	TeamDetail(w http.ResponseWriter, r *http.Request)
	// EmployeeDetail returns one employee's week, trend and optional raw events
	EmployeeDetail(w http.ResponseWriter, r *http.Request)
	// Rebuild reconciles badge events into attendance days for a date window
	Rebuild(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// LeaderDashboard handles GET /attendance/dashboard/leader
func (h *attendanceHandlerImpl) LeaderDashboard(w http.ResponseWriter, r *http.Request) {
	req := attendance.LeaderDashboardRequest{
		WeekStart:  r.URL.Query().Get("week_start"), // Monday YYYY-MM-DD, default: current week
		TeamID:     r.URL.Query().Get("team_id"),
		LocationID: r.URL.Query().Get("location_id"),
	}

	result, err := h.attendanceService.LeaderDashboard(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ManagerDashboard handles GET /attendance/dashboard/managers/{managerID}
func (h *attendanceHandlerImpl) ManagerDashboard(w http.ResponseWriter, r *http.Request) {
	managerID := chi.URLParam(r, "managerID")
	weekStart := r.URL.Query().Get("week_start")

	result, err := h.attendanceService.ManagerDashboard(r.Context(), managerID, weekStart)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TeamDetail handles GET /attendance/teams/{teamID}
func (h *attendanceHandlerImpl) TeamDetail(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	weekStart := r.URL.Query().Get("week_start")

	result, err := h.attendanceService.TeamDetail(r.Context(), teamID, weekStart)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// EmployeeDetail handles GET /attendance/employees/{employeeID}.
// Raw badge events are only attached for HR and admin tokens, regardless
// of the query parameter.
func (h *attendanceHandlerImpl) EmployeeDetail(w http.ResponseWriter, r *http.Request) {
	includeRaw := r.URL.Query().Get("include_raw_events") == "true" &&
		middleware.HasRole(r, middleware.RoleHR, middleware.RoleAdmin)

	req := attendance.EmployeeDetailRequest{
		EmployeeID:       chi.URLParam(r, "employeeID"),
		WeekStart:        r.URL.Query().Get("week_start"),
		IncludeRawEvents: includeRaw,
	}

	result, err := h.attendanceService.EmployeeDetail(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Rebuild handles POST /attendance/rebuild
func (h *attendanceHandlerImpl) Rebuild(w http.ResponseWriter, r *http.Request) {
	var req attendance.RebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if !validator.IsValidDateKey(req.From) || !validator.IsValidDateKey(req.To) {
		response.BadRequest(w, "from and to are required (YYYY-MM-DD)", nil)
		return
	}

	result, err := h.attendanceService.RebuildWindow(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rebuild completed", result)
}
