package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/loopwork/insights-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) attendance.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeSelect = `
	SELECT e.id, e.full_name, e.email, e.brivo_user_id, e.team_id, e.manager_id,
	       e.office_location_id, e.active, e.created_at, e.updated_at,
	       t.id, t.name, t.schedule_days, t.required_days_per_week,
	       l.id, l.name, l.timezone
	FROM employees e
	JOIN teams t ON t.id = e.team_id
	LEFT JOIN office_locations l ON l.id = e.office_location_id
`

func scanEmployee(row pgx.Row) (attendance.Employee, error) {
	var (
		emp          attendance.Employee
		team         attendance.Team
		scheduleDays []int32
		locID        *string
		locName      *string
		locTimezone  *string
	)

	err := row.Scan(
		&emp.ID, &emp.FullName, &emp.Email, &emp.BrivoUserID, &emp.TeamID, &emp.ManagerID,
		&emp.OfficeLocationID, &emp.Active, &emp.CreatedAt, &emp.UpdatedAt,
		&team.ID, &team.Name, &scheduleDays, &team.RequiredDaysPerWeek,
		&locID, &locName, &locTimezone,
	)
	if err != nil {
		return attendance.Employee{}, err
	}

	team.ScheduleDays = make([]time.Weekday, 0, len(scheduleDays))
	for _, d := range scheduleDays {
		team.ScheduleDays = append(team.ScheduleDays, time.Weekday(d))
	}
	emp.Team = &team

	if locID != nil {
		emp.OfficeLocation = &attendance.OfficeLocation{
			ID:       *locID,
			Name:     *locName,
			Timezone: *locTimezone,
		}
	}
	return emp, nil
}

// GetByID implements attendance.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (attendance.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Employee{}, attendance.ErrEmployeeNotFound
		}
		return attendance.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// ListActive implements attendance.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context, teamID, locationID string) ([]attendance.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := employeeSelect + ` WHERE e.active`
	args := []interface{}{}
	if teamID != "" {
		args = append(args, teamID)
		query += fmt.Sprintf(" AND e.team_id = $%d", len(args))
	}
	if locationID != "" {
		args = append(args, locationID)
		query += fmt.Sprintf(" AND e.office_location_id = $%d", len(args))
	}
	query += " ORDER BY e.full_name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []attendance.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// MapByBrivoUserID implements attendance.EmployeeRepository.
func (r *employeeRepository) MapByBrivoUserID(ctx context.Context) (map[string]attendance.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+` WHERE e.active AND e.brivo_user_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to map employees by badge id: %w", err)
	}
	defer rows.Close()

	mapping := make(map[string]attendance.Employee)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if emp.BrivoUserID != nil {
			mapping[*emp.BrivoUserID] = emp
		}
	}
	return mapping, rows.Err()
}

// GetTeam implements attendance.EmployeeRepository.
func (r *employeeRepository) GetTeam(ctx context.Context, teamID string) (attendance.Team, error) {
	q := GetQuerier(ctx, r.db)

	var (
		team         attendance.Team
		scheduleDays []int32
	)
	err := q.QueryRow(ctx, `
		SELECT id, name, schedule_days, required_days_per_week
		FROM teams
		WHERE id = $1
	`, teamID).Scan(&team.ID, &team.Name, &scheduleDays, &team.RequiredDaysPerWeek)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Team{}, attendance.ErrTeamNotFound
		}
		return attendance.Team{}, fmt.Errorf("failed to get team: %w", err)
	}

	team.ScheduleDays = make([]time.Weekday, 0, len(scheduleDays))
	for _, d := range scheduleDays {
		team.ScheduleDays = append(team.ScheduleDays, time.Weekday(d))
	}
	return team, nil
}

// ListLocations implements attendance.EmployeeRepository.
func (r *employeeRepository) ListLocations(ctx context.Context) ([]attendance.OfficeLocation, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, timezone FROM office_locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []attendance.OfficeLocation
	for rows.Next() {
		var loc attendance.OfficeLocation
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Timezone); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
