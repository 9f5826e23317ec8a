package attendance

import "errors"

// Attendance domain errors. Sparse data (no presence, no holidays, empty
// weeks) never errors; these mark structural defects in the inputs.
var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrEmployeeWithoutTeam = errors.New("employee has no team")
	ErrInvalidWeekStart    = errors.New("week start must be a Monday date key")
)
