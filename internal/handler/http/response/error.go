package response

import (
	"errors"
	"net/http"

	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/loopwork/insights-backend-go/internal/domain/deal"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrTeamNotFound):
		NotFound(w, "Team not found")
	case errors.Is(err, attendance.ErrInvalidWeekStart):
		BadRequest(w, "week_start must be a Monday in YYYY-MM-DD format", nil)
	case errors.Is(err, attendance.ErrEmployeeWithoutTeam):
		UnprocessableEntity(w, "Employee has no team assigned")

	// Deal domain errors
	case errors.Is(err, deal.ErrOfferNotFound):
		NotFound(w, "Offer not found")
	case errors.Is(err, deal.ErrInvalidOfferPrice),
		errors.Is(err, deal.ErrInvalidComparable),
		errors.Is(err, deal.ErrInvalidSegmentTime),
		errors.Is(err, deal.ErrInvalidDateWindow):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, deal.ErrNoQualifyingItinerary):
		UnprocessableEntity(w, "Itinerary has stops but no qualifying overnight layover")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
