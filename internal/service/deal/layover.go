package deal

import (
	"fmt"
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/deal"
)

// segmentTimeLayout is the provider's local wall-clock shape. Timestamps
// carry no zone; arithmetic over them is deliberately naive-local (see
// ComputeLayovers).
const segmentTimeLayout = "2006-01-02T15:04:05"

func parseSegmentTime(value string) (time.Time, error) {
	t, err := time.Parse(segmentTimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", deal.ErrInvalidSegmentTime, value)
	}
	return t, nil
}

// ComputeLayovers measures the gap between each consecutive segment
// pair. Provider timestamps are local wall-clock times subtracted as if
// they shared a zone; the error this introduces is bounded by the zone
// offset between connection airports and is accepted upstream. A layover
// is overnight iff it lasts at least overnightMinHours and its ends fall
// on different calendar dates (it spans a local midnight).
func ComputeLayovers(segments []deal.Segment, overnightMinHours int) (deal.LayoverSummary, error) {
	summary := deal.LayoverSummary{}
	minMinutes := overnightMinHours * 60

	for i := 0; i+1 < len(segments); i++ {
		arrive, err := parseSegmentTime(segments[i].ArriveLocal)
		if err != nil {
			return deal.LayoverSummary{}, err
		}
		depart, err := parseSegmentTime(segments[i+1].DepartLocal)
		if err != nil {
			return deal.LayoverSummary{}, err
		}

		minutes := int(depart.Sub(arrive).Minutes())
		crossesMidnight := arrive.Format("2006-01-02") != depart.Format("2006-01-02")
		overnight := minutes >= minMinutes && crossesMidnight

		summary.Layovers = append(summary.Layovers, deal.Layover{
			Airport:   segments[i].Destination,
			Minutes:   minutes,
			Overnight: overnight,
		})
		if overnight {
			summary.HasAnyOvernight = true
		}
	}

	return summary, nil
}

// ClassifyStops buckets an itinerary for comparable matching. Nonstop
// itineraries always qualify; itineraries with stops qualify only when
// exactly one layover is overnight ("only show connections with exactly
// one overnight"). ok is false for everything else.
func ClassifyStops(segments []deal.Segment, overnightMinHours int) (deal.StopsCategory, bool, error) {
	stops := len(segments) - 1
	if stops <= 0 {
		return deal.StopsNonstop, true, nil
	}

	summary, err := ComputeLayovers(segments, overnightMinHours)
	if err != nil {
		return "", false, err
	}
	if summary.OvernightCount() == 1 {
		return deal.StopsOneStopOvernight, true, nil
	}
	return "", false, nil
}
