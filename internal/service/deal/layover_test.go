package deal

import (
	"testing"

	"github.com/loopwork/insights-backend-go/internal/domain/deal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSegment(arrive, nextDepart string) []deal.Segment {
	return []deal.Segment{
		{Origin: "CGK", Destination: "SIN", DepartLocal: "2026-12-10T18:00:00", ArriveLocal: arrive},
		{Origin: "SIN", Destination: "LHR", DepartLocal: nextDepart, ArriveLocal: "2026-12-11T18:00:00"},
	}
}

func TestComputeLayovers_OvernightAcrossMidnight(t *testing.T) {
	// 23:05 -> 07:45 next day: 8h40m and crosses midnight.
	summary, err := ComputeLayovers(twoSegment("2026-12-10T23:05:00", "2026-12-11T07:45:00"), 8)
	require.NoError(t, err)

	require.Len(t, summary.Layovers, 1)
	assert.Equal(t, "SIN", summary.Layovers[0].Airport)
	assert.Equal(t, 520, summary.Layovers[0].Minutes)
	assert.True(t, summary.Layovers[0].Overnight)
	assert.True(t, summary.HasAnyOvernight)
}

func TestComputeLayovers_LongSameDayIsNotOvernight(t *testing.T) {
	// 9h on one calendar date never crosses midnight.
	summary, err := ComputeLayovers(twoSegment("2026-12-11T06:00:00", "2026-12-11T15:00:00"), 8)
	require.NoError(t, err)

	assert.Equal(t, 540, summary.Layovers[0].Minutes)
	assert.False(t, summary.Layovers[0].Overnight)
	assert.False(t, summary.HasAnyOvernight)
}

func TestComputeLayovers_ShortCrossMidnightIsNotOvernight(t *testing.T) {
	// Crosses midnight but only 5h, under the 8h minimum.
	summary, err := ComputeLayovers(twoSegment("2026-12-10T23:00:00", "2026-12-11T04:00:00"), 8)
	require.NoError(t, err)

	assert.Equal(t, 300, summary.Layovers[0].Minutes)
	assert.False(t, summary.Layovers[0].Overnight)
}

func TestComputeLayovers_MalformedTimestamp(t *testing.T) {
	_, err := ComputeLayovers(twoSegment("2026-12-10 23:05", "2026-12-11T07:45:00"), 8)
	assert.ErrorIs(t, err, deal.ErrInvalidSegmentTime)
}

func TestClassifyStops_Nonstop(t *testing.T) {
	segments := []deal.Segment{
		{Origin: "CGK", Destination: "LHR", DepartLocal: "2026-12-10T18:00:00", ArriveLocal: "2026-12-11T06:00:00"},
	}

	category, ok, err := ClassifyStops(segments, 8)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, deal.StopsNonstop, category)
}

func TestClassifyStops_OneOvernightQualifies(t *testing.T) {
	category, ok, err := ClassifyStops(twoSegment("2026-12-10T23:05:00", "2026-12-11T07:45:00"), 8)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, deal.StopsOneStopOvernight, category)
}

func TestClassifyStops_StopWithoutOvernightRejected(t *testing.T) {
	_, ok, err := ClassifyStops(twoSegment("2026-12-11T06:00:00", "2026-12-11T09:00:00"), 8)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClassifyStops_TwoOvernightsRejected(t *testing.T) {
	segments := []deal.Segment{
		{Origin: "CGK", Destination: "SIN", DepartLocal: "2026-12-10T18:00:00", ArriveLocal: "2026-12-10T21:00:00"},
		{Origin: "SIN", Destination: "DXB", DepartLocal: "2026-12-11T08:00:00", ArriveLocal: "2026-12-11T12:00:00"},
		{Origin: "DXB", Destination: "LHR", DepartLocal: "2026-12-12T09:00:00", ArriveLocal: "2026-12-12T13:00:00"},
	}

	_, ok, err := ClassifyStops(segments, 8)
	require.NoError(t, err)
	assert.False(t, ok)
}
