package deal

import (
	"sort"
	"testing"

	"github.com/loopwork/insights-backend-go/internal/domain/deal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDatePairs_ReturnWindowFilters(t *testing.T) {
	pairs, err := GenerateDatePairs("2026-12-10", "2026-12-12", "2026-12-20", "2027-01-07", 7, 21)
	require.NoError(t, err)

	// depart 12-10 keeps nights 10..21, 12-11 keeps 9..21, 12-12 keeps 8..21.
	assert.Len(t, pairs, 39)
	assert.Equal(t, deal.DatePair{Depart: "2026-12-10", Return: "2026-12-20"}, pairs[0])
	assert.Equal(t, deal.DatePair{Depart: "2026-12-12", Return: "2027-01-02"}, pairs[len(pairs)-1])

	for _, pair := range pairs {
		assert.GreaterOrEqual(t, pair.Return, "2026-12-20")
		assert.LessOrEqual(t, pair.Return, "2027-01-07")
	}

	assert.True(t, sort.SliceIsSorted(pairs, func(i, j int) bool {
		if pairs[i].Depart != pairs[j].Depart {
			return pairs[i].Depart < pairs[j].Depart
		}
		return pairs[i].Return < pairs[j].Return
	}))
}

func TestGenerateDatePairs_SingleDay(t *testing.T) {
	pairs, err := GenerateDatePairs("2026-12-10", "2026-12-10", "2026-12-17", "2026-12-17", 7, 7)
	require.NoError(t, err)
	assert.Equal(t, []deal.DatePair{{Depart: "2026-12-10", Return: "2026-12-17"}}, pairs)
}

func TestGenerateDatePairs_EmptyWhenWindowsDisjoint(t *testing.T) {
	pairs, err := GenerateDatePairs("2026-12-10", "2026-12-11", "2027-02-01", "2027-02-10", 7, 14)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestGenerateDatePairs_InvalidWindows(t *testing.T) {
	_, err := GenerateDatePairs("2026-12-12", "2026-12-10", "2026-12-20", "2027-01-07", 7, 21)
	assert.ErrorIs(t, err, deal.ErrInvalidDateWindow)

	_, err = GenerateDatePairs("2026-12-10", "2026-12-12", "2026-12-20", "2027-01-07", 14, 7)
	assert.ErrorIs(t, err, deal.ErrInvalidDateWindow)

	_, err = GenerateDatePairs("2026-12-10", "2026-12-12", "2026-12-20", "2027-01-07", 0, 7)
	assert.ErrorIs(t, err, deal.ErrInvalidDateWindow)

	_, err = GenerateDatePairs("not-a-date", "2026-12-12", "2026-12-20", "2027-01-07", 7, 21)
	assert.ErrorIs(t, err, deal.ErrInvalidDateWindow)
}
