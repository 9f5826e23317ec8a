package deal

import (
	"fmt"

	"github.com/loopwork/insights-backend-go/internal/domain/deal"
	"github.com/loopwork/insights-backend-go/internal/pkg/dateutil"
)

// GenerateDatePairs enumerates every depart date in the depart window
// crossed with every stay length in [minNights, maxNights] whose return
// date also lands in the return window. Output is sorted by depart then
// return ascending; the iteration order produces that directly.
func GenerateDatePairs(departFrom, departTo, returnFrom, returnTo string, minNights, maxNights int) ([]deal.DatePair, error) {
	departStart, err := dateutil.ParseDateKey(departFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", deal.ErrInvalidDateWindow, err)
	}
	departEnd, err := dateutil.ParseDateKey(departTo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", deal.ErrInvalidDateWindow, err)
	}
	if _, err := dateutil.ParseDateKey(returnFrom); err != nil {
		return nil, fmt.Errorf("%w: %v", deal.ErrInvalidDateWindow, err)
	}
	if _, err := dateutil.ParseDateKey(returnTo); err != nil {
		return nil, fmt.Errorf("%w: %v", deal.ErrInvalidDateWindow, err)
	}
	if departEnd.Before(departStart) || minNights > maxNights || minNights < 1 {
		return nil, deal.ErrInvalidDateWindow
	}

	var pairs []deal.DatePair
	for depart := departStart; !depart.After(departEnd); depart = depart.AddDate(0, 0, 1) {
		departKey := dateutil.DateKey(depart)
		for nights := minNights; nights <= maxNights; nights++ {
			returnKey := dateutil.DateKey(depart.AddDate(0, 0, nights))
			if returnKey < returnFrom || returnKey > returnTo {
				continue
			}
			pairs = append(pairs, deal.DatePair{Depart: departKey, Return: returnKey})
		}
	}

	return pairs, nil
}
