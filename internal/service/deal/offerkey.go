package deal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/loopwork/insights-backend-go/internal/domain/deal"
)

// OfferKey derives the content-hash identity of an itinerary: the same
// logical itinerary from the same provider always maps to the same key,
// so persistence can upsert instead of duplicating rows.
func OfferKey(provider, origin, destination, cabin, departDate, returnDate string, partySize int, segments []deal.Segment) string {
	parts := []string{
		strings.ToLower(provider),
		strings.ToUpper(origin),
		strings.ToUpper(destination),
		strings.ToLower(cabin),
		departDate,
		returnDate,
		fmt.Sprintf("p%d", partySize),
	}
	for _, seg := range segments {
		parts = append(parts, fmt.Sprintf("%s-%s@%s",
			strings.ToUpper(seg.Origin), strings.ToUpper(seg.Destination), seg.DepartLocal))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
