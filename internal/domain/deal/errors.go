package deal

import "errors"

// Deal domain errors. An empty comparable set or missing history is
// expected sparsity, not an error; these mark malformed structural input
// or missing rows.
var (
	ErrOfferNotFound         = errors.New("offer not found")
	ErrInvalidOfferPrice     = errors.New("offer price must be a positive amount in minor units")
	ErrInvalidComparable     = errors.New("comparable offer has a non-positive price")
	ErrInvalidSegmentTime    = errors.New("segment timestamp is not a valid local datetime")
	ErrNoQualifyingItinerary = errors.New("itinerary has stops but no qualifying overnight layover")
	ErrInvalidDateWindow     = errors.New("date window is malformed")
)
