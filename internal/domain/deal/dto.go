package deal

// IngestOfferRequest is one raw fare search result, already validated at
// the HTTP boundary. Prices are integer minor-currency units.
type IngestOfferRequest struct {
	Provider         string    `json:"provider"`
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	Cabin            string    `json:"cabin"`
	DepartDate       string    `json:"depart_date"`
	ReturnDate       string    `json:"return_date"`
	PriceTotalCents  int64     `json:"price_total_cents"`
	TotalTripMinutes int       `json:"total_trip_minutes"`
	PartySize        int       `json:"party_size"`
	Segments         []Segment `json:"segments"`
}

type OfferResponse struct {
	ID               string        `json:"id"`
	OfferKey         string        `json:"offer_key"`
	Provider         string        `json:"provider"`
	Origin           string        `json:"origin"`
	Destination      string        `json:"destination"`
	Cabin            string        `json:"cabin"`
	DepartDate       string        `json:"depart_date"`
	ReturnDate       string        `json:"return_date"`
	Stops            int           `json:"stops"`
	StopsCategory    StopsCategory `json:"stops_category"`
	PriceTotalCents  int64         `json:"price_total_cents"`
	TotalTripMinutes int           `json:"total_trip_minutes"`
	Metrics          *DealMetrics  `json:"metrics,omitempty"`
}

// DatePairsRequest enumerates a scan's search space: every depart date in
// the window crossed with every stay length whose return date also lands
// in the return window.
type DatePairsRequest struct {
	DepartFrom string `json:"depart_from"`
	DepartTo   string `json:"depart_to"`
	ReturnFrom string `json:"return_from"`
	ReturnTo   string `json:"return_to"`
	MinNights  int    `json:"min_nights"`
	MaxNights  int    `json:"max_nights"`
}

type DatePairsResponse struct {
	Pairs []DatePair `json:"pairs"`
	Count int        `json:"count"`
}
