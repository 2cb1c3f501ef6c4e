package pricing

// Query describes the vehicle whose market price is wanted.  Year, mileage
// and region are advisory: providers use them when they can and ignore them
// otherwise.
type Query struct {
	Make    string `json:"make"`
	Model   string `json:"model"`
	Year    string `json:"year,omitempty"`
	Mileage int    `json:"mileage,omitempty"`
	Region  string `json:"region,omitempty"`
}

// Candidate is one observed asking price.  Year is the listing's own year
// tag when the provider could read one; empty means unknown.
type Candidate struct {
	Amount int    `json:"amount"`
	Year   string `json:"year,omitempty"`
	Source string `json:"source,omitempty"`
}

// Listing is a citation for where a price observation came from.
type Listing struct {
	Title  string `json:"title,omitempty"`
	URL    string `json:"url,omitempty"`
	Price  int    `json:"price,omitempty"`
	Source string `json:"source,omitempty"`
}

// Quote is one provider's full answer: raw price candidates plus whatever
// qualitative context the provider can supply.
type Quote struct {
	Candidates []Candidate `json:"candidates"`
	Confidence float64     `json:"confidence,omitempty"`
	Analysis   string      `json:"analysis,omitempty"`
	Listings   []Listing   `json:"listings,omitempty"`
}

// Estimate is the resolved market price for a vehicle.  Estimated marks
// values produced by the depreciation fallback rather than observed
// listings; such estimates always carry NumListings == 0.
type Estimate struct {
	Average     int       `json:"average"`
	Min         int       `json:"min"`
	Max         int       `json:"max"`
	NumListings int       `json:"num_listings"`
	Estimated   bool      `json:"estimated"`
	Source      string    `json:"source"`
	Confidence  float64   `json:"confidence,omitempty"`
	Analysis    string    `json:"analysis,omitempty"`
	Listings    []Listing `json:"listings,omitempty"`
}
