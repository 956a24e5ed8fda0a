package models

// NotFound marks a field whose sub-node was missing from the listing card.
// Every RawListing always carries all seven fields; this sentinel is the
// only way a field can be "absent" at the parse boundary.
const NotFound = "not found"

// RawListing holds one scraped card exactly as displayed on the page.
// All fields are display-format text; this is written to CSV before any
// cleaning or transformation.
type RawListing struct {
	Title       string
	Price       string
	ListingURL  string
	Location    string
	Installment string
	PostedTime  string
	YearMileage string
}

// CleanedListing is the typed, normalized record ready for PostgreSQL.
// Nil pointers encode values that could not be extracted; LowerKM and
// UpperKM are always both nil or both set.
type CleanedListing struct {
	Title       string
	Price       *float64
	ListingURL  string
	Location    string
	Installment *float64
	PostedTime  *string
	Year        *int
	LowerKM     *int
	UpperKM     *int
}

// InsightReport holds the computed aggregates over the stored table.
type InsightReport struct {
	TotalListings     int
	MedianPrice       float64
	MinPrice          float64
	MedianPriceByYear map[int]float64
	BestDeals         []*CleanedListing
}
