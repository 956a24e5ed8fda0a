package storage

import (
	"encoding/json"
	"fmt"

	"olx-scraper/models"
)

// insertedRecord mirrors the destination table's column names in the audit
// artifact, so the dump reads like the rows that were inserted.
type insertedRecord struct {
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	ListingURL  string   `json:"listing_url"`
	Location    string   `json:"location"`
	Installment *float64 `json:"installment"`
	PostedTime  *string  `json:"posted_time"`
	Year        *int     `json:"year"`
	LowerKM     *int     `json:"lower_km"`
	UpperKM     *int     `json:"upper_km"`
}

// WriteInsertedJSON dumps the records that were committed to the table as
// an indented JSON array. This is an audit side effect: it runs after the
// commit and is never rolled back.
func WriteInsertedJSON(path string, listings []*models.CleanedListing) error {
	records := make([]insertedRecord, 0, len(listings))
	for _, l := range listings {
		records = append(records, insertedRecord{
			Title:       l.Title,
			Price:       l.Price,
			ListingURL:  l.ListingURL,
			Location:    l.Location,
			Installment: l.Installment,
			PostedTime:  l.PostedTime,
			Year:        l.Year,
			LowerKM:     l.LowerKM,
			UpperKM:     l.UpperKM,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal inserted records: %w", err)
	}
	return WriteFileAtomic(path, data)
}
