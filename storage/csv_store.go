package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"olx-scraper/models"
)

// Column sets of the parse and transform artifacts. Order is fixed: it is
// the input contract of the next stage.
var (
	rawHeader = []string{
		"title", "price", "listing_url", "location", "installment", "posted_time", "year_mileage",
	}
	cleanedHeader = []string{
		"title", "price", "listing_url", "location", "installment", "posted_time", "year", "lower_km", "upper_km",
	}
)

// WriteRawCSV writes the parse artifact: one row per scraped card, page
// order preserved, header row first.
func WriteRawCSV(path string, listings []*models.RawListing) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(rawHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, l := range listings {
		row := []string{
			l.Title, l.Price, l.ListingURL, l.Location, l.Installment, l.PostedTime, l.YearMileage,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}

	return WriteFileAtomic(path, buf.Bytes())
}

// ReadRawCSV reads the parse artifact back into records.
func ReadRawCSV(path string) ([]*models.RawListing, error) {
	rows, err := readCSV(path, len(rawHeader))
	if err != nil {
		return nil, err
	}

	listings := make([]*models.RawListing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, &models.RawListing{
			Title:       row[0],
			Price:       row[1],
			ListingURL:  row[2],
			Location:    row[3],
			Installment: row[4],
			PostedTime:  row[5],
			YearMileage: row[6],
		})
	}
	return listings, nil
}

// WriteCleanedCSV writes the transform artifact. Absent values encode as
// empty cells.
func WriteCleanedCSV(path string, listings []*models.CleanedListing) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(cleanedHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, l := range listings {
		row := []string{
			l.Title,
			formatFloat(l.Price),
			l.ListingURL,
			l.Location,
			formatFloat(l.Installment),
			formatString(l.PostedTime),
			formatInt(l.Year),
			formatInt(l.LowerKM),
			formatInt(l.UpperKM),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}

	return WriteFileAtomic(path, buf.Bytes())
}

// ReadCleanedCSV reads the transform artifact back into typed records.
func ReadCleanedCSV(path string) ([]*models.CleanedListing, error) {
	rows, err := readCSV(path, len(cleanedHeader))
	if err != nil {
		return nil, err
	}

	listings := make([]*models.CleanedListing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, &models.CleanedListing{
			Title:       row[0],
			Price:       parseFloat(row[1]),
			ListingURL:  row[2],
			Location:    row[3],
			Installment: parseFloat(row[4]),
			PostedTime:  parseString(row[5]),
			Year:        parseInt(row[6]),
			LowerKM:     parseInt(row[7]),
			UpperKM:     parseInt(row[8]),
		})
	}
	return listings, nil
}

func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %q is missing its header row", path)
	}
	return records[1:], nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
