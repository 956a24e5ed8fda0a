package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"olx-scraper/models"
)

func TestCleanedCSVRoundTripPreservesNulls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transformed.csv")

	price := 150000000.0
	year := 2022
	lower, upper := 5000, 8000
	posted := "29 Aug"

	in := []*models.CleanedListing{
		{
			Title:      "Wuling Air EV",
			Price:      &price,
			ListingURL: "https://www.olx.co.id/item/1",
			Location:   "Jakarta Selatan",
			PostedTime: &posted,
			Year:       &year,
			LowerKM:    &lower,
			UpperKM:    &upper,
		},
		{Title: "not found", Location: "not found"},
	}

	if err := WriteCleanedCSV(path, in); err != nil {
		t.Fatalf("WriteCleanedCSV: %v", err)
	}
	out, err := ReadCleanedCSV(path)
	if err != nil {
		t.Fatalf("ReadCleanedCSV: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("round trip changed row count: %d -> %d", len(in), len(out))
	}
	if out[0].Price == nil || *out[0].Price != price {
		t.Errorf("price lost in round trip: %+v", out[0])
	}
	if out[0].LowerKM == nil || out[0].UpperKM == nil || *out[0].LowerKM != lower || *out[0].UpperKM != upper {
		t.Errorf("mileage bounds lost in round trip: %+v", out[0])
	}
	if out[1].Price != nil || out[1].Year != nil || out[1].PostedTime != nil {
		t.Errorf("absent values should read back as nil: %+v", out[1])
	}
}

func TestCleanedCSVHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transformed.csv")
	if err := WriteCleanedCSV(path, nil); err != nil {
		t.Fatalf("WriteCleanedCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	want := "title,price,listing_url,location,installment,posted_time,year,lower_km,upper_km"
	if got := strings.TrimSpace(string(data)); got != want {
		t.Errorf("header = %q; want %q", got, want)
	}
}

func TestReadRawCSVMissingArtifact(t *testing.T) {
	_, err := ReadRawCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "page.html")

	if err := WriteFileAtomic(path, []byte("<html></html>")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<html></html>" {
		t.Fatalf("artifact content wrong: %q, %v", data, err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the artifact in the directory, found %d entries", len(entries))
	}
}
