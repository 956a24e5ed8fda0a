package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"olx-scraper/models"
	"olx-scraper/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger(false) }

const samplePage = `<!DOCTYPE html>
<html><body><ul>
  <li data-aut-id="itemBox">
    <a href="/item/wuling-air-ev-2022-iid-123"><figure></figure></a>
    <span data-aut-id="itemPrice">Rp 150.000.000</span>
    <span>Cicilan 2 juta</span>
    <div data-aut-id="itemSubTitle">2022 - 10.000 km</div>
    <div data-aut-id="itemTitle">Wuling Air EV Long Range 2022</div>
    <div data-aut-id="itemDetails">Jakarta Selatan<span>Hari ini</span></div>
  </li>
  <li data-aut-id="itemBox">
    <a href="/item/wuling-air-ev-2021-iid-456"></a>
    <span data-aut-id="itemPrice">Rp 139.000.000</span>
    <div data-aut-id="itemTitle">Wuling Air EV 2021</div>
  </li>
  <li>not a listing card</li>
</ul></body></html>`

func parseSample(t *testing.T) []*models.RawListing {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("failed to build document: %v", err)
	}
	return New(newTestLogger()).Parse(doc)
}

func TestParseExtractsAllCards(t *testing.T) {
	listings := parseSample(t)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	first := listings[0]
	if first.Title != "Wuling Air EV Long Range 2022" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Price != "Rp 150.000.000" {
		t.Errorf("price = %q", first.Price)
	}
	if first.ListingURL != "/item/wuling-air-ev-2022-iid-123" {
		t.Errorf("listing URL = %q", first.ListingURL)
	}
	if first.Location != "Jakarta Selatan" {
		t.Errorf("location = %q", first.Location)
	}
	if first.PostedTime != "Hari ini" {
		t.Errorf("posted time = %q", first.PostedTime)
	}
	if first.YearMileage != "2022 - 10.000 km" {
		t.Errorf("year/mileage = %q", first.YearMileage)
	}
	if first.Installment != "Cicilan 2 juta" {
		t.Errorf("installment = %q", first.Installment)
	}
}

func TestParseMissingFieldsYieldSentinel(t *testing.T) {
	listings := parseSample(t)
	second := listings[1]

	if second.Title != "Wuling Air EV 2021" || second.Price != "Rp 139.000.000" {
		t.Fatalf("present fields should still extract: %+v", second)
	}
	for name, got := range map[string]string{
		"location":     second.Location,
		"posted_time":  second.PostedTime,
		"year_mileage": second.YearMileage,
		"installment":  second.Installment,
	} {
		if got != models.NotFound {
			t.Errorf("%s = %q; want sentinel %q", name, got, models.NotFound)
		}
	}
}

func TestParseEveryFieldAlwaysPresent(t *testing.T) {
	for i, l := range parseSample(t) {
		fields := []string{
			l.Title, l.Price, l.ListingURL, l.Location, l.Installment, l.PostedTime, l.YearMileage,
		}
		for j, f := range fields {
			if f == "" {
				t.Errorf("listing %d field %d is empty — must be text or sentinel", i, j)
			}
		}
	}
}

func TestParseFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(samplePage), 0644); err != nil {
		t.Fatalf("write sample page: %v", err)
	}

	listings, err := New(newTestLogger()).ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("expected 2 listings, got %d", len(listings))
	}
}

func TestParseFileUnreadableArtifact(t *testing.T) {
	_, err := New(newTestLogger()).ParseFile(filepath.Join(t.TempDir(), "missing.html"))
	if err == nil {
		t.Fatal("expected error for missing page artifact")
	}
}
