package services

import (
	"testing"

	"olx-scraper/models"
)

func listing(title string, price float64, year, upperKM int) *models.CleanedListing {
	lower := upperKM
	return &models.CleanedListing{
		Title:   title,
		Price:   &price,
		Year:    &year,
		LowerKM: &lower,
		UpperKM: &upperKM,
	}
}

func TestGenerateAggregates(t *testing.T) {
	svc := NewInsightService(newTestLogger())

	listings := []*models.CleanedListing{
		listing("A", 150000000, 2022, 10000),
		listing("B", 140000000, 2022, 20000),
		listing("C", 120000000, 2021, 30000),
		{Title: "no price", Year: iptr(2022), LowerKM: iptr(1000), UpperKM: iptr(1000)},
	}

	report := svc.Generate(listings, InsightFilter{})

	if report.TotalListings != 3 {
		t.Errorf("TotalListings = %d; want 3 (unpriced record excluded)", report.TotalListings)
	}
	if report.MedianPrice != 140000000 {
		t.Errorf("MedianPrice = %.0f; want 140000000", report.MedianPrice)
	}
	if report.MinPrice != 120000000 {
		t.Errorf("MinPrice = %.0f; want 120000000", report.MinPrice)
	}
	if got := report.MedianPriceByYear[2022]; got != 145000000 {
		t.Errorf("MedianPriceByYear[2022] = %.0f; want 145000000", got)
	}
	if got := report.MedianPriceByYear[2021]; got != 120000000 {
		t.Errorf("MedianPriceByYear[2021] = %.0f; want 120000000", got)
	}
}

func TestGenerateAppliesFilters(t *testing.T) {
	svc := NewInsightService(newTestLogger())

	listings := []*models.CleanedListing{
		listing("old", 90000000, 2018, 80000),
		listing("high-km", 100000000, 2022, 90000),
		listing("keeper", 150000000, 2022, 10000),
	}

	report := svc.Generate(listings, InsightFilter{YearMin: 2020, YearMax: 2023, MaxKM: 50000})

	if report.TotalListings != 1 {
		t.Fatalf("TotalListings = %d; want 1", report.TotalListings)
	}
	if report.BestDeals[0].Title != "keeper" {
		t.Errorf("filter kept the wrong record: %q", report.BestDeals[0].Title)
	}
}

func TestGenerateRanksBestDeals(t *testing.T) {
	svc := NewInsightService(newTestLogger())

	listings := []*models.CleanedListing{
		listing("pricier", 150000000, 2022, 10000),
		listing("cheap-high-km", 120000000, 2021, 40000),
		listing("cheap-low-km", 120000000, 2021, 5000),
	}

	report := svc.Generate(listings, InsightFilter{})

	want := []string{"cheap-low-km", "cheap-high-km", "pricier"}
	for i, title := range want {
		if report.BestDeals[i].Title != title {
			t.Errorf("BestDeals[%d] = %q; want %q", i, report.BestDeals[i].Title, title)
		}
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	report := svc.Generate(nil, InsightFilter{})
	if report.TotalListings != 0 || len(report.BestDeals) != 0 {
		t.Errorf("empty input should yield an empty report: %+v", report)
	}
}
