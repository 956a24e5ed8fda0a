package services

import (
	"fmt"
	"sort"

	"olx-scraper/models"
	"olx-scraper/utils"
)

// InsightFilter narrows the stored listings before aggregation. Zero values
// leave a bound open.
type InsightFilter struct {
	YearMin int
	YearMax int
	MaxKM   int
}

// InsightService computes read-side aggregates over the destination table.
// It never mutates the table.
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates an InsightService with the given logger.
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate filters listings by year range and maximum mileage, then
// computes the report. Records missing a price, year, or mileage bound are
// excluded from aggregation.
func (s *InsightService) Generate(listings []*models.CleanedListing, filter InsightFilter) *models.InsightReport {
	var kept []*models.CleanedListing
	for _, l := range listings {
		if l.Price == nil || l.Year == nil || l.UpperKM == nil {
			continue
		}
		if filter.YearMin > 0 && *l.Year < filter.YearMin {
			continue
		}
		if filter.YearMax > 0 && *l.Year > filter.YearMax {
			continue
		}
		if filter.MaxKM > 0 && *l.UpperKM > filter.MaxKM {
			continue
		}
		kept = append(kept, l)
	}

	s.logger.Debug("[insights] Aggregating %d of %d listings after filtering", len(kept), len(listings))

	report := &models.InsightReport{
		TotalListings:     len(kept),
		MedianPriceByYear: make(map[int]float64),
	}
	if len(kept) == 0 {
		return report
	}

	prices := make([]float64, 0, len(kept))
	byYear := make(map[int][]float64)
	for _, l := range kept {
		prices = append(prices, *l.Price)
		byYear[*l.Year] = append(byYear[*l.Year], *l.Price)
	}

	report.MedianPrice = median(prices)
	sort.Float64s(prices)
	report.MinPrice = prices[0]
	for year, yearPrices := range byYear {
		report.MedianPriceByYear[year] = median(yearPrices)
	}

	// Best deals: cheapest first, lowest mileage breaking ties.
	deals := make([]*models.CleanedListing, len(kept))
	copy(deals, kept)
	sort.SliceStable(deals, func(i, j int) bool {
		if *deals[i].Price != *deals[j].Price {
			return *deals[i].Price < *deals[j].Price
		}
		return *deals[i].UpperKM < *deals[j].UpperKM
	})
	if len(deals) > 10 {
		deals = deals[:10]
	}
	report.BestDeals = deals

	return report
}

// Print writes a human-readable report to stdout.
func (s *InsightService) Print(report *models.InsightReport) {
	fmt.Println()
	fmt.Println("========== LISTING INSIGHTS ==========")
	fmt.Printf("  Total listings : %d\n", report.TotalListings)
	if report.TotalListings == 0 {
		fmt.Println("======================================")
		return
	}
	fmt.Printf("  Median price   : Rp %.0f\n", report.MedianPrice)
	fmt.Printf("  Lowest price   : Rp %.0f\n", report.MinPrice)

	years := make([]int, 0, len(report.MedianPriceByYear))
	for year := range report.MedianPriceByYear {
		years = append(years, year)
	}
	sort.Ints(years)
	fmt.Println("  Median price by year:")
	for _, year := range years {
		fmt.Printf("    %d : Rp %.0f\n", year, report.MedianPriceByYear[year])
	}

	fmt.Println("  Potential good deals:")
	for i, deal := range report.BestDeals {
		fmt.Printf("    %2d. %s — Rp %.0f (%d km) %s\n",
			i+1, deal.Title, *deal.Price, *deal.UpperKM, deal.ListingURL)
	}
	fmt.Println("======================================")
}

// median returns the middle value of vs; for an even count, the mean of the
// two middle values. vs is not modified.
func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
