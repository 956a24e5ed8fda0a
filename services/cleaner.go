package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"olx-scraper/models"
	"olx-scraper/scraper/olx"
	"olx-scraper/utils"
)

var (
	// priceRegexp captures the first run of digits and dot separators
	priceRegexp = regexp.MustCompile(`\d+[.\d]*`)
	// digitsRegexp captures a plain digit run
	digitsRegexp = regexp.MustCompile(`\d+`)
)

// installmentUnit scales installment figures: the site quotes them in
// millions of rupiah ("cicilan 2 juta" style).
const installmentUnit = 1_000_000

// postedTimeFormat is the canonical short date form, e.g. "29 Aug".
const postedTimeFormat = "02 Jan"

// Cleaner transforms RawListings into typed CleanedListings. Ambiguous
// input never fails a record; fields that cannot be parsed come out nil.
type Cleaner struct {
	logger *utils.Logger
	now    func() time.Time
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger, now: time.Now}
}

// Clean normalizes raw listings column-wise. The output has exactly one
// record per input record, in the same order.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.CleanedListing {
	result := make([]*models.CleanedListing, 0, len(raw))

	for _, r := range raw {
		year, lowerKM, upperKM := parseYearMileage(r.YearMileage)

		result = append(result, &models.CleanedListing{
			Title:       r.Title,
			Price:       parsePrice(r.Price),
			ListingURL:  absoluteURL(r.ListingURL),
			Location:    strings.ReplaceAll(r.Location, `"`, ""),
			Installment: parseInstallment(r.Installment),
			PostedTime:  c.normalizePostedTime(r.PostedTime),
			Year:        year,
			LowerKM:     lowerKM,
			UpperKM:     upperKM,
		})
	}

	c.logger.Info("[cleaner] Normalized %d listings", len(result))
	return result
}

// parsePrice extracts the numeric amount from a display price.
// "Rp 150.000.000" → 150000000.
func parsePrice(raw string) *float64 {
	match := priceRegexp.FindString(raw)
	if match == "" {
		return nil
	}

	val, err := strconv.ParseFloat(strings.ReplaceAll(match, ".", ""), 64)
	if err != nil {
		return nil
	}
	return &val
}

// parseYearMileage splits "2021 - 10.000 km" into year and mileage bounds.
// A mileage token with an inner hyphen is a range; otherwise both bounds
// equal the single value. The bounds are always both set or both nil.
func parseYearMileage(raw string) (year, lowerKM, upperKM *int) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if !strings.Contains(text, " - ") {
		return nil, nil, nil
	}

	yearTok, kmTok, _ := strings.Cut(text, " - ")

	if y, err := strconv.Atoi(strings.TrimSpace(yearTok)); err == nil {
		year = &y
	}

	kmTok = strings.ReplaceAll(kmTok, " km", "")
	kmTok = strings.TrimSpace(strings.ReplaceAll(kmTok, ".", ""))

	lowerTok, upperTok := kmTok, kmTok
	if lo, hi, isRange := strings.Cut(kmTok, "-"); isRange {
		lowerTok, upperTok = strings.TrimSpace(lo), strings.TrimSpace(hi)
	}

	lo, loErr := strconv.Atoi(lowerTok)
	hi, hiErr := strconv.Atoi(upperTok)
	if loErr != nil || hiErr != nil {
		return year, nil, nil
	}
	return year, &lo, &hi
}

// absoluteURL resolves a card's relative listing URL against the site
// domain. A sentinel URL has no honest absolute form and becomes empty.
func absoluteURL(raw string) string {
	switch {
	case raw == models.NotFound || raw == "":
		return ""
	case strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://"):
		return raw
	default:
		return olx.Domain + raw
	}
}

// parseInstallment extracts the monthly figure from wording like
// "cicilan 2 juta/bln" and scales it to rupiah.
func parseInstallment(raw string) *float64 {
	if raw == models.NotFound || strings.TrimSpace(raw) == "" {
		return nil
	}

	match := digitsRegexp.FindString(strings.ReplaceAll(raw, ".", ""))
	if match == "" {
		return nil
	}

	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	val *= installmentUnit
	return &val
}

// normalizePostedTime canonicalizes free-text posting ages to "day month"
// form. "hari ini" is today, "kemarin" yesterday; anything longer than 7
// characters is assumed to encode "N hari yang lalu" and is resolved by its
// leading number. Short strings are already canonical and pass through.
func (c *Cleaner) normalizePostedTime(raw string) *string {
	value := strings.ToLower(strings.TrimSpace(raw))

	if strings.Contains(value, "hari ini") {
		out := c.now().Format(postedTimeFormat)
		return &out
	}
	if strings.Contains(value, "kemarin") {
		out := c.now().AddDate(0, 0, -1).Format(postedTimeFormat)
		return &out
	}

	if len(value) > 7 {
		match := digitsRegexp.FindString(value)
		if match == "" {
			return nil
		}
		days, err := strconv.Atoi(match)
		if err != nil {
			return nil
		}
		out := c.now().AddDate(0, 0, -days).Format(postedTimeFormat)
		return &out
	}

	return &value
}
