package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"olx-scraper/models"
	"olx-scraper/utils"
)

// cardSel is the structural marker unique to listing items on the search page.
const cardSel = `li[data-aut-id="itemBox"]`

// installmentRegexp matches the three local spellings of "installment".
var installmentRegexp = regexp.MustCompile(`(?i)cicilan|angsuran|cicil`)

// Parser extracts raw listing records from saved OLX search-page markup.
type Parser struct {
	logger *utils.Logger
}

// New creates a Parser with the given logger.
func New(logger *utils.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseFile reads the raw page artifact and returns one RawListing per card,
// in page order. Each of the seven fields is extracted defensively: a
// missing sub-node yields the models.NotFound sentinel, never an error, so
// every record has the full field set.
func (p *Parser) ParseFile(htmlPath string) ([]*models.RawListing, error) {
	f, err := os.Open(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("parser: open page artifact %q: %w", htmlPath, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parser: parse page artifact %q: %w", htmlPath, err)
	}

	return p.Parse(doc), nil
}

// Parse extracts listings from an already-parsed document.
func (p *Parser) Parse(doc *goquery.Document) []*models.RawListing {
	var listings []*models.RawListing

	doc.Find(cardSel).Each(func(_ int, card *goquery.Selection) {
		listings = append(listings, &models.RawListing{
			Title:       textOrSentinel(card.Find(`div[data-aut-id="itemTitle"]`)),
			Price:       textOrSentinel(card.Find(`span[data-aut-id="itemPrice"]`)),
			ListingURL:  hrefOrSentinel(card.Find("a[href]")),
			Location:    extractLocation(card),
			Installment: extractInstallment(card),
			PostedTime:  extractPostedTime(card),
			YearMileage: textOrSentinel(card.Find(`div[data-aut-id="itemSubTitle"]`)),
		})
	})

	p.logger.Info("[parser] Extracted %d listing cards", len(listings))
	return listings
}

// extractLocation returns the leading text node of the details block, which
// holds the location; the nested span holds the posted time.
func extractLocation(card *goquery.Selection) string {
	details := card.Find(`div[data-aut-id="itemDetails"]`).First()
	if details.Length() == 0 {
		return models.NotFound
	}

	for node := details.Nodes[0].FirstChild; node != nil; node = node.NextSibling {
		if node.Type == html.TextNode {
			if text := strings.TrimSpace(node.Data); text != "" {
				return text
			}
		}
	}
	return models.NotFound
}

func extractPostedTime(card *goquery.Selection) string {
	return textOrSentinel(card.Find(`div[data-aut-id="itemDetails"]`).First().Find("span"))
}

// extractInstallment scans the card's spans for the installment wording;
// most cards advertise a monthly figure, some omit it entirely.
func extractInstallment(card *goquery.Selection) string {
	found := models.NotFound
	card.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if installmentRegexp.MatchString(text) {
			found = text
			return false
		}
		return true
	})
	return found
}

func textOrSentinel(s *goquery.Selection) string {
	if s.Length() == 0 {
		return models.NotFound
	}
	text := strings.TrimSpace(s.First().Text())
	if text == "" {
		return models.NotFound
	}
	return text
}

func hrefOrSentinel(s *goquery.Selection) string {
	if s.Length() == 0 {
		return models.NotFound
	}
	href, ok := s.First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return models.NotFound
	}
	return strings.TrimSpace(href)
}
