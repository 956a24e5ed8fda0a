package olx

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"olx-scraper/config"
	"olx-scraper/storage"
	"olx-scraper/utils"
)

// Domain is the OLX Indonesia base URL; relative listing URLs are resolved
// against it.
const Domain = "https://www.olx.co.id"

const (
	usedCarPath = "/mobil-bekas_c198/q-"

	locationInputSel = `input[placeholder="Cari kota, area, atau lokalitas"]`
	locationItemSel  = `div[data-aut-id='locationItem']`
	loadMoreSel      = `button[data-aut-id="btnLoadMore"]`
)

// Scraper drives a headless Chrome session against the OLX used-car search
// page and captures the fully rendered markup.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
}

// New creates a ready-to-use OLX Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{cfg: cfg, logger: logger}
}

// SearchURL builds the used-car search URL for a keyword. Spaces become
// hyphens, matching the site's query slug format.
func SearchURL(keyword string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(keyword), " ", "-")
	return Domain + usedCarPath + slug
}

// Fetch navigates to the search page for keyword, expands the result list a
// bounded number of times, and writes the rendered HTML to outputPath. The
// browser session is torn down on every path; on error no artifact is
// written.
func (s *Scraper) Fetch(keyword, outputPath string) error {
	url := SearchURL(keyword)
	s.logger.Info("[olx] Fetching %s", url)

	chromeBin := s.findChromeBinary()
	s.logger.Debug("[olx] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	navCtx, cancelNav := context.WithTimeout(ctx, time.Duration(s.cfg.NavTimeoutSec)*time.Second)
	defer cancelNav()

	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("olx: navigate %s: %w", url, err)
	}
	s.logger.Info("[olx] Page loaded: %s", url)

	// Best-effort: widen the location scope to all of Indonesia. The scrape
	// proceeds with the site's default scope if this fails.
	if err := s.applyLocationFilter(ctx); err != nil {
		s.logger.Debug("[olx] Location filter skipped: %v", err)
	}

	if err := s.expandListings(ctx); err != nil {
		return err
	}

	var html string
	captureCtx, cancelCapture := context.WithTimeout(ctx, time.Duration(s.cfg.NavTimeoutSec)*time.Second)
	defer cancelCapture()
	if err := chromedp.Run(captureCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return fmt.Errorf("olx: capture page markup: %w", err)
	}

	if err := storage.WriteFileAtomic(outputPath, []byte(html)); err != nil {
		return err
	}
	s.logger.Info("[olx] Rendered page saved to %s (%d bytes)", outputPath, len(html))
	return nil
}

// applyLocationFilter fills the location search box and clicks the first
// suggestion. Callers ignore the returned error apart from debug logging.
func (s *Scraper) applyLocationFilter(ctx context.Context) error {
	filterCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return chromedp.Run(filterCtx,
		chromedp.SendKeys(locationInputSel, "Indonesia", chromedp.ByQuery),
		chromedp.WaitVisible(locationItemSel, chromedp.ByQuery),
		chromedp.Click(locationItemSel, chromedp.ByQuery),
	)
}

// expandListings repeats a scroll + "load more" cycle up to the configured
// bound, stopping early once the button disappears. The bound is a
// deliberate cap on listings per run.
func (s *Scraper) expandListings(ctx context.Context) error {
	scrollPause := time.Duration(s.cfg.ScrollPauseMs) * time.Millisecond
	clickPause := time.Duration(s.cfg.ClickPauseMs) * time.Millisecond

	for i := 0; i < s.cfg.LoadMoreClicks; i++ {
		stepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)

		var buttons int
		err := chromedp.Run(stepCtx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil),
			chromedp.Sleep(scrollPause),
			chromedp.Evaluate(`document.querySelectorAll('`+loadMoreSel+`').length`, &buttons),
		)
		if err != nil {
			cancel()
			return fmt.Errorf("olx: scroll iteration %d: %w", i+1, err)
		}

		if buttons == 0 {
			cancel()
			s.logger.Info("[olx] No 'load more' button after %d iterations — stopping", i+1)
			break
		}

		err = chromedp.Run(stepCtx,
			chromedp.Click(loadMoreSel, chromedp.ByQuery),
			chromedp.Sleep(clickPause),
		)
		cancel()
		if err != nil {
			return fmt.Errorf("olx: click 'load more' (iteration %d): %w", i+1, err)
		}
		s.logger.Debug("[olx] Clicked 'load more' (%d/%d)", i+1, s.cfg.LoadMoreClicks)
	}
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func (s *Scraper) findChromeBinary() string {
	if s.cfg.ChromeBin != "" {
		return s.cfg.ChromeBin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
