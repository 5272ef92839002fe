package bref

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.basketball-reference.com"

	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval keeps us under the site's crawl limit of 20 requests a minute.
	MinRequestInterval = 4 * time.Second
)

// Fetcher returns the rendered HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// BrowserFetcher renders pages in headless Chrome.
type BrowserFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
}

// NewBrowserFetcher starts a headless Chrome allocator. Close releases it.
func NewBrowserFetcher() *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &BrowserFetcher{allocCtx: allocCtx, cancel: cancel, timeout: 45 * time.Second}
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, f.timeout)
	defer cancel()

	// The browser context does not inherit ctx; stop it when the caller gives up.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(`#per_game_stats`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp: %w", err)
	}
	if html == "" {
		return "", fmt.Errorf("empty HTML content returned for %s", url)
	}
	return html, nil
}

// Client loads per-game season averages from Basketball Reference.
type Client struct {
	baseURL string
	fetcher Fetcher
	limiter *rate.Limiter
	log     *logrus.Entry
}

// NewClient wraps fetcher with the site's rate limit.
func NewClient(baseURL string, fetcher Fetcher, log *logrus.Entry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Every(MinRequestInterval), 1),
		log:     log.WithField("component", "bref-client"),
	}
}

// SeasonURL is the per-game page of the season tagged "YYYY-YY". The site keys
// seasons by the year they end in.
func (c *Client) SeasonURL(season string) (string, error) {
	start, err := stats.ParseSeasonTag(season)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/leagues/NBA_%d_per_game.html", c.baseURL, start+1), nil
}

// FetchSeason downloads and parses one season's per-game table.
func (c *Client) FetchSeason(ctx context.Context, season string) (stats.Table, error) {
	url, err := c.SeasonURL(season)
	if err != nil {
		return stats.Table{}, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return stats.Table{}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	c.log.WithFields(logrus.Fields{"season": season, "url": url}).Info("fetching season page")
	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return stats.Table{}, fmt.Errorf("fetching %s: %w", season, err)
	}

	table, err := ParsePerGame(strings.NewReader(html), season)
	if err != nil {
		return stats.Table{}, fmt.Errorf("parsing %s: %w", season, err)
	}
	c.log.WithFields(logrus.Fields{"season": season, "players": table.Len()}).Info("parsed season page")
	return table, nil
}
