package duckduckgo

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/searchbot/pkg/ratelimit"
	"github.com/bornholm/searchbot/pkg/scraper"
	"github.com/bornholm/searchbot/pkg/search"
	searchEngine "github.com/bornholm/searchbot/pkg/search"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://html.duckduckgo.com/html"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	requestTimeout = 30 * time.Second

	// Links of sponsored entries go through the y.js ad redirector.
	adMarker = "y.js"
)

var ErrCaptcha = errors.New("captcha challenge detected")

type Client struct {
	baseURL string
	scraper scraper.Scraper
	limiter *ratelimit.Limiter
}

type OptionFunc func(*Client)

func WithBaseURL(baseURL string) OptionFunc {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithLimiter(limiter *ratelimit.Limiter) OptionFunc {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	if maxResults <= 0 {
		maxResults = search.DefaultMaxResults
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	form := url.Values{
		"q":  {query},
		"b":  {""},
		"kl": {""},
	}

	headers := http.Header{}
	headers.Set("User-Agent", userAgent)

	slog.InfoContext(ctx, "searching duckduckgo", slog.String("query", query))

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := c.scraper.Post(reqCtx, c.baseURL, form, headers)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	captcha := doc.Find("#challenge-form")
	if captcha.Length() > 0 {
		return nil, errors.WithStack(ErrCaptcha)
	}

	results := make([]searchEngine.Result, 0, maxResults)

	doc.Find(".result").EachWithBreak(func(i int, s *goquery.Selection) bool {
		title := s.Find(".result__title")
		if title.Length() == 0 {
			return true
		}

		link := title.Find("a")
		if link.Length() == 0 {
			return true
		}

		rawLink := link.AttrOr("href", "")
		if rawLink == "" {
			return true
		}

		if strings.Contains(rawLink, adMarker) {
			return true
		}

		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())

		results = append(results, searchEngine.Result{
			Title:    strings.TrimSpace(link.Text()),
			URL:      unwrapRedirect(rawLink),
			Snippet:  snippet,
			Position: len(results) + 1,
		})

		return len(results) < maxResults
	})

	slog.InfoContext(ctx, "search completed", slog.Int("results", len(results)))

	return results, nil
}

// unwrapRedirect resolves the redirect-wrapper links of the results page:
// the real destination is carried percent-encoded in the uddg parameter.
func unwrapRedirect(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}

	if uddg := u.Query().Get("uddg"); uddg != "" {
		return uddg
	}

	return link
}

func NewClient(scraper scraper.Scraper, funcs ...OptionFunc) *Client {
	client := &Client{
		baseURL: defaultBaseURL,
		scraper: scraper,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultCeiling, ratelimit.DefaultWindow),
	}

	for _, fn := range funcs {
		fn(client)
	}

	return client
}

var _ search.Client = &Client{}
