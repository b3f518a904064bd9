package searx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/searchbot/pkg/search"
	searchEngine "github.com/bornholm/searchbot/pkg/search"
	"github.com/gocolly/colly"
	"github.com/pkg/errors"
)

// Client queries a pinned SearXNG instance. The instance is chosen by the
// operator; there is no automatic instance discovery or fallback.
type Client struct {
	instanceURL *url.URL
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]searchEngine.Result, error) {
	if maxResults <= 0 {
		maxResults = search.DefaultMaxResults
	}

	searchURL := c.instanceURL.JoinPath("/search")

	values := searchURL.Query()
	values.Set("q", query)
	searchURL.RawQuery = values.Encode()

	slog.DebugContext(ctx, "executing search", slog.String("url", searchURL.String()))

	var results []searchEngine.Result

	collector := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"),
	)

	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
			DualStack: true,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	})

	collector.OnHTML("body", func(h *colly.HTMLElement) {
		h.DOM.Find(".result").Each(func(i int, s *goquery.Selection) {
			if len(results) >= maxResults {
				return
			}

			link := s.Find("h3 > a[href]")

			url := link.AttrOr("href", "")
			if url == "" {
				return
			}

			title := link.Text()
			if title == "" {
				return
			}

			snippet := strings.TrimSpace(s.Find(".content").Text())

			results = append(results, searchEngine.Result{
				Title:    title,
				URL:      url,
				Snippet:  snippet,
				Position: len(results) + 1,
			})
		})
	})

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
		r.Headers.Set("Connection", "keep-alive")
		r.Headers.Set("Sec-Fetch-Mode", "navigate")
		r.Headers.Set("Sec-Fetch-Dest", "document")
		r.Headers.Set("sec-fetch-site", "none")
		r.Headers.Set("Pragma", "no-cache")
		r.Headers.Set("Cache-Control", "no-cache")
	})

	if err := collector.Visit(searchURL.String()); err != nil {
		return nil, errors.WithStack(err)
	}

	return results, nil
}

func NewClient(instanceURL string) (*Client, error) {
	u, err := url.Parse(instanceURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse instance url %q", instanceURL)
	}

	return &Client{instanceURL: u}, nil
}

var _ search.Client = &Client{}
