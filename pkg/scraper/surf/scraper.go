package surf

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/bornholm/searchbot/pkg/scraper"
	"github.com/enetx/g"
	"github.com/enetx/surf"
	"github.com/pkg/errors"
)

// Scraper issues requests through a browser-impersonating client. Useful
// when the upstream serves bot-detection pages to plain HTTP clients.
type Scraper struct {
}

// Check implements scraper.Scraper.
func (s *Scraper) Check(ctx context.Context, url string) (bool, error) {
	client := s.getClient()
	resp := client.Get(g.String(url)).WithContext(ctx).Do()
	if resp.IsErr() {
		return false, errors.WithStack(resp.Err())
	}

	return resp.IsOk(), nil
}

// Get implements scraper.Scraper.
func (s *Scraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	client := s.getClient()
	resp := client.Get(g.String(url)).WithContext(ctx).Do()
	if resp.IsErr() {
		return nil, errors.WithStack(resp.Err())
	}

	return resp.Ok().Body.Reader, nil
}

// Post implements scraper.Scraper. The impersonation profile supplies the
// browser headers, so the given headers are ignored.
func (s *Scraper) Post(ctx context.Context, url string, form url.Values, _ http.Header) (io.ReadCloser, error) {
	client := s.getClient()
	resp := client.Post(g.String(url), g.String(form.Encode())).WithContext(ctx).Do()
	if resp.IsErr() {
		return nil, errors.WithStack(resp.Err())
	}

	return resp.Ok().Body.Reader, nil
}

func (s *Scraper) getClient() *surf.Client {
	builder := surf.NewClient().
		Builder()

	if proxy := os.Getenv("HTTP_PROXY"); proxy != "" {
		builder = builder.Proxy(proxy)
	}

	// No retry or session here: the search boundary is single-shot and must
	// not carry cookies across calls.
	builder = builder.Impersonate().RandomOS().Chrome().
		Timeout(30 * time.Second)

	return builder.Build()
}

func NewScraper() *Scraper {
	return &Scraper{}
}

var _ scraper.Scraper = &Scraper{}
