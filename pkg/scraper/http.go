package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

type HTTPScraper struct {
	client *http.Client
}

// Check implements scraper.Scraper.
func (s *HTTPScraper) Check(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return false, errors.WithStack(err)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return false, errors.WithStack(err)
	}

	defer res.Body.Close()

	ok := res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusBadRequest

	return ok, nil
}

// Get implements scraper.Scraper.
func (s *HTTPScraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return s.do(req)
}

// Post implements scraper.Scraper.
func (s *HTTPScraper) Post(ctx context.Context, url string, form url.Values, headers http.Header) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for name, values := range headers {
		for _, value := range values {
			req.Header.Set(name, value)
		}
	}

	return s.do(req)
}

func (s *HTTPScraper) do(req *http.Request) (io.ReadCloser, error) {
	res, err := s.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ok := res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusBadRequest

	if !ok {
		defer res.Body.Close()

		body, err := io.ReadAll(io.LimitReader(res.Body, 4e+6)) // Restrict to 4MB
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return nil, errors.Errorf("unexpected response http status %d (%s):\n%s", res.StatusCode, res.Status, body)
	}

	return res.Body, nil
}

func NewHTTPScraper(client *http.Client) *HTTPScraper {
	return &HTTPScraper{
		client: client,
	}
}

var _ Scraper = &HTTPScraper{}
