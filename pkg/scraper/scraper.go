package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

type Scraper interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
	Post(ctx context.Context, url string, form url.Values, headers http.Header) (io.ReadCloser, error)
	Check(ctx context.Context, url string) (bool, error)
}
