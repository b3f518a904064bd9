package search

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// DomainFilter removes results whose host matches one of the blocked glob
// patterns. Surviving results are renumbered 1..n.
type DomainFilter struct {
	client  Client
	blocked []glob.Glob
}

// Search implements Client.
func (f *DomainFilter) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	results, err := f.client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	kept := make([]Result, 0, len(results))

	for _, r := range results {
		if f.isBlocked(ctx, r.URL) {
			continue
		}

		r.Position = len(kept) + 1
		kept = append(kept, r)
	}

	return kept, nil
}

func (f *DomainFilter) isBlocked(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		// Not attributable to a host, let it through.
		return false
	}

	host := u.Hostname()

	for _, g := range f.blocked {
		if g.Match(host) {
			slog.DebugContext(ctx, "dropping result from blocked domain", slog.String("host", host))
			return true
		}
	}

	return false
}

var _ Client = &DomainFilter{}

func WithDomainFilter(client Client, patterns ...string) (*DomainFilter, error) {
	blocked := make([]glob.Glob, 0, len(patterns))

	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compile domain pattern %q", p)
		}

		blocked = append(blocked, g)
	}

	return &DomainFilter{client: client, blocked: blocked}, nil
}
