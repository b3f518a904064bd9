package search

import (
	"context"
	"testing"
)

type staticClient struct {
	results []Result
	err     error
}

func (c *staticClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if c.err != nil {
		return nil, c.err
	}

	return c.results, nil
}

var _ Client = &staticClient{}

func TestDomainFilter(t *testing.T) {
	client := &staticClient{
		results: []Result{
			{Title: "keep", URL: "https://example.com/a", Position: 1},
			{Title: "drop", URL: "https://ads.tracker.net/b", Position: 2},
			{Title: "keep too", URL: "https://example.org/c", Position: 3},
		},
	}

	filtered, err := WithDomainFilter(client, "*.tracker.net")
	if err != nil {
		t.Fatalf("%+v", err)
	}

	results, err := filtered.Search(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	for i, r := range results {
		if r.Position != i+1 {
			t.Errorf("expected position %d, got %d", i+1, r.Position)
		}
	}

	if results[0].Title != "keep" || results[1].Title != "keep too" {
		t.Errorf("unexpected results after filtering: %+v", results)
	}
}

func TestDomainFilterInvalidPattern(t *testing.T) {
	if _, err := WithDomainFilter(&staticClient{}, "[invalid"); err == nil {
		t.Error("expected an error for an invalid glob pattern")
	}
}
