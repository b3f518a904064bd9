package google

import (
	"context"
	"log/slog"

	"github.com/bornholm/searchbot/pkg/search"
	searchEngine "github.com/bornholm/searchbot/pkg/search"
	"github.com/pkg/errors"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Client implements the search.Client interface using Google Custom Search API.
type Client struct {
	apiKey string
	cx     string
}

// Search implements the search.Client interface.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	if maxResults <= 0 {
		maxResults = search.DefaultMaxResults
	}

	service, err := customsearch.NewService(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	slog.DebugContext(ctx, "executing search", slog.String("query", query))

	call := service.Cse.List()
	call.Q(query)
	call.Cx(c.cx)
	call.Num(int64(maxResults))

	searchResult, err := call.Do()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var results []searchEngine.Result
	for _, item := range searchResult.Items {
		if len(results) >= maxResults {
			break
		}

		results = append(results, searchEngine.Result{
			Title:    item.Title,
			URL:      item.Link,
			Snippet:  item.Snippet,
			Position: len(results) + 1,
		})
	}

	return results, nil
}

// NewClient creates a new Google Custom Search API client.
func NewClient(apiKey, cx string) *Client {
	return &Client{
		apiKey: apiKey,
		cx:     cx,
	}
}

// Ensure Client implements search.Client
var _ search.Client = &Client{}
