package search

import "context"

const DefaultMaxResults = 10

type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// Result is a single parsed hit. Position is the 1-based rank of the result
// within the call that produced it.
type Result struct {
	Title    string
	URL      string
	Snippet  string
	Position int
}
