package search

import (
	"fmt"
	"strings"
)

// NoResultsMessage is returned by FormatResults for an empty result list. An
// empty list covers both "no matches" and "blocked upstream"; the advisory
// text is the only place where that ambiguity surfaces to the reader.
const NoResultsMessage = "No results were found for your search query. " +
	"This could be due to the search engine's bot detection or the query returned no matches. " +
	"Please try rephrasing your search or try again in a few minutes."

// FormatResults renders results as a plain-text report in a natural language
// style that is easy for a LLM to process.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return NoResultsMessage
	}

	lines := []string{fmt.Sprintf("Found %d search results:\n", len(results))}

	for _, r := range results {
		lines = append(lines,
			fmt.Sprintf("%d. %s", r.Position, r.Title),
			fmt.Sprintf("   URL: %s", r.URL),
			fmt.Sprintf("   Summary: %s", r.Snippet),
			"",
		)
	}

	return strings.Join(lines, "\n")
}
