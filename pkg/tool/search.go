package tool

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bornholm/searchbot/pkg/search"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
)

// NewSearchTool exposes a search.Client as the "search" MCP tool.
//
// The tool never reports a pipeline failure to the session: timeouts, HTTP
// and parse errors are logged and collapsed into the empty-result advisory
// text, so the caller always receives a formatted report.
func NewSearchTool(client search.Client) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("search",
		mcp.WithDescription("Search DuckDuckGo and return formatted results."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query string"),
		),
		mcp.WithNumber("max_results",
			mcp.DefaultNumber(search.DefaultMaxResults),
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		query = strings.TrimSpace(query)
		if query == "" {
			return mcp.NewToolResultError("query must not be empty"), nil
		}

		maxResults := request.GetInt("max_results", search.DefaultMaxResults)

		results, err := client.Search(ctx, query, maxResults)
		if err != nil {
			slog.ErrorContext(ctx, "search failed", slog.Any("error", errors.WithStack(err)))
			results = nil
		}

		return mcp.NewToolResultText(search.FormatResults(results)), nil
	}

	return tool, handler
}
