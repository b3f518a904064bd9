package tool

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/searchbot/pkg/scraper"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
)

// NewFetchURLTool exposes the "fetch_url" MCP tool: it retrieves a webpage
// and returns its body converted to markdown.
func NewFetchURLTool(scraper scraper.Scraper) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("fetch_url",
		mcp.WithDescription("Fetch the given webpage url and return its content as markdown."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The url of the webpage to fetch"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		markdown, err := fetchAsMarkdown(ctx, scraper, url)
		if err != nil {
			slog.ErrorContext(ctx, "fetch failed", slog.Any("error", errors.WithStack(err)))
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(markdown), nil
	}

	return tool, handler
}

func fetchAsMarkdown(ctx context.Context, scraper scraper.Scraper, url string) (string, error) {
	slog.DebugContext(ctx, "fetching page", slog.String("url", url))

	res, err := scraper.Get(ctx, url)
	if err != nil {
		return "", errors.WithStack(err)
	}

	defer res.Close()

	doc, err := goquery.NewDocumentFromReader(res)
	if err != nil {
		return "", errors.WithStack(err)
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	html, err := doc.Find("body").Html()
	if err != nil {
		return "", errors.WithStack(err)
	}

	markdown, err := conv.ConvertString(html)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return strings.TrimSpace(markdown), nil
}
