package tool

import (
	"github.com/bornholm/searchbot/pkg/scraper"
	"github.com/bornholm/searchbot/pkg/search"
	"github.com/mark3labs/mcp-go/server"
)

// Register attaches the standard searchbot tools to the given MCP server.
func Register(s *server.MCPServer, client search.Client, sc scraper.Scraper) {
	s.AddTool(NewSearchTool(client))
	s.AddTool(NewFetchURLTool(sc))
}
