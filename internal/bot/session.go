package bot

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"
)

const (
	// readyTimeout bounds the initialize handshake with the search server.
	readyTimeout = 10 * time.Second

	// callTimeout bounds a single search tool call. The server performs no
	// retries but may spend the rate-limiter wait plus the request timeout.
	callTimeout = 2 * time.Minute

	searchToolName = "search"
)

// mcpSession abstracts the MCP client for testability.
type mcpSession interface {
	Initialize(ctx context.Context, request mcp.InitializeRequest) (*mcp.InitializeResult, error)
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// Session owns a stdio MCP session with the search server subprocess.
type Session struct {
	client mcpSession
}

// NewSession spawns the search server and performs the initialize handshake,
// verifying that the expected search tool is available.
func NewSession(ctx context.Context, command string, env []string, args ...string) (*Session, error) {
	client, err := mcpclient.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to spawn search server %q", command)
	}

	session, err := newSessionWithClient(ctx, client)
	if err != nil {
		client.Close()
		return nil, errors.WithStack(err)
	}

	return session, nil
}

func newSessionWithClient(ctx context.Context, client mcpSession) (*Session, error) {
	initCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "searchbot",
		Version: "1.0.0",
	}

	if _, err := client.Initialize(initCtx, initReq); err != nil {
		return nil, errors.Wrap(err, "search server is not ready")
	}

	tools, err := client.ListTools(initCtx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list server tools")
	}

	found := false
	for _, t := range tools.Tools {
		if t.Name == searchToolName {
			found = true
			break
		}
	}

	if !found {
		return nil, errors.Errorf("tool %q not found on the search server", searchToolName)
	}

	return &Session{client: client}, nil
}

// Search calls the search tool and returns the formatted report.
func (s *Session) Search(ctx context.Context, query string, maxResults int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	request := mcp.CallToolRequest{}
	request.Params.Name = searchToolName
	request.Params.Arguments = map[string]any{
		"query":       query,
		"max_results": maxResults,
	}

	result, err := s.client.CallTool(callCtx, request)
	if err != nil {
		return "", errors.Wrap(err, "search tool call failed")
	}

	text := extractText(result)

	if result.IsError {
		return "", errors.Errorf("search tool error: %s", text)
	}

	if text == "" {
		return "", errors.New("empty or unexpected result from the search tool")
	}

	return text, nil
}

func (s *Session) Close() error {
	return errors.WithStack(s.client.Close())
}

// extractText concatenates the text contents of a tool result.
func extractText(result *mcp.CallToolResult) string {
	var parts []string

	for _, content := range result.Content {
		switch v := content.(type) {
		case mcp.TextContent:
			parts = append(parts, v.Text)
		case *mcp.TextContent:
			parts = append(parts, v.Text)
		default:
			if data, err := json.Marshal(v); err == nil {
				parts = append(parts, string(data))
			}
		}
	}

	return strings.Join(parts, "\n")
}
