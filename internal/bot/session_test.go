package bot

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"
)

type fakeMCPClient struct {
	tools      []mcp.Tool
	callResult *mcp.CallToolResult
	callErr    error

	lastCall *mcp.CallToolRequest
	closed   bool
}

func (c *fakeMCPClient) Initialize(ctx context.Context, request mcp.InitializeRequest) (*mcp.InitializeResult, error) {
	return &mcp.InitializeResult{}, nil
}

func (c *fakeMCPClient) ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	return &mcp.ListToolsResult{Tools: c.tools}, nil
}

func (c *fakeMCPClient) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c.lastCall = &request

	if c.callErr != nil {
		return nil, c.callErr
	}

	return c.callResult, nil
}

func (c *fakeMCPClient) Close() error {
	c.closed = true

	return nil
}

var _ mcpSession = &fakeMCPClient{}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func TestSessionHandshakeRequiresSearchTool(t *testing.T) {
	ctx := context.Background()

	if _, err := newSessionWithClient(ctx, &fakeMCPClient{}); err == nil {
		t.Error("expected an error when the search tool is missing")
	}

	client := &fakeMCPClient{
		tools: []mcp.Tool{{Name: "search"}},
	}

	if _, err := newSessionWithClient(ctx, client); err != nil {
		t.Errorf("%+v", err)
	}
}

func TestSessionSearch(t *testing.T) {
	client := &fakeMCPClient{
		tools:      []mcp.Tool{{Name: "search"}},
		callResult: textResult("Found 1 search results:\n"),
	}

	session, err := newSessionWithClient(context.Background(), client)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	report, err := session.Search(context.Background(), "golang", 5)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if report != "Found 1 search results:\n" {
		t.Errorf("unexpected report %q", report)
	}

	if client.lastCall == nil {
		t.Fatal("tool was never called")
	}

	if name := client.lastCall.Params.Name; name != "search" {
		t.Errorf("unexpected tool name %q", name)
	}

	args, ok := client.lastCall.Params.Arguments.(map[string]any)
	if !ok {
		t.Fatalf("unexpected arguments type %T", client.lastCall.Params.Arguments)
	}

	if args["query"] != "golang" {
		t.Errorf("unexpected query argument %v", args["query"])
	}

	if args["max_results"] != 5 {
		t.Errorf("unexpected max_results argument %v", args["max_results"])
	}
}

func TestSessionSearchToolError(t *testing.T) {
	result := textResult("something went wrong")
	result.IsError = true

	client := &fakeMCPClient{
		tools:      []mcp.Tool{{Name: "search"}},
		callResult: result,
	}

	session, err := newSessionWithClient(context.Background(), client)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if _, err := session.Search(context.Background(), "golang", 5); err == nil {
		t.Error("expected an error for a tool-level failure")
	}
}

func TestSessionSearchTransportError(t *testing.T) {
	client := &fakeMCPClient{
		tools:   []mcp.Tool{{Name: "search"}},
		callErr: errors.New("pipe closed"),
	}

	session, err := newSessionWithClient(context.Background(), client)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if _, err := session.Search(context.Background(), "golang", 5); err == nil {
		t.Error("expected an error when the transport fails")
	}
}

func TestSessionClose(t *testing.T) {
	client := &fakeMCPClient{
		tools: []mcp.Tool{{Name: "search"}},
	}

	session, err := newSessionWithClient(context.Background(), client)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if err := session.Close(); err != nil {
		t.Fatalf("%+v", err)
	}

	if !client.closed {
		t.Error("underlying client was not closed")
	}
}
