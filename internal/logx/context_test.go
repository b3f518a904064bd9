package logx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextHandler(t *testing.T) {
	var buff bytes.Buffer

	logger := slog.New(ContextHandler{
		Handler: slog.NewTextHandler(&buff, nil),
	})

	ctx := Append(context.Background(), slog.String("query", "golang"))

	logger.InfoContext(ctx, "searching")

	output := buff.String()

	if !strings.Contains(output, "query=golang") {
		t.Errorf("expected context attribute in output, got %q", output)
	}
}

func TestAppendDoesNotMutateParent(t *testing.T) {
	var buff bytes.Buffer

	logger := slog.New(ContextHandler{
		Handler: slog.NewTextHandler(&buff, nil),
	})

	parent := Append(context.Background(), slog.String("a", "1"))
	_ = Append(parent, slog.String("b", "2"))

	logger.InfoContext(parent, "message")

	if strings.Contains(buff.String(), "b=2") {
		t.Errorf("child attribute leaked into parent context: %q", buff.String())
	}
}
