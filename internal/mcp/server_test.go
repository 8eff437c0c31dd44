package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/command/builtin"
)

// fakeSession records lines and returns a canned result.
type fakeSession struct {
	out   string
	err   error
	lines []string
}

func (f *fakeSession) Execute(_ context.Context, line string) (string, error) {
	f.lines = append(f.lines, line)
	return f.out, f.err
}

func (f *fakeSession) Registry() *command.Registry { return builtin.NewRegistry() }

func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestServeRequiresConfiguredServer(t *testing.T) {
	var s *Server
	if err := s.Serve(); err == nil {
		t.Fatal("expected error")
	}
	if err := (&Server{}).Serve(); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewConfiguresServer(t *testing.T) {
	s := New(&fakeSession{}, "test")
	if s == nil || s.mcpServer == nil {
		t.Fatal("expected configured server")
	}
}

func TestExecuteHandlerRunsLine(t *testing.T) {
	sess := &fakeSession{out: "3 papers"}
	handler := executeHandler(sess)

	result, err := handler(context.Background(), newCallToolRequest(toolExecute, map[string]any{
		"line": "ls by Chung | count",
	}))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.IsError {
		t.Fatal("expected success result")
	}
	if got := resultText(t, result); got != "3 papers" {
		t.Errorf("got %q", got)
	}
	if len(sess.lines) != 1 || sess.lines[0] != "ls by Chung | count" {
		t.Errorf("lines = %q", sess.lines)
	}
}

func TestExecuteHandlerRejectsEmptyLine(t *testing.T) {
	sess := &fakeSession{}
	handler := executeHandler(sess)

	for _, args := range []map[string]any{{}, {"line": "  "}} {
		result, err := handler(context.Background(), newCallToolRequest(toolExecute, args))
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if !result.IsError {
			t.Errorf("%v: expected error result", args)
		}
	}
	if len(sess.lines) != 0 {
		t.Errorf("expected no lines run, got %q", sess.lines)
	}
}

func TestExecuteHandlerReportsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unknown command", &command.UnknownCommandError{Name: "lss", Suggestion: "ls"}, `did you mean "ls"`},
		{"handler failure", errors.New("boom"), "boom"},
		{"exit", command.ErrExitRequested, "not available over MCP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := executeHandler(&fakeSession{err: tt.err})
			result, err := handler(context.Background(), newCallToolRequest(toolExecute, map[string]any{"line": "x"}))
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if got := resultText(t, result); !strings.Contains(got, tt.want) {
				t.Errorf("got %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestCommandsHandlerListsRegistry(t *testing.T) {
	handler := commandsHandler(builtin.NewRegistry())
	result, err := handler(context.Background(), newCallToolRequest(toolCommands, nil))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got := resultText(t, result)
	for _, want := range []string{"ls ", "where EXPR", "head [N]", "quit:"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}
