package main

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/TGMM/ceceo-llvm/pkg/ceceo"
)

func testSession(t *testing.T) *session {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s, err := newSession([]ceceo.Option{ceceo.WithMemoryStore()}, false, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	return mcp.GetTextFromContent(res.Content[0])
}

func TestEvalTool(t *testing.T) {
	s := testSession(t)
	ctx := context.Background()

	tests := []struct {
		source   string
		expected string
	}{
		{"(+ 1 2)", "=> 3"},
		{`(display "hi") (* 6 7)`, "hi\n=> 42"},
		{"(define (sq x) (* x x))", ""},
		{"(sq 9)", "=> 81"},
		{"(square 3)", "=> 9"},
	}

	for _, tt := range tests {
		res, err := s.handleEval(ctx, callTool("ceceo_eval", map[string]any{"source": tt.source}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("%s: unexpected tool error %q", tt.source, resultText(t, res))
		}
		if got := resultText(t, res); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.source, tt.expected, got)
		}
	}
}

func TestEvalToolFresh(t *testing.T) {
	s := testSession(t)
	ctx := context.Background()

	if _, err := s.handleEval(ctx, callTool("ceceo_eval", map[string]any{"source": "(define (sq x) (* x x))"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := s.handleEval(ctx, callTool("ceceo_eval", map[string]any{"source": "(sq 2)", "fresh": true}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected fresh runtime to lack sq, got %q", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), "sq") {
		t.Errorf("expected the unknown name in the error, got %q", resultText(t, res))
	}

	res, err = s.handleEval(ctx, callTool("ceceo_eval", map[string]any{"source": "(define (cube2 x) x)", "fresh": true}))
	if err != nil || res.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	for _, name := range s.runtime.Definitions() {
		if name == "cube2" {
			t.Error("fresh definitions leaked into the shared runtime")
		}
	}
}

func TestEvalToolErrors(t *testing.T) {
	s := testSession(t)
	ctx := context.Background()

	res, err := s.handleEval(ctx, callTool("ceceo_eval", map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("expected missing source to be a tool error")
	}

	res, err = s.handleEval(ctx, callTool("ceceo_eval", map[string]any{"source": `(display "before") (/ 1 0)`}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected division by zero to be a tool error")
	}
	if got := resultText(t, res); !strings.HasPrefix(got, "before\n") {
		t.Errorf("expected captured output before the error, got %q", got)
	}
}

func TestParseTool(t *testing.T) {
	s := testSession(t)
	res, err := s.handleParse(context.Background(), callTool("ceceo_parse", map[string]any{"source": "(f 'x)"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error %q", resultText(t, res))
	}

	var forest []any
	if err := json.Unmarshal([]byte(resultText(t, res)), &forest); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	list := forest[0].([]any)
	quoted := list[1].(map[string]any)
	if quoted["quoted"] != true || quoted["value"] != "x" {
		t.Errorf("unexpected quoted atom %v", quoted)
	}

	res, err = s.handleParse(context.Background(), callTool("ceceo_parse", map[string]any{"source": "(f"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("expected a parse error")
	}
}

func TestDefinitionsTool(t *testing.T) {
	s := testSession(t)
	ctx := context.Background()
	if _, err := s.handleEval(ctx, callTool("ceceo_eval", map[string]any{"source": "(define answer 42)"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := s.handleDefinitions(ctx, callTool("ceceo_definitions", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "answer = 42\n") {
		t.Errorf("expected answer definition, got %q", text)
	}
	if !strings.Contains(text, "square = ") {
		t.Errorf("expected prelude definitions, got %q", text)
	}
}

func TestServerRegistersTools(t *testing.T) {
	s := testSession(t)
	tools := newServer(s).ListTools()
	for _, name := range []string{"ceceo_eval", "ceceo_parse", "ceceo_definitions"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %s not registered", name)
		}
	}
}
