// Command ceceo-mcp serves the ceceo interpreter as MCP tools over stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/TGMM/ceceo-llvm/pkg/ceceo"
)

// session owns the shared runtime. Tool calls are serialized on mu.
type session struct {
	mu       sync.Mutex
	runtime  *ceceo.Runtime
	noStdlib bool
	log      *logrus.Logger
}

func newSession(opts []ceceo.Option, noStdlib bool, logger *logrus.Logger) (*session, error) {
	opts = append(opts, ceceo.WithOutputWriter(discard))
	r, err := ceceo.New(opts...)
	if err != nil {
		return nil, err
	}
	return &session{runtime: r, noStdlib: noStdlib, log: logger}, nil
}

// discard drops display output outside a tool call; stdout carries the protocol.
func discard(string) error { return nil }

// evalCaptured evaluates src in r, returning display output followed by
// the final value.
func evalCaptured(r *ceceo.Runtime, src string) (string, error) {
	var out strings.Builder
	r.SetOutputWriter(func(text string) error {
		out.WriteString(text)
		return nil
	})
	defer r.SetOutputWriter(discard)

	result, err := r.Eval(src)
	if err != nil {
		return out.String(), err
	}
	if result != "" {
		fmt.Fprintf(&out, "=> %s", result)
	}
	return out.String(), nil
}

func (s *session) handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fresh := request.GetBool("fresh", false)
	s.log.WithFields(logrus.Fields{"tool": "ceceo_eval", "fresh": fresh}).Debug(src)

	var text string
	if fresh {
		opts := []ceceo.Option{ceceo.WithOutputWriter(discard)}
		if s.noStdlib {
			opts = append(opts, ceceo.WithNoStdlib())
		}
		r, err := ceceo.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("fresh runtime: %w", err)
		}
		defer r.Close()
		text, err = evalCaptured(r, src)
		if err != nil {
			return mcp.NewToolResultError(text + err.Error()), nil
		}
	} else {
		s.mu.Lock()
		text, err = evalCaptured(s.runtime, src)
		s.mu.Unlock()
		if err != nil {
			return mcp.NewToolResultError(text + err.Error()), nil
		}
	}
	return mcp.NewToolResultText(text), nil
}

func (s *session) handleParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.log.WithField("tool", "ceceo_parse").Debug(src)

	data, err := s.runtime.Visualize(src, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *session) handleDefinitions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.log.WithField("tool", "ceceo_definitions").Debug("list")

	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, name := range s.runtime.Definitions() {
		src, _ := s.runtime.Definition(name)
		fmt.Fprintf(&b, "%s = %s\n", name, src)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runtime.Close()
}

func newServer(s *session) *server.MCPServer {
	srv := server.NewMCPServer("ceceo", "0.1.0", server.WithToolCapabilities(false))
	srv.AddTool(
		mcp.NewTool("ceceo_eval",
			mcp.WithDescription("Evaluate a ceceo (Scheme subset) program. Returns display output followed by '=> value' for a non-void result. Definitions persist across calls unless fresh is set."),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Program text, e.g. (define (sq x) (* x x)) (sq 4)"),
			),
			mcp.WithBoolean("fresh",
				mcp.Description("If true, evaluate in a throwaway runtime"),
			),
		),
		s.handleEval,
	)
	srv.AddTool(
		mcp.NewTool("ceceo_parse",
			mcp.WithDescription("Parse a ceceo program and return its syntax tree as JSON."),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Program text to parse"),
			),
		),
		s.handleParse,
	)
	srv.AddTool(
		mcp.NewTool("ceceo_definitions",
			mcp.WithDescription("List the global definitions of the shared runtime as 'name = source' lines."),
		),
		s.handleDefinitions,
	)
	return srv
}

func main() {
	var (
		dbPath   = flag.String("db", "", "SQLite database path (empty keeps definitions in memory)")
		noStdlib = flag.Bool("no-stdlib", false, "Disable standard library prelude")
		debug    = flag.Bool("debug", false, "Log tool calls to stderr")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	var opts []ceceo.Option
	if *dbPath != "" {
		opts = append(opts, ceceo.WithSQLiteStore(*dbPath))
	}
	if *noStdlib {
		opts = append(opts, ceceo.WithNoStdlib())
	}

	s, err := newSession(opts, *noStdlib, logger)
	if err != nil {
		logger.Fatalf("runtime: %v", err)
	}
	defer s.Close()

	errLog := log.New(logger.WriterLevel(logrus.ErrorLevel), "", 0)
	if err := server.ServeStdio(newServer(s), server.WithErrorLogger(errLog)); err != nil {
		logger.Errorf("server error: %v", err)
		s.Close()
		os.Exit(1)
	}
}
