package ceceo

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/TGMM/ceceo-llvm/internal/eval"
	"github.com/TGMM/ceceo-llvm/internal/expr"
	"github.com/TGMM/ceceo-llvm/internal/parser"
	"github.com/TGMM/ceceo-llvm/internal/visualize"
)

// Node is a parsed ceceo form.
type Node = expr.Node

// ErrIncomplete matches parse errors caused by input ending inside a form.
var ErrIncomplete = parser.ErrIncomplete

// Runtime is the ceceo interpreter runtime.
type Runtime struct {
	evaluator       *eval.Evaluator
	store           eval.Store
	outputWriter    func(text string) error
	logger          *logrus.Logger
	prelude         string // Custom prelude source (if empty, uses DefaultPrelude)
	noStdlib        bool   // If true, skip loading prelude
	maxDepth        int
	continueOnError bool
	err             error // First option failure, reported by New
}

// New creates a new ceceo runtime with the given options. The prelude is
// loaded first, then any definitions persisted in the store.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		maxDepth: eval.DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.err != nil {
		if r.store != nil {
			r.store.Close()
		}
		return nil, r.err
	}

	// Build evaluator options
	evalOpts := []eval.Option{
		eval.WithMaxDepth(r.maxDepth),
		eval.WithContinueOnError(r.continueOnError),
	}
	if r.store != nil {
		evalOpts = append(evalOpts, eval.WithStore(r.store))
	}
	if r.outputWriter != nil {
		evalOpts = append(evalOpts, eval.WithOutputWriter(r.outputWriter))
	}
	if r.logger != nil {
		evalOpts = append(evalOpts, eval.WithLogger(r.logger))
	}

	r.evaluator = eval.New(evalOpts...)

	// Load prelude unless disabled
	if !r.noStdlib {
		prelude := r.prelude
		if prelude == "" {
			prelude = DefaultPrelude
		}
		if err := r.loadPrelude(prelude); err != nil {
			r.Close()
			return nil, fmt.Errorf("prelude: %w", err)
		}
	}

	if _, err := r.evaluator.Restore(); err != nil {
		r.Close()
		return nil, fmt.Errorf("restore definitions: %w", err)
	}
	return r, nil
}

// loadPrelude evaluates the prelude into the runtime's namespace without
// writing its definitions to the store.
func (r *Runtime) loadPrelude(src string) error {
	opts := []eval.Option{
		eval.WithNamespace(r.evaluator.Namespace()),
		eval.WithMaxDepth(r.maxDepth),
	}
	if r.outputWriter != nil {
		opts = append(opts, eval.WithOutputWriter(r.outputWriter))
	}
	_, err := eval.New(opts...).Eval(src)
	return err
}

// Eval evaluates a ceceo program and returns the display text of the last
// value, or "" when it is void.
func (r *Runtime) Eval(input string) (string, error) {
	return r.EvalReader(strings.NewReader(input))
}

// EvalReader evaluates ceceo from a reader.
func (r *Runtime) EvalReader(reader io.Reader) (string, error) {
	v, err := r.evaluator.EvalReader(reader)
	if err != nil {
		return "", err
	}
	if v.IsVoid() {
		return "", nil
	}
	return r.evaluator.Format(v)
}

// EvalFile evaluates a ceceo file.
func (r *Runtime) EvalFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return r.EvalReader(f)
}

// Parse parses source without evaluating it.
func (r *Runtime) Parse(input string) ([]Node, error) {
	return parser.ParseString(input)
}

// Visualize parses source and renders the forest as JSON.
func (r *Runtime) Visualize(input string, indent bool) ([]byte, error) {
	forms, err := parser.ParseString(input)
	if err != nil {
		return nil, err
	}
	if indent {
		return visualize.Indent(forms)
	}
	return visualize.Forest(forms)
}

// Definitions returns the names of all global definitions, sorted.
func (r *Runtime) Definitions() []string {
	return r.evaluator.Namespace().Names()
}

// Definition returns the source of a global definition.
func (r *Runtime) Definition(name string) (string, bool) {
	return r.evaluator.Definition(name)
}

// SetOutputWriter changes the output writer for display.
func (r *Runtime) SetOutputWriter(writer func(text string) error) {
	r.outputWriter = writer
	r.evaluator.SetOutputWriter(writer)
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
