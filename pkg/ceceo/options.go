// Package ceceo provides the public API for the ceceo interpreter.
package ceceo

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/TGMM/ceceo-llvm/internal/eval"
	"github.com/TGMM/ceceo-llvm/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// Store interface for custom stores.
type Store = eval.Store

// WithSQLiteStore configures SQLite persistence at the given path.
// Definitions are written through on every define and restored by New.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err != nil {
			r.err = err
			return
		}
		r.store = s
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithStore configures a custom store.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithOutputWriter sets the output writer for display.
func WithOutputWriter(writer func(text string) error) Option {
	return func(r *Runtime) {
		r.outputWriter = writer
	}
}

// WithOutput sets the io.Writer for output.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.outputWriter = func(text string) error {
			_, err := io.WriteString(w, text)
			return err
		}
	}
}

// WithLogger sets the logger used for evaluation tracing.
func WithLogger(l *logrus.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithDebug traces every dispatched operator and its result to stderr.
func WithDebug() Option {
	return func(r *Runtime) {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetLevel(logrus.DebugLevel)
		r.logger = l
	}
}

// WithPrelude sets a custom prelude source to be loaded on startup.
// If not set, DefaultPrelude is used.
func WithPrelude(source string) Option {
	return func(r *Runtime) {
		r.prelude = source
	}
}

// WithNoStdlib disables loading the standard library prelude.
func WithNoStdlib() Option {
	return func(r *Runtime) {
		r.noStdlib = true
	}
}

// WithMaxDepth sets the evaluation depth limit.
func WithMaxDepth(n int) Option {
	return func(r *Runtime) {
		r.maxDepth = n
	}
}

// WithContinueOnError keeps evaluating top-level forms after one fails.
// All failures are returned joined.
func WithContinueOnError() Option {
	return func(r *Runtime) {
		r.continueOnError = true
	}
}
