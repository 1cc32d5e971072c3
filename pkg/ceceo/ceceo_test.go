package ceceo

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/TGMM/ceceo-llvm/internal/eval"
	"github.com/TGMM/ceceo-llvm/internal/store"
)

type countingStore struct {
	*store.Memory
	puts int
}

func newCountingStore() *countingStore {
	return &countingStore{Memory: store.NewMemory()}
}

func (c *countingStore) Put(name, source string) error {
	c.puts++
	return c.Memory.Put(name, source)
}

func TestRuntimeEval(t *testing.T) {
	var out bytes.Buffer
	r, err := New(WithOutput(&out), WithNoStdlib())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	result, err := r.Eval(`(display "Hello") (+ 1 2)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "3" {
		t.Errorf("expected '3', got %q", result)
	}
	if out.String() != "Hello\n" {
		t.Errorf("expected output 'Hello\\n', got %q", out.String())
	}

	// Void results print nothing.
	result, err = r.Eval(`(display "again")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "" {
		t.Errorf("expected empty result for void, got %q", result)
	}
}

func TestRuntimeEvalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.scm")
	src := "(define (area w h) (* w h))\n(display (area 3 4))\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	var out bytes.Buffer
	r, err := New(WithOutput(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	if _, err := r.EvalFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "12\n" {
		t.Errorf("expected '12\\n', got %q", out.String())
	}

	if _, err := r.EvalFile(filepath.Join(t.TempDir(), "missing.scm")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestSQLitePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ceceo.db")

	r, err := New(WithSQLiteStore(dbPath), WithNoStdlib())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Eval(`(define (hyp2 a b) (+ (* a a) (* b b))) (define unit "cm")`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.Close()

	r2, err := New(WithSQLiteStore(dbPath), WithNoStdlib())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()

	result, err := r2.Eval(`(string-append "25" unit)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "25cm" {
		t.Errorf("expected '25cm', got %q", result)
	}
	result, err = r2.Eval("(hyp2 3 4)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "25" {
		t.Errorf("expected '25', got %q", result)
	}
	if got := r2.Definitions(); len(got) != 2 {
		t.Errorf("expected 2 definitions, got %v", got)
	}
}

func TestPersistedDefinitionsOverridePrelude(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "override.db")

	r, err := New(WithSQLiteStore(dbPath))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Eval("(define (square x) 0)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.Close()

	r2, err := New(WithSQLiteStore(dbPath))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()
	result, err := r2.Eval("(square 5)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "0" {
		t.Errorf("expected persisted square to win, got %q", result)
	}
}

func TestSQLiteStoreOpenFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be opened as a database file.
	if _, err := New(WithSQLiteStore(dir)); err == nil {
		t.Fatal("expected error opening a directory as a database")
	}
}

func TestContinueOnError(t *testing.T) {
	var out bytes.Buffer
	r, err := New(WithOutput(&out), WithContinueOnError(), WithNoStdlib())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	_, err = r.Eval("(display 1) (/ 1 0) (display 2)")
	if !errors.Is(err, eval.ErrDivisionByZero) {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
	if out.String() != "1\n2\n" {
		t.Errorf("expected both displays, got %q", out.String())
	}
}

func TestMaxDepth(t *testing.T) {
	r, err := New(WithMaxDepth(50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	if _, err := r.Eval("(fact 100)"); !errors.Is(err, eval.ErrRecursionLimit) {
		t.Errorf("expected RecursionLimit, got %v", err)
	}
	if result, err := r.Eval("(fact 3)"); err != nil || result != "6" {
		t.Errorf("expected 6, got %q (%v)", result, err)
	}
}

func TestVisualizeAndParse(t *testing.T) {
	r, err := New(WithNoStdlib())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	js, err := r.Visualize("(+ 1 x)", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[[{"type":"symbol","value":"+"},{"type":"number","value":1},{"type":"symbol","value":"x"}]]`
	if string(js) != want {
		t.Errorf("expected %s, got %s", want, js)
	}

	forms, err := r.Parse("(a) 'b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forms) != 2 || forms[1].String() != "'b" {
		t.Errorf("unexpected forms %v", forms)
	}
}

func TestSetOutputWriter(t *testing.T) {
	r, err := New(WithNoStdlib())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	var sb strings.Builder
	r.SetOutputWriter(func(text string) error {
		sb.WriteString(text)
		return nil
	})
	if _, err := r.Eval("(display 'captured)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.String() != "captured\n" {
		t.Errorf("expected 'captured\\n', got %q", sb.String())
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	r, err := New(WithLogger(logger), WithNoStdlib())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	if _, err := r.Eval("(modulo 7 4)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "op=modulo") {
		t.Errorf("expected dispatch trace, got %q", buf.String())
	}
}
