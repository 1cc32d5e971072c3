package ceceo

import (
	"testing"
)

func TestPreludeLoaded(t *testing.T) {
	r, err := New(WithMemoryStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	tests := []struct {
		input    string
		expected string
	}{
		{"(square 9)", "81"},
		{"(cube 3)", "27"},
		{"(abs -4)", "4"},
		{"(abs 4)", "4"},
		{"(negative? -1)", "true"},
		{"(negative? 0)", "false"},
		{"(even? 10)", "true"},
		{"(odd? 10)", "false"},
		{"(max2 3 9)", "9"},
		{"(min2 3 9)", "3"},
		{"(fact 5)", "120"},
	}

	for _, tt := range tests {
		result, err := r.Eval(tt.input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.input, tt.expected, result)
		}
	}
}

func TestNoStdlibOption(t *testing.T) {
	r, err := New(WithMemoryStore(), WithNoStdlib())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	if len(r.Definitions()) != 0 {
		t.Errorf("expected no definitions, got %v", r.Definitions())
	}
	// Without the prelude, square is an unknown procedure.
	if _, err := r.Eval("(square 2)"); err == nil {
		t.Error("expected error for undefined square")
	}
}

func TestCustomPrelude(t *testing.T) {
	r, err := New(WithMemoryStore(), WithPrelude(`(define greeting "hello world")`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	result, err := r.Eval("greeting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "hello world" {
		t.Errorf("expected 'hello world', got %q", result)
	}
	if _, ok := r.Definition("square"); ok {
		t.Error("custom prelude should replace the default one")
	}
}

func TestBrokenPrelude(t *testing.T) {
	if _, err := New(WithPrelude("(define")); err == nil {
		t.Fatal("expected error for a prelude that does not parse")
	}
}

func TestPreludeNotPersisted(t *testing.T) {
	s := newCountingStore()
	r, err := New(WithStore(s))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	if s.puts != 0 {
		t.Errorf("prelude definitions were written to the store %d times", s.puts)
	}
	if _, err := r.Eval("(define x 1)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.puts != 1 {
		t.Errorf("expected 1 write, got %d", s.puts)
	}
}
