package eval

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/TGMM/ceceo-llvm/internal/expr"
	"github.com/TGMM/ceceo-llvm/internal/parser"
)

// Store is the interface for definition persistence. Definitions are
// stored as source text.
type Store interface {
	Get(name string) (source string, ok bool, err error)
	Put(name, source string) error
	Names() ([]string, error)
	Close() error
}

// OutputWriter writes output (for the display builtin).
type OutputWriter func(text string) error

// DefaultMaxDepth bounds nested evaluation.
const DefaultMaxDepth = 1_000_000

// Evaluator interprets ceceo syntax trees. An Evaluator is not safe for
// concurrent use; evaluators may share a Namespace instead.
type Evaluator struct {
	namespace       *Namespace
	store           Store
	outputWriter    OutputWriter
	log             *logrus.Logger
	maxDepth        int
	depth           int
	continueOnError bool
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithStore writes every definition through to s.
func WithStore(s Store) Option {
	return func(e *Evaluator) { e.store = s }
}

// WithOutputWriter sets the output writer.
func WithOutputWriter(w OutputWriter) Option {
	return func(e *Evaluator) { e.outputWriter = w }
}

// WithNamespace shares a definitions table.
func WithNamespace(ns *Namespace) Option {
	return func(e *Evaluator) { e.namespace = ns }
}

// WithLogger sets the logger. Dispatch tracing is emitted at debug level.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// WithMaxDepth sets the evaluation depth limit.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) { e.maxDepth = n }
}

// WithContinueOnError keeps evaluating top-level forms after a failure.
func WithContinueOnError(b bool) Option {
	return func(e *Evaluator) { e.continueOnError = b }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	e := &Evaluator{
		namespace: NewNamespace(),
		outputWriter: func(text string) error {
			_, err := fmt.Print(text)
			return err
		},
		log:      quiet,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval parses and evaluates a program, returning the value of the last
// top-level form.
func (e *Evaluator) Eval(input string) (Value, error) {
	return e.EvalReader(strings.NewReader(input))
}

// EvalReader parses and evaluates a program from a reader.
func (e *Evaluator) EvalReader(r io.Reader) (Value, error) {
	forms, err := parser.Parse(r)
	if err != nil {
		return Void, err
	}
	return e.EvalForms(forms)
}

// EvalForms evaluates top-level forms in order. By default it stops at the
// first error; with WithContinueOnError it evaluates every form and joins
// the errors.
func (e *Evaluator) EvalForms(forms []expr.Node) (Value, error) {
	result := Void
	var errs []error
	for _, form := range forms {
		v, err := e.Evaluate(form)
		if err != nil {
			if !e.continueOnError {
				return Void, err
			}
			e.log.WithError(err).Debug("form failed")
			errs = append(errs, err)
			continue
		}
		result = v
	}
	return result, errors.Join(errs...)
}

// Evaluate evaluates one node in the global scope.
func (e *Evaluator) Evaluate(n expr.Node) (Value, error) {
	return e.eval(n, nil)
}

func (e *Evaluator) enter() error {
	e.depth++
	if e.depth > e.maxDepth {
		return newError(RecursionLimit, "", "depth exceeds %d", e.maxDepth)
	}
	return nil
}

func (e *Evaluator) leave() { e.depth-- }

func (e *Evaluator) eval(n expr.Node, env *Env) (Value, error) {
	if err := e.enter(); err != nil {
		e.leave()
		return Void, err
	}
	defer e.leave()

	switch n.Kind {
	case expr.AtomNode:
		if n.Atom.Kind == expr.SymbolAtom {
			return e.lookup(n.Atom, env)
		}
		return AtomVal(n.Atom), nil
	case expr.QuoteAtomNode:
		return Value{Kind: QuoteAtomValue, Atom: n.Atom}, nil
	case expr.QuoteListNode:
		return Value{Kind: QuoteListValue, List: n.List}, nil
	}

	v, err := e.evalList(n, env)
	if err != nil {
		var ee *Error
		if errors.As(err, &ee) && ee.Line == 0 {
			ee.Line = n.Line
		}
	}
	return v, err
}

// lookup resolves a symbol: parameters first, then global definitions.
// Unbound symbols evaluate to themselves.
func (e *Evaluator) lookup(sym expr.Atom, env *Env) (Value, error) {
	if v, ok := env.Get(sym.Text); ok {
		return v, nil
	}
	if form, ok := e.namespace.Get(sym.Text); ok {
		return e.eval(form, nil)
	}
	return AtomVal(sym), nil
}

func (e *Evaluator) evalList(n expr.Node, env *Env) (Value, error) {
	if len(n.List) == 0 {
		return Void, newError(MissingProcedure, "", "empty call form ()")
	}

	head, args := n.List[0], n.List[1:]
	switch {
	case head.Kind == expr.AtomNode && head.Atom.Kind == expr.SymbolAtom:
		return e.call(head.Atom.Text, args, env)
	case head.Kind == expr.ListNode:
		v, err := e.eval(head, env)
		if err != nil {
			return Void, err
		}
		return e.applyValue(head.String(), v, args, env)
	}
	return Void, newError(InvalidProcedureExpression, "", "%s is not a procedure", head)
}

// applyValue calls a value in operator position: procedures are applied
// and symbols are dispatched by name.
func (e *Evaluator) applyValue(what string, v Value, args []expr.Node, env *Env) (Value, error) {
	switch {
	case v.Kind == ProcedureValue:
		return e.apply(what, v.Proc, args, env)
	case v.Kind == AtomValue && v.Atom.Kind == expr.SymbolAtom:
		return e.call(v.Atom.Text, args, env)
	}
	return Void, newError(InvalidProcedureExpression, "", "%s evaluated to %s, not a procedure", what, describe(v))
}

// call dispatches an operator name: numeric, string and generic builtins,
// then parameters, then global definitions.
func (e *Evaluator) call(name string, args []expr.Node, env *Env) (Value, error) {
	if err := e.enter(); err != nil {
		e.leave()
		return Void, err
	}
	defer e.leave()

	tracing := e.log.IsLevelEnabled(logrus.DebugLevel)
	if tracing {
		e.log.WithFields(logrus.Fields{"op": name, "args": len(args), "depth": e.depth, "frames": env.Depth()}).Debug("dispatch")
	}
	v, err := e.dispatch(name, args, env)
	if tracing && err == nil {
		e.log.WithFields(logrus.Fields{"op": name, "value": v.String()}).Debug("result")
	}
	return v, err
}

func (e *Evaluator) dispatch(name string, args []expr.Node, env *Env) (Value, error) {
	if p, ok := LookupNumeric(name); ok {
		return e.applyNumeric(p, args, env)
	}
	if p, ok := LookupString(name); ok {
		return e.applyString(p, args, env)
	}
	if p, ok := LookupGeneric(name); ok {
		return p.builtin()(e, args, env)
	}
	if v, ok := env.Get(name); ok {
		return e.applyValue(name, v, args, env)
	}
	if form, ok := e.namespace.Get(name); ok {
		v, err := e.eval(form, nil)
		if err != nil {
			return Void, err
		}
		return e.applyValue(name, v, args, env)
	}
	return Void, newError(UnknownProcedure, name, "not a builtin or definition")
}

// apply evaluates args in the caller's env, binds them in a frame under
// the procedure's own env and evaluates the body there.
func (e *Evaluator) apply(op string, p *Procedure, args []expr.Node, env *Env) (Value, error) {
	if len(args) != p.Arity() {
		return Void, arityError(op, fmt.Sprintf("%d arguments", p.Arity()), len(args))
	}

	frame := NewEnv(p.env)
	for i, arg := range args {
		v, err := e.eval(arg, env)
		if err != nil {
			return Void, err
		}
		frame.Define(p.Params[i], v)
	}

	if idx, ok := p.QuoteResult(); ok {
		if _, err := e.sequence(p.Body[:idx], frame); err != nil {
			return Void, err
		}
		list, err := p.fill(p.Body[idx].List, frame)
		if err != nil {
			return Void, err
		}
		return Value{Kind: QuoteListValue, List: list}, nil
	}
	return e.sequence(p.Body, frame)
}

// sequence evaluates forms in order and returns the last value, or void
// when there are none.
func (e *Evaluator) sequence(forms []expr.Node, env *Env) (Value, error) {
	result := Void
	for _, form := range forms {
		v, err := e.eval(form, env)
		if err != nil {
			return Void, err
		}
		result = v
	}
	return result, nil
}

// define binds name globally and writes it through to the store.
func (e *Evaluator) define(name string, form expr.Node) error {
	e.namespace.Set(name, form)
	e.log.WithField("name", name).Debug("define")
	if IsBuiltin(name) {
		e.log.WithField("name", name).Warn("definition is shadowed by a builtin")
	}
	if e.store != nil {
		if err := e.store.Put(name, form.String()); err != nil {
			return fmt.Errorf("persist %s: %w", name, err)
		}
	}
	return nil
}

// Format returns the display text of a value. A quoted list displays as
// the evaluation of its first element; an empty one displays as "".
func (e *Evaluator) Format(v Value) (string, error) {
	return e.format(v, nil)
}

func (e *Evaluator) format(v Value, env *Env) (string, error) {
	if v.Kind != QuoteListValue {
		return v.String(), nil
	}
	if len(v.List) == 0 {
		return "", nil
	}
	first, err := e.eval(v.List[0], env)
	if err != nil {
		return "", err
	}
	return e.format(first, env)
}

// Restore loads every stored definition into the namespace without
// writing it back. It returns the number of definitions loaded.
func (e *Evaluator) Restore() (int, error) {
	if e.store == nil {
		return 0, nil
	}
	names, err := e.store.Names()
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, name := range names {
		src, ok, err := e.store.Get(name)
		if err != nil {
			return loaded, err
		}
		if !ok {
			continue
		}
		forms, err := parser.ParseString(src)
		if err != nil {
			return loaded, fmt.Errorf("restore %s: %w", name, err)
		}
		if len(forms) != 1 {
			return loaded, fmt.Errorf("restore %s: expected one form, got %d", name, len(forms))
		}
		e.namespace.Set(name, forms[0])
		loaded++
	}
	e.log.WithField("count", loaded).Debug("restored definitions")
	return loaded, nil
}

// Definition returns the source of a global definition.
func (e *Evaluator) Definition(name string) (string, bool) {
	form, ok := e.namespace.Get(name)
	if !ok {
		return "", false
	}
	return form.String(), true
}

// Namespace returns the definitions table.
func (e *Evaluator) Namespace() *Namespace {
	return e.namespace
}

// Store returns the persistence store, if any.
func (e *Evaluator) Store() Store {
	return e.store
}

// SetOutputWriter changes the output writer for display.
func (e *Evaluator) SetOutputWriter(w OutputWriter) {
	e.outputWriter = w
}
