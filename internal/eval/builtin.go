package eval

import (
	"github.com/TGMM/ceceo-llvm/internal/expr"
)

// BuiltinFunc is the signature for generic builtins. Arguments arrive
// unevaluated so each form controls its own evaluation order.
type BuiltinFunc func(e *Evaluator, args []expr.Node, env *Env) (Value, error)

// builtin returns the implementation of a generic procedure.
func (p GenericProc) builtin() BuiltinFunc {
	switch p {
	case And:
		return builtinAnd
	case Or:
		return builtinOr
	case If:
		return builtinIf
	case Not:
		return builtinNot
	case Cond:
		return builtinCond
	case Positive:
		return builtinPositive
	case Zero:
		return builtinZero
	case Define:
		return builtinDefine
	case Display:
		return builtinDisplay
	case Lambda:
		return builtinLambda
	}
	return nil
}

// applyNumeric evaluates args as int32 atoms and reduces them.
func (e *Evaluator) applyNumeric(p NumericProc, args []expr.Node, env *Env) (Value, error) {
	op := p.String()
	switch p {
	case Subtract, Div:
		if len(args) == 0 {
			return Void, arityError(op, "at least 1 argument", 0)
		}
	case Modulo:
		if len(args) != 2 {
			return Void, arityError(op, "2 arguments", len(args))
		}
	}

	atoms, err := e.collectAtoms(op, args, env)
	if err != nil {
		return Void, err
	}
	nums, err := unwrap(op, atoms, expr.NumAtom, atomNum)
	if err != nil {
		return Void, err
	}

	switch p {
	case Sum:
		if len(nums) == 0 {
			return NumVal(0), nil
		}
	case Mult:
		if len(nums) == 0 {
			return NumVal(1), nil
		}
	case Subtract:
		if len(nums) == 1 {
			return NumVal(-nums[0]), nil
		}
	case Div:
		if len(nums) == 1 {
			nums = []int32{1, nums[0]}
		}
	}

	n, err := fold(nums, numericOp(p))
	if err != nil {
		return Void, err
	}
	return NumVal(n), nil
}

func numericOp(p NumericProc) func(a, b int32) (int32, error) {
	switch p {
	case Subtract:
		return func(a, b int32) (int32, error) { return a - b, nil }
	case Mult:
		return func(a, b int32) (int32, error) { return a * b, nil }
	case Div:
		return func(a, b int32) (int32, error) {
			if b == 0 {
				return 0, newError(DivisionByZero, "/", "%d / 0", a)
			}
			return a / b, nil
		}
	case Modulo:
		return func(a, b int32) (int32, error) {
			if b == 0 {
				return 0, newError(DivisionByZero, "modulo", "%d modulo 0", a)
			}
			return a % b, nil
		}
	default:
		return func(a, b int32) (int32, error) { return a + b, nil }
	}
}

// applyString handles string-append. A single argument yields the empty
// string and is not evaluated.
func (e *Evaluator) applyString(p StringProc, args []expr.Node, env *Env) (Value, error) {
	op := p.String()
	if len(args) <= 1 {
		return StrVal(""), nil
	}
	atoms, err := e.collectAtoms(op, args, env)
	if err != nil {
		return Void, err
	}
	strs, err := unwrap(op, atoms, expr.StrAtom, atomText)
	if err != nil {
		return Void, err
	}
	s, _ := fold(strs, func(acc, x string) (string, error) { return acc + x, nil })
	return StrVal(s), nil
}

// builtinAnd returns #f at the first false argument without evaluating the
// rest, otherwise the last value. (and) is #t.
func builtinAnd(e *Evaluator, args []expr.Node, env *Env) (Value, error) {
	result := BoolVal(true)
	for _, arg := range args {
		v, err := e.eval(arg, env)
		if err != nil {
			return Void, err
		}
		if v.IsFalse() {
			return BoolVal(false), nil
		}
		result = v
	}
	return result, nil
}

// builtinOr returns the first argument that is not #f. (or) is #f.
func builtinOr(e *Evaluator, args []expr.Node, env *Env) (Value, error) {
	for _, arg := range args {
		v, err := e.eval(arg, env)
		if err != nil {
			return Void, err
		}
		if !v.IsFalse() {
			return v, nil
		}
	}
	return BoolVal(false), nil
}

// builtinNot evaluates its argument, then tests it for #f.
func builtinNot(e *Evaluator, args []expr.Node, env *Env) (Value, error) {
	if len(args) != 1 {
		return Void, arityError("not", "1 argument", len(args))
	}
	v, err := e.eval(args[0], env)
	if err != nil {
		return Void, err
	}
	return BoolVal(v.IsFalse()), nil
}

// builtinIf evaluates only the branch selected by the test.
func builtinIf(e *Evaluator, args []expr.Node, env *Env) (Value, error) {
	if len(args) != 3 {
		return Void, arityError("if", "3 arguments", len(args))
	}
	test, err := e.eval(args[0], env)
	if err != nil {
		return Void, err
	}
	if test.IsFalse() {
		return e.eval(args[2], env)
	}
	return e.eval(args[1], env)
}

// builtinCond checks clause shapes first, then scans clauses in order.
func builtinCond(e *Evaluator, args []expr.Node, env *Env) (Value, error) {
	for i, clause := range args {
		if clause.Kind != expr.ListNode || len(clause.List) == 0 {
			return Void, newError(MalformedCond, "cond", "clause %d is not a non-empty list: %s", i+1, clause)
		}
		if clause.List[0].IsSymbol("else") && i != len(args)-1 {
			return Void, newError(MalformedCond, "cond", "else must be the last clause, found at %d of %d", i+1, len(args))
		}
	}

	for _, clause := range args {
		test, body := clause.List[0], clause.List[1:]
		if !test.IsSymbol("else") {
			v, err := e.eval(test, env)
			if err != nil {
				return Void, err
			}
			if v.IsFalse() {
				continue
			}
		}
		return e.sequence(body, env)
	}
	return Void, nil
}

func builtinPositive(e *Evaluator, args []expr.Node, env *Env) (Value, error) {
	n, err := e.numericArg("positive?", args, env)
	if err != nil {
		return Void, err
	}
	return BoolVal(n > 0), nil
}

func builtinZero(e *Evaluator, args []expr.Node, env *Env) (Value, error) {
	n, err := e.numericArg("zero?", args, env)
	if err != nil {
		return Void, err
	}
	return BoolVal(n == 0), nil
}

// numericArg evaluates the single argument of a numeric predicate.
func (e *Evaluator) numericArg(op string, args []expr.Node, env *Env) (int32, error) {
	if len(args) != 1 {
		return 0, arityError(op, "1 argument", len(args))
	}
	v, err := e.eval(args[0], env)
	if err != nil {
		return 0, err
	}
	if v.Kind != AtomValue || v.Atom.Kind != expr.NumAtom {
		return 0, newError(TypeMismatch, op, "expected a number, got %s", describe(v))
	}
	return v.Atom.Num, nil
}

// builtinDefine binds a name to an unevaluated form. The procedure
// shorthand (define (name params...) body...) binds a lambda form.
// Inside a procedure body the value is evaluated and bound in the
// current frame instead.
func builtinDefine(e *Evaluator, args []expr.Node, env *Env) (Value, error) {
	if len(args) == 0 {
		return Void, arityError("define", "a name and a form", 0)
	}

	target := args[0]
	switch {
	case target.Kind == expr.AtomNode && target.Atom.Kind == expr.SymbolAtom:
		if len(args) != 2 {
			return Void, arityError("define", "2 arguments", len(args))
		}
		if env != nil {
			v, err := e.eval(args[1], env)
			if err != nil {
				return Void, err
			}
			env.Define(target.Atom.Text, v)
			return Void, nil
		}
		return Void, e.define(target.Atom.Text, args[1])

	case target.Kind == expr.ListNode && len(target.List) > 0:
		name := target.List[0]
		if name.Kind != expr.AtomNode || name.Atom.Kind != expr.SymbolAtom {
			return Void, newError(TypeMismatch, "define", "procedure name must be a symbol, got %s", name)
		}
		form := lambdaForm(expr.ListOf(target.List[1:]...), args[1:])
		form.Line = target.Line
		p, err := newLambda(form.List[1:], env)
		if err != nil {
			return Void, err
		}
		if env != nil {
			// The closure captures env, so it can see itself.
			env.Define(name.Atom.Text, ProcVal(p))
			return Void, nil
		}
		return Void, e.define(name.Atom.Text, form)
	}
	return Void, newError(TypeMismatch, "define", "cannot define %s", target)
}

// lambdaForm builds (lambda params body...).
func lambdaForm(params expr.Node, body []expr.Node) expr.Node {
	items := make([]expr.Node, 0, len(body)+2)
	items = append(items, expr.SymbolNode(Lambda.String()), params)
	return expr.ListOf(append(items, body...)...)
}

// builtinDisplay writes the display text of its argument on its own line.
func builtinDisplay(e *Evaluator, args []expr.Node, env *Env) (Value, error) {
	if len(args) != 1 {
		return Void, arityError("display", "1 argument", len(args))
	}
	v, err := e.eval(args[0], env)
	if err != nil {
		return Void, err
	}
	text, err := e.format(v, env)
	if err != nil {
		return Void, err
	}
	if err := e.outputWriter(text + "\n"); err != nil {
		return Void, err
	}
	return Void, nil
}

// builtinLambda closes over the current environment.
func builtinLambda(e *Evaluator, args []expr.Node, env *Env) (Value, error) {
	p, err := newLambda(args, env)
	if err != nil {
		return Void, err
	}
	return ProcVal(p), nil
}

// newLambda builds a procedure from (params...) body...
func newLambda(args []expr.Node, env *Env) (*Procedure, error) {
	params, body, err := lambdaParts(args)
	if err != nil {
		return nil, err
	}
	return NewProcedure(params, body, env)
}

// lambdaParts splits (params...) body... into parameter names and body.
func lambdaParts(args []expr.Node) ([]string, []expr.Node, error) {
	if len(args) < 2 {
		return nil, nil, newError(MalformedLambda, "lambda", "expected a parameter list and a body")
	}
	if args[0].Kind != expr.ListNode {
		return nil, nil, newError(MalformedLambda, "lambda", "parameter list must be a list, got %s", args[0])
	}
	params := make([]string, len(args[0].List))
	for i, p := range args[0].List {
		if p.Kind != expr.AtomNode || p.Atom.Kind != expr.SymbolAtom {
			return nil, nil, newError(MalformedLambda, "lambda", "parameter %d is not a symbol: %s", i+1, p)
		}
		params[i] = p.Atom.Text
	}
	return params, args[1:], nil
}

// describe names a value for error messages.
func describe(v Value) string {
	if v.Kind == AtomValue {
		return v.Atom.Kind.String() + " " + v.Atom.Source()
	}
	return v.Kind.String()
}
