package eval

import (
	"github.com/TGMM/ceceo-llvm/internal/expr"
)

// collectAtoms evaluates args left to right. Every result must be an atom
// with the same kind as the first; evaluation stops at the first failure.
func (e *Evaluator) collectAtoms(op string, args []expr.Node, env *Env) ([]expr.Atom, error) {
	atoms := make([]expr.Atom, 0, len(args))
	for i, arg := range args {
		v, err := e.eval(arg, env)
		if err != nil {
			return nil, err
		}
		if v.Kind != AtomValue {
			return nil, newError(TypeMismatch, op, "argument %d is a %s, not an atom", i+1, v.Kind)
		}
		if i > 0 && v.Atom.Kind != atoms[0].Kind {
			return nil, newError(HeterogeneousArguments, op, "argument %d is a %s, expected %s", i+1, v.Atom.Kind, atoms[0].Kind)
		}
		atoms = append(atoms, v.Atom)
	}
	return atoms, nil
}

// unwrap checks that the homogeneous atoms are of kind want and extracts
// their payloads.
func unwrap[T any](op string, atoms []expr.Atom, want expr.AtomKind, get func(expr.Atom) T) ([]T, error) {
	if len(atoms) > 0 && atoms[0].Kind != want {
		return nil, newError(TypeMismatch, op, "expected %s arguments, got %s", want, atoms[0].Kind)
	}
	out := make([]T, len(atoms))
	for i, a := range atoms {
		out[i] = get(a)
	}
	return out, nil
}

// fold reduces xs left to right: ((x0 f x1) f x2) ... xs must be non-empty.
func fold[T any](xs []T, f func(acc, x T) (T, error)) (T, error) {
	acc := xs[0]
	for _, x := range xs[1:] {
		var err error
		if acc, err = f(acc, x); err != nil {
			return acc, err
		}
	}
	return acc, nil
}

func atomNum(a expr.Atom) int32  { return a.Num }
func atomText(a expr.Atom) string { return a.Text }
