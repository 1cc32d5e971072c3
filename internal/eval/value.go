package eval

import (
	"fmt"

	"github.com/TGMM/ceceo-llvm/internal/expr"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	AtomValue ValueKind = iota
	QuoteAtomValue
	QuoteListValue
	ProcedureValue
	VoidValue
)

func (k ValueKind) String() string {
	switch k {
	case AtomValue:
		return "atom"
	case QuoteAtomValue:
		return "quoted atom"
	case QuoteListValue:
		return "quoted list"
	case ProcedureValue:
		return "procedure"
	case VoidValue:
		return "void"
	default:
		return "unknown"
	}
}

// Value is the result of evaluating a syntax node.
type Value struct {
	Kind ValueKind
	Atom expr.Atom   // AtomValue, QuoteAtomValue
	List []expr.Node // QuoteListValue
	Proc *Procedure  // ProcedureValue
}

// Void is returned by forms evaluated only for their effect. Its kind is
// distinct from every value a program can construct.
var Void = Value{Kind: VoidValue}

// AtomVal wraps an atom.
func AtomVal(a expr.Atom) Value { return Value{Kind: AtomValue, Atom: a} }

// NumVal is shorthand for AtomVal(expr.Num(n)).
func NumVal(n int32) Value { return AtomVal(expr.Num(n)) }

// StrVal is shorthand for AtomVal(expr.Str(s)).
func StrVal(s string) Value { return AtomVal(expr.Str(s)) }

// BoolVal is shorthand for AtomVal(expr.Bool(b)).
func BoolVal(b bool) Value { return AtomVal(expr.Bool(b)) }

// ProcVal wraps a user procedure.
func ProcVal(p *Procedure) Value { return Value{Kind: ProcedureValue, Proc: p} }

// IsFalse reports whether v is the boolean atom false. It is the only
// false value; everything else, including void, is true.
func (v Value) IsFalse() bool {
	return v.Kind == AtomValue && v.Atom.IsFalse()
}

// IsVoid reports whether v is the void sentinel.
func (v Value) IsVoid() bool {
	return v.Kind == VoidValue
}

// Equal reports structural equality. Procedures compare by structural hash.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case AtomValue, QuoteAtomValue:
		return v.Atom == o.Atom
	case QuoteListValue:
		return expr.EqualNodes(v.List, o.List)
	case ProcedureValue:
		return v.Proc.Hash() == o.Proc.Hash()
	default:
		return true
	}
}

// String renders the value without evaluating anything. Quoted lists print
// in reader syntax; Evaluator.Format applies the display rules.
func (v Value) String() string {
	switch v.Kind {
	case AtomValue, QuoteAtomValue:
		return v.Atom.String()
	case QuoteListValue:
		return expr.QuoteListOf(v.List...).String()
	case ProcedureValue:
		return v.Proc.String()
	case VoidValue:
		return "#<void>"
	default:
		return fmt.Sprintf("#<unknown %d>", v.Kind)
	}
}

// toNode renders a value back into syntax, used when a procedure returns
// a quoted template with its parameters filled in.
func (v Value) toNode() (expr.Node, error) {
	switch v.Kind {
	case AtomValue, QuoteAtomValue:
		return expr.AtomOf(v.Atom), nil
	case QuoteListValue:
		return expr.ListOf(v.List...), nil
	case ProcedureValue:
		return v.Proc.Source(), nil
	default:
		return expr.Node{}, newError(TypeMismatch, "", "%s cannot appear in quoted data", v.Kind)
	}
}
