package eval

import "fmt"

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	MissingProcedure ErrorKind = iota + 1
	InvalidProcedureExpression
	UnknownProcedure
	ArityMismatch
	TypeMismatch
	HeterogeneousArguments
	MalformedCond
	DivisionByZero
	MalformedLambda
	RecursionLimit
)

func (k ErrorKind) String() string {
	switch k {
	case MissingProcedure:
		return "missing procedure"
	case InvalidProcedureExpression:
		return "invalid procedure expression"
	case UnknownProcedure:
		return "unknown procedure"
	case ArityMismatch:
		return "arity mismatch"
	case TypeMismatch:
		return "type mismatch"
	case HeterogeneousArguments:
		return "heterogeneous arguments"
	case MalformedCond:
		return "malformed cond"
	case DivisionByZero:
		return "division by zero"
	case MalformedLambda:
		return "malformed lambda"
	case RecursionLimit:
		return "recursion limit exceeded"
	default:
		return "unknown error"
	}
}

// Error is an evaluation failure. Op names the procedure being applied
// when known, Line the source line of the offending form.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Line int
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// Is matches any *Error of the same kind, so the Err* sentinels work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrMissingProcedure           = &Error{Kind: MissingProcedure}
	ErrInvalidProcedureExpression = &Error{Kind: InvalidProcedureExpression}
	ErrUnknownProcedure           = &Error{Kind: UnknownProcedure}
	ErrArityMismatch              = &Error{Kind: ArityMismatch}
	ErrTypeMismatch               = &Error{Kind: TypeMismatch}
	ErrHeterogeneousArguments     = &Error{Kind: HeterogeneousArguments}
	ErrMalformedCond              = &Error{Kind: MalformedCond}
	ErrDivisionByZero             = &Error{Kind: DivisionByZero}
	ErrMalformedLambda            = &Error{Kind: MalformedLambda}
	ErrRecursionLimit             = &Error{Kind: RecursionLimit}
)

func newError(kind ErrorKind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func arityError(op string, want string, got int) *Error {
	return newError(ArityMismatch, op, "expected %s, got %d", want, got)
}
