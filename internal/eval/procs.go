package eval

// NumericProc enumerates the integer arithmetic builtins.
type NumericProc int

const (
	Sum NumericProc = iota
	Subtract
	Mult
	Div
	Modulo
)

var numericTokens = [...]string{
	Sum:      "+",
	Subtract: "-",
	Mult:     "*",
	Div:      "/",
	Modulo:   "modulo",
}

var numericByName = invert(numericTokens[:], func(i int) NumericProc { return NumericProc(i) })

// LookupNumeric maps an operator token to its numeric procedure.
func LookupNumeric(name string) (NumericProc, bool) {
	p, ok := numericByName[name]
	return p, ok
}

func (p NumericProc) String() string { return numericTokens[p] }

// StringProc enumerates the string builtins.
type StringProc int

const (
	Append StringProc = iota
)

var stringTokens = [...]string{
	Append: "string-append",
}

var stringByName = invert(stringTokens[:], func(i int) StringProc { return StringProc(i) })

// LookupString maps an operator token to its string procedure.
func LookupString(name string) (StringProc, bool) {
	p, ok := stringByName[name]
	return p, ok
}

func (p StringProc) String() string { return stringTokens[p] }

// GenericProc enumerates control-flow forms, predicates and effects.
// Their arguments are passed unevaluated.
type GenericProc int

const (
	And GenericProc = iota
	Or
	If
	Not
	Cond
	Positive
	Zero
	Define
	Display
	Lambda
)

var genericTokens = [...]string{
	And:      "and",
	Or:       "or",
	If:       "if",
	Not:      "not",
	Cond:     "cond",
	Positive: "positive?",
	Zero:     "zero?",
	Define:   "define",
	Display:  "display",
	Lambda:   "lambda",
}

var genericByName = invert(genericTokens[:], func(i int) GenericProc { return GenericProc(i) })

// LookupGeneric maps an operator token to its generic procedure.
func LookupGeneric(name string) (GenericProc, bool) {
	p, ok := genericByName[name]
	return p, ok
}

func (p GenericProc) String() string { return genericTokens[p] }

// IsBuiltin reports whether name belongs to any catalogue.
func IsBuiltin(name string) bool {
	if _, ok := numericByName[name]; ok {
		return true
	}
	if _, ok := stringByName[name]; ok {
		return true
	}
	_, ok := genericByName[name]
	return ok
}

// Builtins returns every catalogue token in dispatch order.
func Builtins() []string {
	names := make([]string, 0, len(numericTokens)+len(stringTokens)+len(genericTokens))
	names = append(names, numericTokens[:]...)
	names = append(names, stringTokens[:]...)
	return append(names, genericTokens[:]...)
}

func invert[T any](tokens []string, variant func(int) T) map[string]T {
	m := make(map[string]T, len(tokens))
	for i, tok := range tokens {
		m[tok] = variant(i)
	}
	return m
}
