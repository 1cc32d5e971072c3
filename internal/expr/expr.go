// Package expr defines the ceceo syntax tree: atoms, lists and quoted forms.
package expr

import (
	"strconv"
	"strings"
)

// AtomKind tags the variant held by an Atom.
type AtomKind int

const (
	NumAtom AtomKind = iota
	SymbolAtom
	StrAtom
	BoolAtom
)

// String returns the lowercase name of the atom kind.
func (k AtomKind) String() string {
	switch k {
	case NumAtom:
		return "number"
	case SymbolAtom:
		return "symbol"
	case StrAtom:
		return "string"
	case BoolAtom:
		return "boolean"
	default:
		return "unknown"
	}
}

// Atom is an indivisible value. Atoms are comparable with ==.
type Atom struct {
	Kind AtomKind
	Num  int32
	Text string // Symbol name or string contents
	Bool bool
}

// Num returns a numeric atom.
func Num(n int32) Atom { return Atom{Kind: NumAtom, Num: n} }

// Symbol returns a symbol atom.
func Symbol(name string) Atom { return Atom{Kind: SymbolAtom, Text: name} }

// Str returns a string atom.
func Str(s string) Atom { return Atom{Kind: StrAtom, Text: s} }

// Bool returns a boolean atom.
func Bool(b bool) Atom { return Atom{Kind: BoolAtom, Bool: b} }

// IsSymbol reports whether a is the symbol name.
func (a Atom) IsSymbol(name string) bool {
	return a.Kind == SymbolAtom && a.Text == name
}

// IsFalse reports whether a is the boolean false.
func (a Atom) IsFalse() bool {
	return a.Kind == BoolAtom && !a.Bool
}

// String returns the display text of the atom: decimal numbers, raw
// symbols and strings, and true/false for booleans.
func (a Atom) String() string {
	switch a.Kind {
	case NumAtom:
		return strconv.FormatInt(int64(a.Num), 10)
	case BoolAtom:
		if a.Bool {
			return "true"
		}
		return "false"
	default:
		return a.Text
	}
}

// Source returns the atom in reader syntax.
func (a Atom) Source() string {
	switch a.Kind {
	case StrAtom:
		return `"` + a.Text + `"`
	case BoolAtom:
		if a.Bool {
			return "#t"
		}
		return "#f"
	default:
		return a.String()
	}
}

// NodeKind tags the variant held by a Node.
type NodeKind int

const (
	AtomNode NodeKind = iota
	ListNode
	QuoteAtomNode
	QuoteListNode
)

// Node is a parsed, unevaluated S-expression element.
type Node struct {
	Kind NodeKind
	Atom Atom   // AtomNode, QuoteAtomNode
	List []Node // ListNode, QuoteListNode
	Line int    // Source line, 0 when synthesized
}

// AtomOf wraps an atom as a node.
func AtomOf(a Atom) Node { return Node{Kind: AtomNode, Atom: a} }

// ListOf builds a list node.
func ListOf(items ...Node) Node { return Node{Kind: ListNode, List: items} }

// QuoteAtomOf builds a quoted atom node.
func QuoteAtomOf(a Atom) Node { return Node{Kind: QuoteAtomNode, Atom: a} }

// QuoteListOf builds a quoted list node.
func QuoteListOf(items ...Node) Node { return Node{Kind: QuoteListNode, List: items} }

// SymbolNode is shorthand for AtomOf(Symbol(name)).
func SymbolNode(name string) Node { return AtomOf(Symbol(name)) }

// IsSymbol reports whether n is the bare symbol name.
func (n Node) IsSymbol(name string) bool {
	return n.Kind == AtomNode && n.Atom.IsSymbol(name)
}

// Equal reports structural equality, ignoring source positions.
func (n Node) Equal(o Node) bool {
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case AtomNode, QuoteAtomNode:
		return n.Atom == o.Atom
	default:
		return EqualNodes(n.List, o.List)
	}
}

// EqualNodes compares two node sequences structurally.
func EqualNodes(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// String returns the node in reader syntax. Parsing the result yields a
// structurally equal node.
func (n Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n Node) write(sb *strings.Builder) {
	switch n.Kind {
	case AtomNode:
		sb.WriteString(n.Atom.Source())
	case QuoteAtomNode:
		sb.WriteByte('\'')
		sb.WriteString(n.Atom.Source())
	case ListNode:
		writeList(sb, n.List)
	case QuoteListNode:
		sb.WriteByte('\'')
		writeList(sb, n.List)
	}
}

func writeList(sb *strings.Builder, items []Node) {
	sb.WriteByte('(')
	for i, item := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		item.write(sb)
	}
	sb.WriteByte(')')
}

// Join renders a sequence of nodes separated by spaces.
func Join(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}
