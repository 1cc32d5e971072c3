// Package visualize serializes a parsed ceceo forest to JSON for external
// tree viewers.
package visualize

import (
	"encoding/json"

	"github.com/TGMM/ceceo-llvm/internal/expr"
)

type atomInfo struct {
	Type   string `json:"type"`
	Value  any    `json:"value"`
	Quoted bool   `json:"quoted,omitempty"`
}

type quoteInfo struct {
	Type  string `json:"type"`
	Value []any  `json:"value"`
}

// Forest renders the top-level forms as a JSON array.
func Forest(forms []expr.Node) ([]byte, error) {
	return json.Marshal(info(forms))
}

// Indent renders the forest with two-space indentation.
func Indent(forms []expr.Node) ([]byte, error) {
	return json.MarshalIndent(info(forms), "", "  ")
}

func info(nodes []expr.Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = nodeInfo(n)
	}
	return out
}

func nodeInfo(n expr.Node) any {
	switch n.Kind {
	case expr.ListNode:
		return info(n.List)
	case expr.QuoteListNode:
		return quoteInfo{Type: "quote", Value: info(n.List)}
	case expr.QuoteAtomNode:
		a := atomJSON(n.Atom)
		a.Quoted = true
		return a
	default:
		return atomJSON(n.Atom)
	}
}

// atomJSON tags an atom by kind; booleans use their own text as the type.
func atomJSON(a expr.Atom) atomInfo {
	switch a.Kind {
	case expr.NumAtom:
		return atomInfo{Type: "number", Value: a.Num}
	case expr.StrAtom:
		return atomInfo{Type: "string", Value: a.Text}
	case expr.BoolAtom:
		return atomInfo{Type: a.String(), Value: a.Bool}
	default:
		return atomInfo{Type: "symbol", Value: a.Text}
	}
}
