package eval

import (
	"fmt"
	"hash/fnv"

	"github.com/TGMM/ceceo-llvm/internal/expr"
)

// Procedure is a user-defined procedure: ordered parameter names, a body,
// and the environment it was created in. Procedures are immutable.
type Procedure struct {
	Params []string
	Body   []expr.Node

	quoteResult int // index of a trailing quoted-list body form, or -1
	env         *Env
	hash        uint64
}

// NewProcedure validates and builds a procedure. Parameter names must be
// distinct and the body non-empty.
func NewProcedure(params []string, body []expr.Node, env *Env) (*Procedure, error) {
	if len(body) == 0 {
		return nil, newError(MalformedLambda, "lambda", "empty body")
	}
	seen := make(map[string]bool, len(params))
	for _, name := range params {
		if seen[name] {
			return nil, newError(MalformedLambda, "lambda", "duplicate parameter %q", name)
		}
		seen[name] = true
	}

	p := &Procedure{
		Params:      params,
		Body:        body,
		quoteResult: -1,
		env:         env,
	}
	if last := len(body) - 1; body[last].Kind == expr.QuoteListNode {
		p.quoteResult = last
	}
	p.hash = structuralHash(params, body)
	return p, nil
}

// Arity returns the number of parameters.
func (p *Procedure) Arity() int { return len(p.Params) }

// QuoteResult returns the index of the body form whose quoted list is
// returned, with parameters filled in, instead of being evaluated.
func (p *Procedure) QuoteResult() (int, bool) {
	return p.quoteResult, p.quoteResult >= 0
}

// Hash is the structural identity of the procedure. Procedures with the
// same parameters and body hash equally, wherever they were defined.
func (p *Procedure) Hash() uint64 { return p.hash }

func (p *Procedure) String() string {
	return fmt.Sprintf("#<procedure:%016x>", p.hash)
}

// Source returns the procedure as a lambda form.
func (p *Procedure) Source() expr.Node {
	params := make([]expr.Node, len(p.Params))
	for i, name := range p.Params {
		params[i] = expr.SymbolNode(name)
	}
	return lambdaForm(expr.ListOf(params...), p.Body)
}

func structuralHash(params []string, body []expr.Node) uint64 {
	h := fnv.New64a()
	for _, name := range params {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, form := range body {
		h.Write([]byte(form.String()))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// fill copies a quoted template, replacing this procedure's parameter
// symbols with their bound values from frame.
func (p *Procedure) fill(nodes []expr.Node, frame *Env) ([]expr.Node, error) {
	out := make([]expr.Node, len(nodes))
	for i, n := range nodes {
		switch n.Kind {
		case expr.AtomNode:
			if n.Atom.Kind == expr.SymbolAtom {
				if v, ok := frame.vars[n.Atom.Text]; ok {
					node, err := v.toNode()
					if err != nil {
						return nil, err
					}
					node.Line = n.Line
					out[i] = node
					continue
				}
			}
		case expr.ListNode, expr.QuoteListNode:
			inner, err := p.fill(n.List, frame)
			if err != nil {
				return nil, err
			}
			n.List = inner
		}
		out[i] = n
	}
	return out, nil
}
