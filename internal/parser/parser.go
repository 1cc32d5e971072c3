// Package parser builds ceceo syntax trees from scanner tokens.
package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TGMM/ceceo-llvm/internal/expr"
	"github.com/TGMM/ceceo-llvm/internal/scanner"
	"github.com/TGMM/ceceo-llvm/internal/token"
)

// Error is a syntax error with its source position.
type Error = scanner.Error

// ErrIncomplete is matched when the input ends inside a form.
var ErrIncomplete = scanner.ErrIncomplete

// Parse reads every top-level form from r.
func Parse(r io.Reader) ([]expr.Node, error) {
	p := &parser{s: scanner.New(r)}
	var forms []expr.Node
	for {
		item, err := p.s.Peek()
		if err != nil {
			return nil, err
		}
		if item.Token == token.EOF {
			return forms, nil
		}
		node, err := p.form()
		if err != nil {
			return nil, err
		}
		forms = append(forms, node)
	}
}

// ParseString parses source text.
func ParseString(src string) ([]expr.Node, error) {
	return Parse(strings.NewReader(src))
}

type parser struct {
	s *scanner.Scanner
}

func (p *parser) form() (expr.Node, error) {
	item, err := p.s.Next()
	if err != nil {
		return expr.Node{}, err
	}

	switch item.Token {
	case token.EOF:
		return expr.Node{}, &Error{Line: item.Line, Col: item.Col, Msg: "expected a form", Incomplete: true}
	case token.RPAREN:
		return expr.Node{}, &Error{Line: item.Line, Col: item.Col, Msg: fmt.Sprintf("unexpected %q", item.Value)}
	case token.LPAREN:
		items, err := p.list()
		if err != nil {
			return expr.Node{}, err
		}
		return expr.Node{Kind: expr.ListNode, List: items, Line: item.Line}, nil
	case token.QUOTE:
		return p.quoted(item)
	}

	a, err := atom(item)
	if err != nil {
		return expr.Node{}, err
	}
	return expr.Node{Kind: expr.AtomNode, Atom: a, Line: item.Line}, nil
}

// list reads forms up to any closing delimiter.
func (p *parser) list() ([]expr.Node, error) {
	items := []expr.Node{}
	for {
		next, err := p.s.Peek()
		if err != nil {
			return nil, err
		}
		switch next.Token {
		case token.RPAREN:
			p.s.Next()
			return items, nil
		case token.EOF:
			return nil, &Error{Line: next.Line, Col: next.Col, Msg: "unclosed list", Incomplete: true}
		}
		node, err := p.form()
		if err != nil {
			return nil, err
		}
		items = append(items, node)
	}
}

// quoted reads the form after a quote mark.
func (p *parser) quoted(q *scanner.Item) (expr.Node, error) {
	item, err := p.s.Next()
	if err != nil {
		return expr.Node{}, err
	}
	switch item.Token {
	case token.EOF:
		return expr.Node{}, &Error{Line: q.Line, Col: q.Col, Msg: "quote without a form", Incomplete: true}
	case token.QUOTE:
		return expr.Node{}, &Error{Line: item.Line, Col: item.Col, Msg: "nested quote is not supported"}
	case token.RPAREN:
		return expr.Node{}, &Error{Line: item.Line, Col: item.Col, Msg: fmt.Sprintf("unexpected %q after quote", item.Value)}
	case token.LPAREN:
		items, err := p.list()
		if err != nil {
			return expr.Node{}, err
		}
		return expr.Node{Kind: expr.QuoteListNode, List: items, Line: q.Line}, nil
	}

	a, err := atom(item)
	if err != nil {
		return expr.Node{}, err
	}
	return expr.Node{Kind: expr.QuoteAtomNode, Atom: a, Line: q.Line}, nil
}

func atom(item *scanner.Item) (expr.Atom, error) {
	switch item.Token {
	case token.NUMBER:
		n, err := strconv.ParseInt(item.Value, 10, 32)
		if err != nil {
			return expr.Atom{}, &Error{Line: item.Line, Col: item.Col, Msg: fmt.Sprintf("number %s out of 32-bit range", item.Value)}
		}
		return expr.Num(int32(n)), nil
	case token.STRING:
		return expr.Str(item.Value), nil
	case token.HASH:
		switch item.Value {
		case "#t", "#true", "#T":
			return expr.Bool(true), nil
		case "#f", "#false", "#F":
			return expr.Bool(false), nil
		}
		return expr.Atom{}, &Error{Line: item.Line, Col: item.Col, Msg: fmt.Sprintf("unknown hash literal %q", item.Value)}
	}
	return expr.Symbol(item.Value), nil
}
