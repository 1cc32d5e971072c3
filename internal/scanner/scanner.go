// Package scanner provides a streaming rune lexer for ceceo source.
package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/TGMM/ceceo-llvm/internal/token"
)

// ErrIncomplete is matched by errors caused by input ending inside a form
// or string.
var ErrIncomplete = errors.New("unexpected end of input")

// Error is a lexical or syntax error with its source position.
type Error struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Is matches ErrIncomplete for errors raised at end of input.
func (e *Error) Is(target error) bool {
	return e.Incomplete && target == ErrIncomplete
}

// Scanner tokenizes ceceo input rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	peeked *Item
	line   int // Current line number (1-based)
	col    int // Column of the last rune read (1-based)

	// Position before the last ReadRune, restored by unread.
	prevLine, prevCol int
}

// Item represents a scanned token with its value.
type Item struct {
	Token token.Token
	Value string
	Line  int // Line number where this token started
	Col   int
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		line:   1,
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Line returns the current line number (1-based).
func (s *Scanner) Line() int {
	return s.line
}

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() (*Item, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	item, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = item
	return item, nil
}

// Next returns the next token from the input.
func (s *Scanner) Next() (*Item, error) {
	if s.peeked != nil {
		item := s.peeked
		s.peeked = nil
		return item, nil
	}

	if err := s.skipSpaceAndComments(); err != nil {
		return nil, err
	}

	r, err := s.read()
	if err == io.EOF {
		return &Item{Token: token.EOF, Line: s.line, Col: s.col + 1}, nil
	}
	if err != nil {
		return nil, err
	}

	line, col := s.line, s.col
	switch {
	case token.IsOpen(r):
		return &Item{Token: token.LPAREN, Value: string(r), Line: line, Col: col}, nil
	case token.IsClose(r):
		return &Item{Token: token.RPAREN, Value: string(r), Line: line, Col: col}, nil
	case r == token.RuneQuote:
		return &Item{Token: token.QUOTE, Value: string(r), Line: line, Col: col}, nil
	case r == token.RuneString:
		return s.scanString(line, col)
	}

	s.unread()
	return s.scanBare(line, col)
}

// scanString reads up to the closing quote. Strings have no escapes.
func (s *Scanner) scanString(line, col int) (*Item, error) {
	s.buf.Reset()
	for {
		r, err := s.read()
		if err == io.EOF {
			return nil, &Error{Line: line, Col: col, Msg: "unterminated string", Incomplete: true}
		}
		if err != nil {
			return nil, err
		}
		if r == token.RuneString {
			return &Item{Token: token.STRING, Value: s.buf.String(), Line: line, Col: col}, nil
		}
		s.buf.WriteRune(r)
	}
}

// scanBare reads a run of non-delimiter runes and classifies it as a
// number, hash literal or symbol.
func (s *Scanner) scanBare(line, col int) (*Item, error) {
	s.buf.Reset()
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if unicode.IsSpace(r) || token.IsDelimiter(r) {
			s.unread()
			break
		}
		s.buf.WriteRune(r)
	}

	text := s.buf.String()
	switch {
	case isNumber(text):
		return &Item{Token: token.NUMBER, Value: text, Line: line, Col: col}, nil
	case text[0] >= '0' && text[0] <= '9':
		return nil, &Error{Line: line, Col: col, Msg: fmt.Sprintf("invalid number literal %q", text)}
	case text[0] == token.RuneHash:
		return &Item{Token: token.HASH, Value: text, Line: line, Col: col}, nil
	}
	return &Item{Token: token.SYMBOL, Value: text, Line: line, Col: col}, nil
}

// isNumber matches -?[0-9]+.
func isNumber(text string) bool {
	digits := strings.TrimPrefix(text, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// skipSpaceAndComments consumes whitespace and ; comments.
func (s *Scanner) skipSpaceAndComments() error {
	for {
		r, err := s.read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if r == token.RuneComment {
			for r != '\n' {
				if r, err = s.read(); err == io.EOF {
					return nil
				} else if err != nil {
					return err
				}
			}
			continue
		}
		if !unicode.IsSpace(r) {
			s.unread()
			return nil
		}
	}
}

func (s *Scanner) read() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	s.prevLine, s.prevCol = s.line, s.col
	if r == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	return r, nil
}

func (s *Scanner) unread() {
	s.reader.UnreadRune()
	s.line, s.col = s.prevLine, s.prevCol
}
