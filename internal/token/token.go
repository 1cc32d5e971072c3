// Package token defines ceceo token types and delimiter runes.
package token

// Token represents a ceceo token type.
type Token int

const (
	EOF Token = iota
	LPAREN
	RPAREN
	QUOTE
	NUMBER
	STRING
	SYMBOL
	HASH // #t, #false, ...
)

// Delimiter runes.
const (
	RuneQuote   = '\''
	RuneString  = '"'
	RuneComment = ';'
	RuneHash    = '#'
)

// IsOpen returns true if the rune opens a form. ( [ and { are interchangeable.
func IsOpen(r rune) bool {
	return r == '(' || r == '[' || r == '{'
}

// IsClose returns true if the rune closes a form. ) ] and } are interchangeable.
func IsClose(r rune) bool {
	return r == ')' || r == ']' || r == '}'
}

// IsDelimiter returns true if the rune ends a bare token.
func IsDelimiter(r rune) bool {
	return IsOpen(r) || IsClose(r) || r == RuneQuote || r == RuneString || r == RuneComment
}

// String returns the token name.
func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case QUOTE:
		return "QUOTE"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case SYMBOL:
		return "SYMBOL"
	case HASH:
		return "HASH"
	default:
		return "UNKNOWN"
	}
}
