// Package token defines the lexical token vocabulary produced by the lexer
// and consumed by the parser.
package token

import "fmt"

// Kind classifies a Token.
type Kind int

const (
	IDENT Kind = iota
	PUNCT
	KEYWORD
	STRING
	NUM
	EOF
)

func (k Kind) String() string {
	switch k {
	case IDENT:
		return "IDENT"
	case PUNCT:
		return "PUNCT"
	case KEYWORD:
		return "KEYWORD"
	case STRING:
		return "STRING"
	case NUM:
		return "NUM"
	case EOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Keywords is the set of reserved identifier spellings. The lexer produces
// every identifier-shaped lexeme as an IDENT token first; a second sweep
// over the finished stream reclassifies the ones found here to KEYWORD,
// matching spec.md's two-pass lexer description.
var Keywords = map[string]bool{
	"return": true, "if": true, "else": true, "for": true, "while": true,
	"switch": true, "case": true, "default": true, "break": true,
	"continue": true, "goto": true, "void": true, "_Bool": true,
	"char": true, "short": true, "int": true, "long": true,
	"struct": true, "union": true, "enum": true, "typedef": true,
	"static": true, "sizeof": true,
}

// Punctuators is the fixed table of recognized punctuator lexemes, listed
// longest-first so the lexer's greedy scan matches multi-character operators
// before falling back to a single character.
var Punctuators = []string{
	"<<=", ">>=",
	"==", "!=", "<=", ">=", "<<", ">>", "&&", "||", "->", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"+", "-", "*", "/", "%", "=", "<", ">", "!",
	"&", "|", "^", "~",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", ":", "?",
}

// Token is a single lexeme located in the source file it was scanned from.
//
// Val holds the decoded value of a NUM token. Str holds the decoded,
// NUL-terminated bytes of a STRING token (spec.md §4.1). Text is the raw
// lexeme for identifiers, punctuators, keywords, and integer literals, and
// is what the parser compares identifiers, punctuators, and keywords
// against; for a STRING token it holds the decoded bytes, and for a
// character constant the decoded character.
type Token struct {
	Kind   Kind
	Text   string
	Val    int64
	Str    []byte
	File   string
	Line   int
	Column int
}

// Is reports whether the token is a PUNCT or KEYWORD token spelled s.
func (t Token) Is(s string) bool {
	return (t.Kind == PUNCT || t.Kind == KEYWORD) && t.Text == s
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s %q}", t.Kind, t.Text)
}
