// Package parser implements a top-down recursive-descent parser, per
// spec.md §4.2. It consumes the lexer's token stream and produces a list
// of top-level ast.Obj declarations (objects, functions, typedefs) plus a
// per-function ast.Node tree, invoking sem.AddType as it goes.
//
// Grounded on parser/parser.go's token-cursor shape (peek/previous/advance
// over a token slice) and parser/expressions.go's precedence-ladder style,
// generalized from Nilan's half-dozen operators to the full C grammar and
// from a single Environment namespace to the two-namespace ast.Scope.
package parser

import (
	"fmt"
	"minicc/ast"
	"minicc/cerr"
	"minicc/ctype"
	"minicc/token"
)

// Parser holds all mutable parsing state in one explicit context value,
// per spec.md §9 ("fold mutable module-level state into an explicit
// parser context value threaded through the descent").
type Parser struct {
	toks   []token.Token
	pos    int
	file   string
	source string

	scope *ast.Scope

	globals []*ast.Obj

	curFn     *ast.Obj
	curLocals []*ast.Obj

	labelCount int

	// pending gotos and defined labels within the current function,
	// matched by name once the body is fully parsed, per spec.md §4.2.
	gotos  []*ast.Node
	labels []*ast.Node

	brkLabel  string
	contLabel string

	// the innermost enclosing switch's collected cases, or nil outside
	// a switch.
	curSwitch *ast.Node

	stringCount int
}

// New constructs a Parser over a finished token stream.
func New(file, source string, toks []token.Token) *Parser {
	return &Parser{toks: toks, file: file, source: source, scope: ast.New()}
}

// Parse runs the parser to completion and returns the program's top-level
// objects (spec.md's "a list of top-level declarations").
func (p *Parser) Parse() ([]*ast.Obj, error) {
	for !p.atEOF() {
		if err := p.topLevel(); err != nil {
			return nil, err
		}
	}
	return p.globals, nil
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) error {
	return cerr.New(p.file, tok.Line, tok.Column, p.source, format, args...)
}

func (p *Parser) unreachable() {
	cerr.Unreachable("parser", 0)
}

// --- token cursor -----------------------------------------------------

func (p *Parser) peek() token.Token  { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}
func (p *Parser) atEOF() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if !p.atEOF() {
		p.pos++
	}
	return tok
}

// is reports whether the current token is a PUNCT or KEYWORD spelled s.
func (p *Parser) is(s string) bool { return p.peek().Is(s) }

// consume advances and returns true if the current token is spelled s.
func (p *Parser) consume(s string) bool {
	if p.is(s) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token spelled s or raises a fatal syntax error,
// mirroring the teacher's skip()-style "expected token" diagnostics
// (spec.md §7's "Syntactic: expected-token mismatches from skip").
func (p *Parser) expect(s string) (token.Token, error) {
	if !p.is(s) {
		return token.Token{}, p.errorf(p.peek(), "expected %q, got %q", s, p.peek().Text)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent() (token.Token, error) {
	if p.peek().Kind != token.IDENT {
		return token.Token{}, p.errorf(p.peek(), "expected an identifier, got %q", p.peek().Text)
	}
	return p.advance(), nil
}

// newUniqueLabel returns a fresh ".L.pgoto.<n>"-shaped internal label name used
// for goto targets / break-continue / switch-case dispatch, independent
// from codegen's own internal label counter.
func (p *Parser) newUniqueLabel() string {
	p.labelCount++
	return fmt.Sprintf(".L.pgoto.%d", p.labelCount)
}

// --- type-name peeking --------------------------------------------------

// isTypeName reports whether the current token begins a declaration
// specifier: a builtin type keyword, "typedef"/"static", or an identifier
// bound to a typedef in scope.
func (p *Parser) isTypeName() bool {
	tok := p.peek()
	if tok.Kind == token.KEYWORD {
		switch tok.Text {
		case "void", "_Bool", "char", "short", "int", "long",
			"struct", "union", "enum", "typedef", "static":
			return true
		}
		return false
	}
	if tok.Kind == token.IDENT {
		vs := p.scope.FindVar(tok.Text)
		return vs != nil && vs.Typedef != nil
	}
	return false
}

// resolveTypedef returns the aliased type if name is bound to a typedef
// in the current scope, else nil.
func (p *Parser) resolveTypedef(name string) *ctype.Type {
	vs := p.scope.FindVar(name)
	if vs != nil {
		return vs.Typedef
	}
	return nil
}

// --- implicit object creation -------------------------------------------

// newLocalVar allocates an anonymous compiler-generated local of type ty
// (used for the compound-assignment and ++/-- desugaring's address-caching
// temporary, per spec.md §4.2) and appends it to the current function's
// locals. It is never registered in the name scope: nothing ever looks it
// up by name, only through the *ast.Obj reference embedded in the node
// that created it.
func (p *Parser) newLocalVar(name string, ty *ctype.Type) *ast.Obj {
	if name == "" {
		p.stringCount++
		name = fmt.Sprintf(".L.tmp.%d", p.stringCount)
	}
	obj := &ast.Obj{Name: name, Ty: ty, IsLocal: true}
	p.curLocals = append(p.curLocals, obj)
	return obj
}

// newStringLiteral registers a string literal as an anonymous static
// global with its decoded, NUL-terminated bytes as its initializer, per
// spec.md §4.2 ("string literals become anonymous static char arrays").
func (p *Parser) newStringLiteral(data []byte) *ast.Obj {
	p.stringCount++
	name := fmt.Sprintf(".L..%d", p.stringCount)
	ty := ctype.ArrayOf(ctype.Char, len(data))
	obj := &ast.Obj{Name: name, Ty: ty, IsStatic: true, InitData: data, HasInit: true, IsDefinition: true}
	p.globals = append(p.globals, obj)
	return obj
}
