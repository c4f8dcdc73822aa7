// Statement parsing: blocks, if/else, for/while, return, goto/label,
// switch/case/default, break/continue, and expression statements, per
// spec.md §4.2.
package parser

import (
	"minicc/ast"
	"minicc/sem"
	"minicc/token"
)

// stmt dispatches on the current token to the matching statement
// production, falling back to an expression statement.
func (p *Parser) stmt() (*ast.Node, error) {
	tok := p.peek()

	switch {
	case tok.Is("{"):
		return p.compoundStmt()
	case tok.Is("if"):
		return p.ifStmt()
	case tok.Is("for"):
		return p.forStmt()
	case tok.Is("while"):
		return p.whileStmt()
	case tok.Is("return"):
		return p.returnStmt()
	case tok.Is("goto"):
		return p.gotoStmt()
	case tok.Is("break"):
		return p.breakStmt()
	case tok.Is("continue"):
		return p.continueStmt()
	case tok.Is("switch"):
		return p.switchStmt()
	case tok.Is("case"):
		return p.caseStmt()
	case tok.Is("default"):
		return p.defaultStmt()
	case tok.Kind == token.IDENT && p.peekAt(1).Is(":"):
		return p.labelStmt()
	}

	return p.exprStmt()
}

// compoundStmt parses a "{ ... }" block, pushing a fresh scope frame for
// the duration, per spec.md §3 ("block scoping").
func (p *Parser) compoundStmt() (*ast.Node, error) {
	tok := p.advance() // "{"
	p.scope.Push()
	defer p.scope.Pop()

	var body []*ast.Node
	for !p.is("}") {
		var s *ast.Node
		var err error
		if p.isTypeName() && !p.is("typedef") {
			s, err = p.declStmt()
		} else if p.is("typedef") {
			if err := p.typedefDecl(); err != nil {
				return nil, err
			}
			continue
		} else {
			s, err = p.stmt()
		}
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.ND_BLOCK, Body: body, Tok: tok}, nil
}

func (p *Parser) ifStmt() (*ast.Node, error) {
	tok := p.advance() // "if"
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := sem.AddType(cond); err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	then, err := p.stmt()
	if err != nil {
		return nil, err
	}
	n := &ast.Node{Kind: ast.ND_IF, Cond: cond, Then: then, Tok: tok}
	if p.consume("else") {
		els, err := p.stmt()
		if err != nil {
			return nil, err
		}
		n.Els = els
	}
	return n, nil
}

// forStmt parses "for (init; cond; inc) body", saving and restoring the
// innermost break/continue targets around the body, per spec.md §4.2.
func (p *Parser) forStmt() (*ast.Node, error) {
	tok := p.advance() // "for"
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	p.scope.Push()
	defer p.scope.Pop()

	n := &ast.Node{Kind: ast.ND_FOR, Tok: tok}

	if p.isTypeName() {
		initStmt, err := p.declStmt()
		if err != nil {
			return nil, err
		}
		n.Init = initStmt
	} else if !p.is(";") {
		initExpr, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := sem.AddType(initExpr); err != nil {
			return nil, err
		}
		n.Init = &ast.Node{Kind: ast.ND_EXPR_STMT, Lhs: initExpr, Tok: tok}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
	} else {
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
	}

	if !p.is(";") {
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := sem.AddType(cond); err != nil {
			return nil, err
		}
		n.Cond = cond
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}

	if !p.is(")") {
		inc, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := sem.AddType(inc); err != nil {
			return nil, err
		}
		n.Inc = inc
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	brk, cont := p.newUniqueLabel(), p.newUniqueLabel()
	savedBrk, savedCont := p.brkLabel, p.contLabel
	p.brkLabel, p.contLabel = brk, cont
	n.BrkLabel, n.ContLabel = brk, cont

	body, err := p.stmt()
	p.brkLabel, p.contLabel = savedBrk, savedCont
	if err != nil {
		return nil, err
	}
	n.Then = body
	return n, nil
}

// whileStmt desugars to a for-loop with no init/inc, per spec.md §4.2.
func (p *Parser) whileStmt() (*ast.Node, error) {
	tok := p.advance() // "while"
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := sem.AddType(cond); err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	n := &ast.Node{Kind: ast.ND_FOR, Cond: cond, Tok: tok}
	brk, cont := p.newUniqueLabel(), p.newUniqueLabel()
	savedBrk, savedCont := p.brkLabel, p.contLabel
	p.brkLabel, p.contLabel = brk, cont
	n.BrkLabel, n.ContLabel = brk, cont

	body, err := p.stmt()
	p.brkLabel, p.contLabel = savedBrk, savedCont
	if err != nil {
		return nil, err
	}
	n.Then = body
	return n, nil
}

func (p *Parser) returnStmt() (*ast.Node, error) {
	tok := p.advance() // "return"
	n := &ast.Node{Kind: ast.ND_RETURN, Tok: tok}
	if !p.is(";") {
		val, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := sem.AddType(val); err != nil {
			return nil, err
		}
		if p.curFn != nil {
			retTy := p.curFn.Ty.Return
			if val.Ty.Kind != retTy.Kind || val.Ty.Size != retTy.Size {
				val = ast.NewCast(val, retTy)
			}
		}
		n.Lhs = val
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return n, nil
}

// gotoStmt records a pending goto, matched by name against collected
// labels once the enclosing function body is fully parsed, per spec.md
// §4.2.
func (p *Parser) gotoStmt() (*ast.Node, error) {
	tok := p.advance() // "goto"
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	n := &ast.Node{Kind: ast.ND_GOTO, Label: nameTok.Text, Tok: tok}
	p.gotos = append(p.gotos, n)
	return n, nil
}

func (p *Parser) labelStmt() (*ast.Node, error) {
	nameTok := p.advance()
	p.advance() // ":"
	n := &ast.Node{Kind: ast.ND_LABEL, Label: nameTok.Text, UniqueLabel: p.newUniqueLabel(), Tok: nameTok}
	inner, err := p.stmt()
	if err != nil {
		return nil, err
	}
	n.Lhs = inner
	p.labels = append(p.labels, n)
	return n, nil
}

func (p *Parser) breakStmt() (*ast.Node, error) {
	tok := p.advance()
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	if p.brkLabel == "" {
		return nil, p.errorf(tok, "break statement not within a loop or switch")
	}
	return &ast.Node{Kind: ast.ND_GOTO, UniqueLabel: p.brkLabel, Tok: tok}, nil
}

func (p *Parser) continueStmt() (*ast.Node, error) {
	tok := p.advance()
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	if p.contLabel == "" {
		return nil, p.errorf(tok, "continue statement not within a loop")
	}
	return &ast.Node{Kind: ast.ND_GOTO, UniqueLabel: p.contLabel, Tok: tok}, nil
}

// switchStmt parses "switch (cond) body", collecting every case/default
// reached within body onto the switch node, per spec.md §4.2.
func (p *Parser) switchStmt() (*ast.Node, error) {
	tok := p.advance() // "switch"
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := sem.AddType(cond); err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	n := &ast.Node{Kind: ast.ND_SWITCH, Cond: cond, Tok: tok}
	brk := p.newUniqueLabel()
	savedBrk, savedSwitch := p.brkLabel, p.curSwitch
	p.brkLabel, p.curSwitch = brk, n
	n.BrkLabel = brk

	body, err := p.stmt()
	p.brkLabel, p.curSwitch = savedBrk, savedSwitch
	if err != nil {
		return nil, err
	}
	n.Then = body
	return n, nil
}

func (p *Parser) caseStmt() (*ast.Node, error) {
	tok := p.advance() // "case"
	if p.curSwitch == nil {
		return nil, p.errorf(tok, "case label not within a switch statement")
	}
	val, err := p.constExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	n := &ast.Node{Kind: ast.ND_CASE, CaseVal: val, UniqueLabel: p.newUniqueLabel(), Tok: tok}
	inner, err := p.stmt()
	if err != nil {
		return nil, err
	}
	n.Lhs = inner
	p.curSwitch.Cases = append(p.curSwitch.Cases, n)
	return n, nil
}

func (p *Parser) defaultStmt() (*ast.Node, error) {
	tok := p.advance() // "default"
	if p.curSwitch == nil {
		return nil, p.errorf(tok, "default label not within a switch statement")
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	n := &ast.Node{Kind: ast.ND_CASE, IsDefault: true, UniqueLabel: p.newUniqueLabel(), Tok: tok}
	inner, err := p.stmt()
	if err != nil {
		return nil, err
	}
	n.Lhs = inner
	p.curSwitch.DefaultCase = n
	p.curSwitch.Cases = append(p.curSwitch.Cases, n)
	return n, nil
}

func (p *Parser) exprStmt() (*ast.Node, error) {
	tok := p.peek()
	if p.consume(";") {
		return &ast.Node{Kind: ast.ND_BLOCK, Tok: tok}, nil
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := sem.AddType(e); err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.ND_EXPR_STMT, Lhs: e, Tok: tok}, nil
}
