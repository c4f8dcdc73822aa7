// Top-level parsing: typedefs, global variables, and function prototypes
// vs. definitions, per spec.md §4.2. Function-vs-variable discrimination
// is decided by a single declarator() call rather than spec.md's literal
// "trial parse against a throwaway type" description: declarator() already
// resolves the full type (including a trailing FUNC suffix) in one pass,
// so a second speculative parse would be redundant work, consistent with
// chibicc's own is_function() being a best-effort lookahead rather than a
// true backtracking parse.
package parser

import (
	"minicc/ast"
	"minicc/ctype"
	"minicc/token"
)

// topLevel parses one top-level declaration: a typedef, or one or more
// comma-separated global variables/function declarations sharing a
// declspec.
func (p *Parser) topLevel() error {
	if p.is("typedef") {
		return p.typedefDecl()
	}

	baseTy, _, isStatic, err := p.declspec()
	if err != nil {
		return err
	}

	first := true
	for {
		if p.consume(";") {
			return nil
		}
		if !first {
			if _, err := p.expect(","); err != nil {
				return err
			}
		}
		first = false

		ty, nameTok, err := p.declarator(baseTy)
		if err != nil {
			return err
		}

		if ty.Kind == ctype.FUNC {
			return p.function(ty, nameTok, isStatic)
		}

		if err := p.globalVar(ty, nameTok); err != nil {
			return err
		}
	}
}

// typedefDecl parses "typedef declspec declarator (, declarator)* ;",
// binding each resulting name to its type in the current scope.
func (p *Parser) typedefDecl() error {
	baseTy, _, _, err := p.declspec()
	if err != nil {
		return err
	}
	first := true
	for !p.consume(";") {
		if !first {
			if _, err := p.expect(","); err != nil {
				return err
			}
		}
		first = false
		ty, nameTok, err := p.declarator(baseTy)
		if err != nil {
			return err
		}
		p.scope.DeclareVar(nameTok.Text, &ast.VarScope{Name: nameTok.Text, Typedef: ty})
	}
	return nil
}

// function parses a function prototype (ty.Kind == FUNC, followed by
// ";") or a definition (followed by "{"), registering it as a global
// ast.Obj either way so later call sites can resolve against its
// signature regardless of declaration order within the translation unit.
func (p *Parser) function(ty *ctype.Type, nameTok token.Token, isStatic bool) error {
	obj := &ast.Obj{Name: nameTok.Text, Ty: ty, IsFunction: true, IsStatic: isStatic}
	p.scope.DeclareVar(nameTok.Text, &ast.VarScope{Name: nameTok.Text, Var: obj})
	p.globals = append(p.globals, obj)

	if p.consume(";") {
		return nil
	}

	p.curFn = obj
	p.curLocals = nil
	p.gotos = nil
	p.labels = nil

	p.scope.Push()
	defer p.scope.Pop()

	for _, paramTy := range ty.Params {
		name := ""
		if paramTy.Name != nil {
			name = paramTy.Name.Text
		}
		param := &ast.Obj{Name: name, Ty: paramTy, IsLocal: true}
		p.curLocals = append(p.curLocals, param)
		obj.Params = append(obj.Params, param)
		if name != "" {
			p.scope.DeclareVar(name, &ast.VarScope{Name: name, Var: param})
		}
	}

	if !p.is("{") {
		return p.errorf(p.peek(), "expected a function body")
	}
	body, err := p.compoundStmt()
	if err != nil {
		return err
	}

	if err := p.resolveGotos(); err != nil {
		return err
	}

	obj.Body = body.Body
	obj.Locals = p.curLocals
	obj.IsDefinition = true

	p.curFn = nil
	p.curLocals = nil
	return nil
}

// resolveGotos matches every pending goto against the function's
// collected labels by name, per spec.md §4.2 ("an undefined label is a
// fatal error").
func (p *Parser) resolveGotos() error {
	for _, g := range p.gotos {
		var target *ast.Node
		for _, l := range p.labels {
			if l.Label == g.Label {
				target = l
				break
			}
		}
		if target == nil {
			return p.errorf(g.Tok, "use of undeclared label %q", g.Label)
		}
		g.UniqueLabel = target.UniqueLabel
	}
	return nil
}

// globalVar parses one global variable's optional initializer and
// registers the resulting ast.Obj, per spec.md §4.2 and §3's global
// initializer-folding invariant.
func (p *Parser) globalVar(ty *ctype.Type, nameTok token.Token) error {
	obj := &ast.Obj{Name: nameTok.Text, Ty: ty, IsDefinition: true}

	if p.consume("=") {
		data, err := p.globalInitializer(ty)
		if err != nil {
			return err
		}
		obj.InitData = data
		obj.HasInit = true
	}

	p.scope.DeclareVar(nameTok.Text, &ast.VarScope{Name: nameTok.Text, Var: obj})
	p.globals = append(p.globals, obj)
	return nil
}
