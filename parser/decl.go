// Declaration parsing: declspec, declarator/abstract-declarator, struct/
// union/enum declarations, and the function-vs-variable discrimination at
// global scope, per spec.md §4.2.
package parser

import (
	"minicc/ast"
	"minicc/ctype"
	"minicc/sem"
	"minicc/token"
)

// Specifier bits accumulated by declspec as it folds any ordering of type
// specifiers, per spec.md §4.2.
const (
	specVoid  = 1 << 0
	specBool  = 1 << 2
	specChar  = 1 << 4
	specShort = 1 << 6
	specInt   = 1 << 8
	specLong  = 1 << 10
	specOther = 1 << 12
)

// declspec folds declaration specifiers (builtin keywords, typedef names,
// tagged struct/union/enum references, "typedef"/"static") into a type
// plus the typedef/static flags, per spec.md §4.2.
func (p *Parser) declspec() (*ctype.Type, bool, bool, error) {
	counter := 0
	isTypedef, isStatic := false, false
	ty := ctype.Int

	for p.isTypeName() {
		tok := p.peek()

		if tok.Is("typedef") {
			isTypedef = true
			p.advance()
			continue
		}
		if tok.Is("static") {
			isStatic = true
			p.advance()
			continue
		}

		if tok.Is("struct") || tok.Is("union") {
			t, err := p.structUnionDecl(tok.Is("union"))
			if err != nil {
				return nil, false, false, err
			}
			ty = t
			counter += specOther
			continue
		}
		if tok.Is("enum") {
			t, err := p.enumDecl()
			if err != nil {
				return nil, false, false, err
			}
			ty = t
			counter += specOther
			continue
		}
		if tok.Kind == token.IDENT {
			ty = p.resolveTypedef(tok.Text)
			counter += specOther
			p.advance()
			continue
		}

		switch tok.Text {
		case "void":
			counter += specVoid
		case "_Bool":
			counter += specBool
		case "char":
			counter += specChar
		case "short":
			counter += specShort
		case "int":
			counter += specInt
		case "long":
			counter += specLong
		}
		p.advance()

		switch counter {
		case specVoid:
			ty = ctype.Void
		case specBool:
			ty = ctype.Bool
		case specChar:
			ty = ctype.Char
		case specShort, specShort + specInt:
			ty = ctype.Short
		case specInt:
			ty = ctype.Int
		case specLong, specLong + specInt, specLong + specLong, specLong + specLong + specInt:
			ty = ctype.Long
		default:
			return nil, false, false, p.errorf(tok, "invalid type specifier combination")
		}
	}

	return ty, isTypedef, isStatic, nil
}

// declStmt parses a local declaration: a shared declspec followed by one
// or more comma-separated declarators, each with an optional initializer,
// lowered to a block of element-wise assignment statements, per spec.md
// §4.2. Local "static" is rejected; see SPEC_FULL.md's Open Question
// decision recorded in DESIGN.md.
func (p *Parser) declStmt() (*ast.Node, error) {
	tok := p.peek()
	baseTy, isTypedef, isStatic, err := p.declspec()
	if err != nil {
		return nil, err
	}
	if isTypedef {
		return nil, p.errorf(tok, "typedef not allowed in this context")
	}
	if isStatic {
		return nil, p.errorf(tok, "static local variables are not supported")
	}

	var body []*ast.Node
	first := true
	for !p.consume(";") {
		if !first {
			if _, err := p.expect(","); err != nil {
				return nil, err
			}
		}
		first = false

		ty, nameTok, err := p.declarator(baseTy)
		if err != nil {
			return nil, err
		}
		if ty.Kind == ctype.VOID {
			return nil, p.errorf(nameTok, "variable declared void")
		}

		obj := &ast.Obj{Name: nameTok.Text, Ty: ty, IsLocal: true}
		p.curLocals = append(p.curLocals, obj)
		p.scope.DeclareVar(nameTok.Text, &ast.VarScope{Name: nameTok.Text, Var: obj})

		if p.consume("=") {
			target := ast.NewVar(obj, nameTok)
			if err := sem.AddType(target); err != nil {
				return nil, err
			}
			stmts, err := p.localInitializer(target, ty)
			if err != nil {
				return nil, err
			}
			body = append(body, stmts...)
		}
	}
	return &ast.Node{Kind: ast.ND_BLOCK, Body: body, Tok: tok}, nil
}

// declarator recursively pulls "*" prefixes, parenthesized grouping, an
// identifier, and any trailing function-parameter list or array-dimension
// suffix, assembling the final type outside-in, per spec.md §4.2. The
// parenthesized-group case re-parses its interior twice (once as a throwaway
// to find the matching ")", once for real against the now-known base type)
// following the teacher-independent, chibicc-lineage placeholder technique
// named in spec.md's own description of this production.
func (p *Parser) declarator(ty *ctype.Type) (*ctype.Type, token.Token, error) {
	for p.consume("*") {
		ty = ctype.PointerTo(ty)
	}

	if p.consume("(") {
		start := p.pos
		dummy := &ctype.Type{}
		if _, _, err := p.declarator(dummy); err != nil {
			return nil, token.Token{}, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, token.Token{}, err
		}
		outerTy, err := p.typeSuffix(ty)
		if err != nil {
			return nil, token.Token{}, err
		}
		finalPos := p.pos
		p.pos = start
		innerTy, name, err := p.declarator(outerTy)
		if err != nil {
			return nil, token.Token{}, err
		}
		p.pos = finalPos
		return innerTy, name, nil
	}

	var name token.Token
	hasName := false
	if p.peek().Kind == token.IDENT {
		name = p.advance()
		hasName = true
	}

	outTy, err := p.typeSuffix(ty)
	if err != nil {
		return nil, token.Token{}, err
	}
	if hasName {
		nameCopy := name
		outTy.Name = &nameCopy
	}
	return outTy, name, nil
}

// abstractDeclarator is declarator without the identifier, used inside
// sizeof and casts, per spec.md §4.2.
func (p *Parser) abstractDeclarator(ty *ctype.Type) (*ctype.Type, error) {
	for p.consume("*") {
		ty = ctype.PointerTo(ty)
	}

	if p.consume("(") {
		start := p.pos
		dummy := &ctype.Type{}
		if _, err := p.abstractDeclarator(dummy); err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		outerTy, err := p.typeSuffix(ty)
		if err != nil {
			return nil, err
		}
		finalPos := p.pos
		p.pos = start
		innerTy, err := p.abstractDeclarator(outerTy)
		if err != nil {
			return nil, err
		}
		p.pos = finalPos
		return innerTy, nil
	}

	return p.typeSuffix(ty)
}

// typeSuffix parses the function-parameter-list or array-dimension suffix
// trailing a declarator, if any.
func (p *Parser) typeSuffix(ty *ctype.Type) (*ctype.Type, error) {
	if p.consume("(") {
		return p.funcParams(ty)
	}
	if p.consume("[") {
		return p.arrayDimensions(ty)
	}
	return ty, nil
}

func (p *Parser) funcParams(returnTy *ctype.Type) (*ctype.Type, error) {
	var params []*ctype.Type

	if p.is(")") {
		p.advance()
		return ctype.FuncType(returnTy, params), nil
	}
	if p.is("void") && p.peekAt(1).Is(")") {
		p.advance()
		p.advance()
		return ctype.FuncType(returnTy, params), nil
	}

	for {
		baseTy, _, _, err := p.declspec()
		if err != nil {
			return nil, err
		}
		paramTy, nameTok, err := p.declarator(baseTy)
		if err != nil {
			return nil, err
		}
		// Each parameter gets its own copy of its type to carry its name:
		// the type declarator returns may be shared with other
		// declarations (e.g. ctype.Int).
		named := *paramTy
		named.Name = nil
		if nameTok.Kind == token.IDENT {
			named.Name = &nameTok
		}
		params = append(params, &named)
		if !p.consume(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return ctype.FuncType(returnTy, params), nil
}

// arrayDimensions parses a single "[N]" or "[]" suffix. -1 encodes an
// incomplete array bound, per spec.md §3.
func (p *Parser) arrayDimensions(ty *ctype.Type) (*ctype.Type, error) {
	if p.consume("]") {
		inner, err := p.typeSuffix(ty)
		if err != nil {
			return nil, err
		}
		return ctype.ArrayOf(inner, -1), nil
	}

	sz, err := p.constExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("]"); err != nil {
		return nil, err
	}
	inner, err := p.typeSuffix(ty)
	if err != nil {
		return nil, err
	}
	return ctype.ArrayOf(inner, int(sz)), nil
}

// structUnionDecl handles anonymous definition, tagged definition, and tag
// reference, per spec.md §4.2. Redefining an existing tag in the current
// scope overwrites the type in place so prior forward references observe
// the completed layout.
func (p *Parser) structUnionDecl(isUnion bool) (*ctype.Type, error) {
	p.advance() // "struct" or "union"

	var tagTok token.Token
	hasTag := false
	if p.peek().Kind == token.IDENT {
		tagTok = p.advance()
		hasTag = true
	}

	if hasTag && !p.is("{") {
		// Tag reference: look up, declaring an incomplete forward type if
		// this is the first mention.
		if ts := p.scope.FindTag(tagTok.Text); ts != nil {
			return ts.Ty, nil
		}
		var ty *ctype.Type
		if isUnion {
			ty = ctype.NewUnion()
		} else {
			ty = ctype.NewStruct()
		}
		p.scope.DeclareTag(tagTok.Text, &ast.TagScope{Name: tagTok.Text, Ty: ty})
		return ty, nil
	}

	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	members, err := p.memberList()
	if err != nil {
		return nil, err
	}

	var ty *ctype.Type
	if hasTag {
		if ts := p.scope.FindTagInCurrentScope(tagTok.Text); ts != nil {
			ty = ts.Ty
		}
	}
	if ty == nil {
		if isUnion {
			ty = ctype.NewUnion()
		} else {
			ty = ctype.NewStruct()
		}
	}
	if isUnion {
		ctype.LayoutUnion(ty, members)
	} else {
		ctype.LayoutStruct(ty, members)
	}

	if hasTag {
		if p.scope.FindTagInCurrentScope(tagTok.Text) == nil {
			p.scope.DeclareTag(tagTok.Text, &ast.TagScope{Name: tagTok.Text, Ty: ty})
		}
	}
	return ty, nil
}

func (p *Parser) memberList() ([]*ctype.Member, error) {
	var members []*ctype.Member
	for !p.consume("}") {
		baseTy, _, _, err := p.declspec()
		if err != nil {
			return nil, err
		}
		first := true
		for !p.consume(";") {
			if !first {
				if _, err := p.expect(","); err != nil {
					return nil, err
				}
			}
			first = false
			memTy, nameTok, err := p.declarator(baseTy)
			if err != nil {
				return nil, err
			}
			members = append(members, &ctype.Member{Name: nameTok, Ty: memTy})
		}
	}
	return members, nil
}

// enumDecl parses `enum [tag] { IDENT [= const-expr], ... }` or a bare tag
// reference, inserting each enumerator into the variable scope as an int
// constant, per spec.md §4.2 ("Enums").
func (p *Parser) enumDecl() (*ctype.Type, error) {
	p.advance() // "enum"

	var tagTok token.Token
	hasTag := false
	if p.peek().Kind == token.IDENT {
		tagTok = p.advance()
		hasTag = true
	}

	if hasTag && !p.is("{") {
		ts := p.scope.FindTag(tagTok.Text)
		if ts == nil {
			return nil, p.errorf(tagTok, "unknown enum tag %q", tagTok.Text)
		}
		return ts.Ty, nil
	}

	if _, err := p.expect("{"); err != nil {
		return nil, err
	}

	ty := ctype.EnumType()
	val := int64(0)
	for !p.is("}") {
		nameTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if p.consume("=") {
			val, err = p.constExpr()
			if err != nil {
				return nil, err
			}
		}
		p.scope.DeclareVar(nameTok.Text, &ast.VarScope{Name: nameTok.Text, IsEnum: true, EnumTy: ty, EnumVal: val})
		val++
		if !p.consume(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}

	if hasTag {
		p.scope.DeclareTag(tagTok.Text, &ast.TagScope{Name: tagTok.Text, Ty: ty})
	}
	return ty, nil
}
