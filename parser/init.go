// Initializer parsing: local-variable initializers lower to a sequence of
// element-wise assignment statements (ast.ND_EXPR_STMT nodes joined by the
// enclosing ast.ND_BLOCK), and global scalar/aggregate initializers fold
// directly into ast.Obj.InitData, per spec.md §4.2 ("Initializers").
package parser

import (
	"minicc/ast"
	"minicc/ctype"
	"minicc/sem"
	"minicc/token"
)

// localInitializer parses an initializer for target (an addressable node
// of type ty, freshly built over the declared local) and returns the
// element-wise assignment statements it lowers to.
func (p *Parser) localInitializer(target *ast.Node, ty *ctype.Type) ([]*ast.Node, error) {
	if p.is("{") {
		switch ty.Kind {
		case ctype.ARRAY:
			return p.localArrayInitializer(target, ty)
		case ctype.STRUCT, ctype.UNION:
			return p.localAggregateInitializer(target, ty)
		default:
			p.advance() // "{"
			val, err := p.assign()
			if err != nil {
				return nil, err
			}
			stmts, err := p.singleAssign(target, val)
			if err != nil {
				return nil, err
			}
			p.consume(",")
			if _, err := p.expect("}"); err != nil {
				return nil, err
			}
			return stmts, nil
		}
	}

	if ty.Kind == ctype.ARRAY && ty.Base.Kind == ctype.CHAR && p.peek().Kind == token.STRING {
		strTok := p.advance()
		data := strTok.Str
		if ty.ArrayLen == -1 {
			ty.ArrayLen = len(data)
			ty.Size = len(data)
		}
		var stmts []*ast.Node
		for i := 0; i < ty.ArrayLen; i++ {
			var b int64
			if i < len(data) {
				b = int64(data[i])
			}
			elem, err := p.arrayElem(target, i, strTok)
			if err != nil {
				return nil, err
			}
			s, err := p.singleAssign(elem, ast.NewNum(b, strTok))
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s...)
		}
		return stmts, nil
	}

	val, err := p.assign()
	if err != nil {
		return nil, err
	}
	return p.singleAssign(target, val)
}

func (p *Parser) localArrayInitializer(target *ast.Node, ty *ctype.Type) ([]*ast.Node, error) {
	tok := p.advance() // "{"
	var stmts []*ast.Node
	idx := 0
	for !p.is("}") {
		elem, err := p.arrayElem(target, idx, tok)
		if err != nil {
			return nil, err
		}
		s, err := p.localInitializer(elem, ty.Base)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s...)
		idx++
		if !p.consume(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	if ty.ArrayLen == -1 {
		ty.ArrayLen = idx
		ty.Size = ty.Base.Size * idx
	}
	return stmts, nil
}

func (p *Parser) localAggregateInitializer(target *ast.Node, ty *ctype.Type) ([]*ast.Node, error) {
	tok := p.advance() // "{"
	var stmts []*ast.Node
	i := 0
	for !p.is("}") && i < len(ty.Members) {
		m := ty.Members[i]
		memberTarget := &ast.Node{Kind: ast.ND_MEMBER, Lhs: target, Member: m, Tok: tok}
		s, err := p.localInitializer(memberTarget, m.Ty)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s...)
		i++
		if !p.consume(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return stmts, nil
}

// arrayElem builds "*(base + index)", the decayed form array subscripting
// always lowers to, per spec.md §4.2.
func (p *Parser) arrayElem(base *ast.Node, index int, tok token.Token) (*ast.Node, error) {
	sum, err := sem.NewAdd(base, ast.NewNum(int64(index), tok), tok)
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.ND_DEREF, Lhs: sum, Tok: tok}, nil
}

func (p *Parser) singleAssign(target, val *ast.Node) ([]*ast.Node, error) {
	assignNode := ast.NewBinary(ast.ND_ASSIGN, target, val, target.Tok)
	if err := sem.AddType(assignNode); err != nil {
		return nil, err
	}
	return []*ast.Node{{Kind: ast.ND_EXPR_STMT, Lhs: assignNode, Tok: target.Tok}}, nil
}

// globalInitializer folds a global's initializer directly into byte data,
// per spec.md §4.2: scalar constants, string literals, and aggregates of
// the above are evaluated at parse time rather than lowered to code.
func (p *Parser) globalInitializer(ty *ctype.Type) ([]byte, error) {
	buf := make([]byte, ty.Size)
	buf, err := p.fillGlobalInit(buf, 0, ty)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// fillGlobalInit returns the (possibly grown) buffer, since folding a
// `char s[] = "..."` initializer discovers ty's size only here and must
// grow buf to fit; every caller threads the returned slice back rather
// than relying on the pre-sized buf it passed in.
func (p *Parser) fillGlobalInit(buf []byte, offset int, ty *ctype.Type) ([]byte, error) {
	if ty.Kind == ctype.ARRAY && ty.Base.Kind == ctype.CHAR && p.peek().Kind == token.STRING {
		tok := p.advance()
		data := tok.Str
		if ty.ArrayLen == -1 {
			ty.ArrayLen = len(data)
			ty.Size = len(data)
			buf = append(buf, make([]byte, ty.Size-len(buf))...)
		}
		copy(buf[offset:], data)
		return buf, nil
	}

	if p.is("{") {
		p.advance()
		switch ty.Kind {
		case ctype.ARRAY:
			if ty.ArrayLen == -1 {
				return nil, p.errorf(p.peek(), "cannot infer bound of a nested incomplete array")
			}
			for i := 0; i < ty.ArrayLen; i++ {
				if i > 0 {
					if !p.consume(",") {
						break
					}
				}
				var err error
				buf, err = p.fillGlobalInit(buf, offset+i*ty.Base.Size, ty.Base)
				if err != nil {
					return nil, err
				}
			}
		case ctype.STRUCT, ctype.UNION:
			for i, m := range ty.Members {
				if i > 0 {
					if !p.consume(",") {
						break
					}
				}
				var err error
				buf, err = p.fillGlobalInit(buf, offset+m.Offset, m.Ty)
				if err != nil {
					return nil, err
				}
			}
		default:
			var err error
			buf, err = p.fillGlobalInit(buf, offset, ty)
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect("}"); err != nil {
			return nil, err
		}
		return buf, nil
	}

	v, err := p.constExpr()
	if err != nil {
		return nil, err
	}
	putInt(buf, offset, ty.Size, v)
	return buf, nil
}

func putInt(buf []byte, offset, size int, v int64) {
	for i := 0; i < size && offset+i < len(buf); i++ {
		buf[offset+i] = byte(v >> (8 * uint(i)))
	}
}
