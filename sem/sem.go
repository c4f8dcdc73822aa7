// Package sem implements the type-decoration pass invoked from within
// parsing: it walks freshly built AST subtrees, assigns ast.Node.Ty where
// unset, normalizes implicit conversions into explicit ast.NewCast nodes,
// and performs the operand-type-directed pointer arithmetic spec.md §4.2
// describes for "+"/"-". See spec.md §4.3.
//
// There is no direct teacher analog (Nilan has no static type system);
// the walk-and-dispatch-on-tag shape follows compiler/ast_compiler.go's
// tree-walk, generalized from bytecode emission to type assignment.
package sem

import (
	"minicc/ast"
	"minicc/cerr"
	"minicc/ctype"
	"minicc/token"
)

func errAt(tok token.Token, source, format string, args ...any) error {
	return cerr.New(tok.File, tok.Line, tok.Column, source, format, args...)
}

// AddType assigns n.Ty (and every descendant's Ty) if unset, per
// spec.md §4.3's rules. It is idempotent: a node whose Ty is already set
// is left untouched, along with its subtree, so calling it more than once
// over overlapping subtrees (as the parser does, eagerly typing operands
// before deciding how to combine them) is cheap and safe.
func AddType(n *ast.Node) error {
	if n == nil || n.Ty != nil {
		return nil
	}

	for _, child := range []*ast.Node{n.Lhs, n.Rhs, n.Cond, n.Then, n.Els, n.Init, n.Inc} {
		if err := AddType(child); err != nil {
			return err
		}
	}
	for _, s := range n.Body {
		if err := AddType(s); err != nil {
			return err
		}
	}
	for _, a := range n.Args {
		if err := AddType(a); err != nil {
			return err
		}
	}
	for _, c := range n.Cases {
		if err := AddType(c); err != nil {
			return err
		}
	}

	switch n.Kind {
	case ast.ND_ADD, ast.ND_SUB, ast.ND_MUL, ast.ND_DIV, ast.ND_MOD,
		ast.ND_BITAND, ast.ND_BITOR, ast.ND_BITXOR, ast.ND_SHL, ast.ND_SHR:
		return usualArith(n)

	case ast.ND_NEG:
		ty := promote(n.Lhs.Ty)
		n.Lhs = castTo(n.Lhs, ty)
		n.Ty = ty
		return nil

	case ast.ND_BITNOT:
		ty := promote(n.Lhs.Ty)
		n.Lhs = castTo(n.Lhs, ty)
		n.Ty = ty
		return nil

	case ast.ND_NOT, ast.ND_EQ, ast.ND_NE, ast.ND_LT, ast.ND_LE,
		ast.ND_LOGAND, ast.ND_LOGOR:
		n.Ty = ctype.Int
		return nil

	case ast.ND_ASSIGN:
		if n.Lhs.Ty.Kind == ctype.ARRAY {
			return errAt(n.Tok, "", "not an lvalue")
		}
		if n.Lhs.Ty.Kind != ctype.STRUCT && n.Lhs.Ty.Kind != ctype.UNION {
			n.Rhs = castTo(n.Rhs, n.Lhs.Ty)
		}
		n.Ty = n.Lhs.Ty
		return nil

	case ast.ND_COMMA:
		n.Ty = n.Rhs.Ty
		return nil

	case ast.ND_MEMBER:
		n.Ty = n.Member.Ty
		return nil

	case ast.ND_COND:
		if n.Then.Ty.Kind == ctype.VOID || n.Els.Ty.Kind == ctype.VOID {
			n.Ty = ctype.Void
			return nil
		}
		if n.Then.Ty.IsInteger() && n.Els.Ty.IsInteger() {
			ty := ctype.Int
			if promote(n.Then.Ty).Kind == ctype.LONG || promote(n.Els.Ty).Kind == ctype.LONG {
				ty = ctype.Long
			}
			n.Then = castTo(n.Then, ty)
			n.Els = castTo(n.Els, ty)
			n.Ty = ty
			return nil
		}
		n.Ty = n.Then.Ty
		return nil

	case ast.ND_ADDR:
		if n.Lhs.Ty.Kind == ctype.ARRAY {
			n.Ty = ctype.PointerTo(n.Lhs.Ty.Base)
		} else {
			n.Ty = ctype.PointerTo(n.Lhs.Ty)
		}
		return nil

	case ast.ND_DEREF:
		if n.Lhs.Ty.Base == nil {
			return errAt(n.Tok, "", "invalid pointer dereference")
		}
		if n.Lhs.Ty.Base.Kind == ctype.VOID {
			return errAt(n.Tok, "", "dereferencing a pointer to an incomplete type")
		}
		n.Ty = n.Lhs.Ty.Base
		return nil

	case ast.ND_VAR:
		n.Ty = n.Var.Ty
		return nil

	case ast.ND_NUM:
		if n.Val != int64(int32(n.Val)) {
			n.Ty = ctype.Long
		} else {
			n.Ty = ctype.Int
		}
		return nil

	case ast.ND_FUNCALL:
		if n.FuncType != nil {
			n.Ty = n.FuncType.Return
			for i, a := range n.Args {
				if i < len(n.FuncType.Params) {
					n.Args[i] = castTo(a, n.FuncType.Params[i])
				}
			}
		} else {
			n.Ty = ctype.Int
		}
		return nil

	case ast.ND_STMT_EXPR:
		if len(n.Body) > 0 {
			if last := n.Body[len(n.Body)-1]; last.Kind == ast.ND_EXPR_STMT {
				n.Ty = last.Lhs.Ty
				return nil
			}
		}
		n.Ty = ctype.Void
		return nil

	case ast.ND_CAST:
		// Ty was already set by ast.NewCast at construction time.
		return nil
	}

	// Pure statement nodes (block, if, for, return, goto, label, switch,
	// case, expr_stmt) carry no value and are left untyped, per the
	// testable property in spec.md §8.
	return nil
}

// promote implements the "usual arithmetic conversions" spec.md §4.3
// describes: anything narrower than int promotes to int.
func promote(ty *ctype.Type) *ctype.Type {
	if ty.Size < ctype.Int.Size {
		return ctype.Int
	}
	return ty
}

func castTo(n *ast.Node, ty *ctype.Type) *ast.Node {
	if n.Ty == ty || (n.Ty != nil && n.Ty.Kind == ty.Kind && n.Ty.Size == ty.Size) {
		return n
	}
	return ast.NewCast(n, ty)
}

// usualArith applies spec.md §4.3's arithmetic/bitwise rule: the type of
// the left operand after usual arithmetic conversions; if either side is
// long, the result is long.
func usualArith(n *ast.Node) error {
	lp, rp := n.Lhs.Ty.IsPointerLike(), n.Rhs.Ty.IsPointerLike()
	if lp || rp {
		// Pointer-involving ADD/SUB nodes are built pre-typed by NewAdd/
		// NewSub below; reaching here with an untyped pointer operand on
		// any other operator is invalid.
		if n.Kind != ast.ND_ADD && n.Kind != ast.ND_SUB {
			return errAt(n.Tok, "", "invalid operand for pointer arithmetic")
		}
		if lp {
			n.Ty = n.Lhs.Ty
		} else {
			n.Ty = n.Rhs.Ty
		}
		return nil
	}

	lty := promote(n.Lhs.Ty)
	rty := promote(n.Rhs.Ty)
	result := ctype.Int
	if lty.Kind == ctype.LONG || rty.Kind == ctype.LONG {
		result = ctype.Long
	}
	n.Lhs = castTo(n.Lhs, result)
	n.Rhs = castTo(n.Rhs, result)
	n.Ty = result
	return nil
}

// NewAdd builds an addition node, scaling an integer operand added to a
// pointer/array by the base type's size, per spec.md §4.2's "new_add":
// integer+integer is direct, pointer+integer scales, integer+pointer is
// commuted, pointer+pointer is an error.
func NewAdd(lhs, rhs *ast.Node, tok token.Token) (*ast.Node, error) {
	if err := AddType(lhs); err != nil {
		return nil, err
	}
	if err := AddType(rhs); err != nil {
		return nil, err
	}

	lp, rp := lhs.Ty.IsPointerLike(), rhs.Ty.IsPointerLike()
	switch {
	case !lp && !rp:
		return ast.NewBinary(ast.ND_ADD, lhs, rhs, tok), nil
	case lp && rp:
		return nil, errAt(tok, "", "invalid operands: pointer + pointer")
	case !lp && rp:
		lhs, rhs = rhs, lhs
	}

	scale := ast.NewNum(int64(lhs.Ty.Base.Size), tok)
	scale.Ty = ctype.Long
	scaled := ast.NewBinary(ast.ND_MUL, castTo(rhs, ctype.Long), scale, tok)
	scaled.Ty = ctype.Long
	n := ast.NewBinary(ast.ND_ADD, lhs, scaled, tok)
	n.Ty = lhs.Ty
	return n, nil
}

// NewSub builds a subtraction node, per spec.md §4.2's "new_sub":
// integer-integer is direct, pointer-integer scales, pointer-pointer
// yields the integer element-count difference, integer-pointer is an
// error.
func NewSub(lhs, rhs *ast.Node, tok token.Token) (*ast.Node, error) {
	if err := AddType(lhs); err != nil {
		return nil, err
	}
	if err := AddType(rhs); err != nil {
		return nil, err
	}

	lp, rp := lhs.Ty.IsPointerLike(), rhs.Ty.IsPointerLike()
	switch {
	case !lp && !rp:
		return ast.NewBinary(ast.ND_SUB, lhs, rhs, tok), nil
	case lp && !rp:
		scale := ast.NewNum(int64(lhs.Ty.Base.Size), tok)
		scale.Ty = ctype.Long
		scaled := ast.NewBinary(ast.ND_MUL, castTo(rhs, ctype.Long), scale, tok)
		scaled.Ty = ctype.Long
		n := ast.NewBinary(ast.ND_SUB, lhs, scaled, tok)
		n.Ty = lhs.Ty
		return n, nil
	case lp && rp:
		diff := ast.NewBinary(ast.ND_SUB, lhs, rhs, tok)
		diff.Ty = ctype.Long
		size := ast.NewNum(int64(lhs.Ty.Base.Size), tok)
		size.Ty = ctype.Long
		n := ast.NewBinary(ast.ND_DIV, diff, size, tok)
		n.Ty = ctype.Long
		return n, nil
	default:
		return nil, errAt(tok, "", "invalid operands: integer - pointer")
	}
}
