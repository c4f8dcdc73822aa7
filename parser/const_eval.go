// Constant expression evaluation, per spec.md §4.2 ("Constant
// expressions"): a conditional-expression subtree evaluated over 64-bit
// integers with wraparound semantics. Used for array bounds, case labels,
// enum values, and folded global initializers.
package parser

import (
	"minicc/ast"
	"minicc/cerr"
)

// constExpr parses a conditional-expression and evaluates it to a 64-bit
// constant.
func (p *Parser) constExpr() (int64, error) {
	node, err := p.conditional()
	if err != nil {
		return 0, err
	}
	return evalConst(node)
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// evalConst evaluates a constant-expression AST node. Any node kind
// outside the supported arithmetic/bitwise/comparison/logical/ternary/
// comma/cast/literal set is a fatal error, per spec.md §4.2.
func evalConst(n *ast.Node) (int64, error) {
	switch n.Kind {
	case ast.ND_NUM:
		return n.Val, nil

	case ast.ND_ADD:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return l + r, nil
	case ast.ND_SUB:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return l - r, nil
	case ast.ND_MUL:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return l * r, nil
	case ast.ND_DIV:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		if r == 0 {
			return 0, errAtNode(n, "division by zero in constant expression")
		}
		return l / r, nil
	case ast.ND_MOD:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		if r == 0 {
			return 0, errAtNode(n, "division by zero in constant expression")
		}
		return l % r, nil
	case ast.ND_NEG:
		v, err := evalConst(n.Lhs)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case ast.ND_BITAND:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return l & r, nil
	case ast.ND_BITOR:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return l | r, nil
	case ast.ND_BITXOR:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return l ^ r, nil
	case ast.ND_BITNOT:
		v, err := evalConst(n.Lhs)
		if err != nil {
			return 0, err
		}
		return ^v, nil
	case ast.ND_SHL:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return l << uint(r), nil
	case ast.ND_SHR:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return l >> uint(r), nil

	case ast.ND_EQ:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return b2i(l == r), nil
	case ast.ND_NE:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return b2i(l != r), nil
	case ast.ND_LT:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return b2i(l < r), nil
	case ast.ND_LE:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return b2i(l <= r), nil

	case ast.ND_NOT:
		v, err := evalConst(n.Lhs)
		if err != nil {
			return 0, err
		}
		return b2i(v == 0), nil
	case ast.ND_LOGAND:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return b2i(l != 0 && r != 0), nil
	case ast.ND_LOGOR:
		l, r, err := evalConstPair(n)
		if err != nil {
			return 0, err
		}
		return b2i(l != 0 || r != 0), nil

	case ast.ND_COND:
		c, err := evalConst(n.Cond)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return evalConst(n.Then)
		}
		return evalConst(n.Els)

	case ast.ND_COMMA:
		if _, err := evalConst(n.Lhs); err != nil {
			return 0, err
		}
		return evalConst(n.Rhs)

	case ast.ND_CAST:
		v, err := evalConst(n.Lhs)
		if err != nil {
			return 0, err
		}
		return narrow(v, n.Ty.Size), nil
	}

	return 0, errAtNode(n, "not a constant expression")
}

func evalConstPair(n *ast.Node) (int64, int64, error) {
	l, err := evalConst(n.Lhs)
	if err != nil {
		return 0, 0, err
	}
	r, err := evalConst(n.Rhs)
	if err != nil {
		return 0, 0, err
	}
	return l, r, nil
}

// narrow truncates v to the given byte width with sign extension, the
// same 4x4 width table the code generator's cast lowering uses
// (spec.md §4.4 "Cast lowering").
func narrow(v int64, size int) int64 {
	switch size {
	case 1:
		return int64(int8(v))
	case 2:
		return int64(int16(v))
	case 4:
		return int64(int32(v))
	default:
		return v
	}
}

func errAtNode(n *ast.Node, msg string) error {
	return cerr.New(n.Tok.File, n.Tok.Line, n.Tok.Column, "", "%s", msg)
}
