package ast

import (
	"minicc/ctype"
	"minicc/token"
)

// NewNode returns a bare node of the given kind, tagged with tok.
func NewNode(kind NodeKind, tok token.Token) *Node {
	return &Node{Kind: kind, Tok: tok}
}

// NewBinary returns a binary-operator node.
func NewBinary(kind NodeKind, lhs, rhs *Node, tok token.Token) *Node {
	return &Node{Kind: kind, Lhs: lhs, Rhs: rhs, Tok: tok}
}

// NewUnary returns a unary-operator node over expr.
func NewUnary(kind NodeKind, expr *Node, tok token.Token) *Node {
	return &Node{Kind: kind, Lhs: expr, Tok: tok}
}

// NewNum returns an integer literal node.
func NewNum(val int64, tok token.Token) *Node {
	return &Node{Kind: ND_NUM, Val: val, Tok: tok}
}

// NewVar returns a variable-reference node bound to obj.
func NewVar(obj *Obj, tok token.Token) *Node {
	return &Node{Kind: ND_VAR, Var: obj, Tok: tok}
}

// NewCast wraps expr in an explicit ND_CAST node targeting ty. The type
// pass materializes every implicit conversion this way, per spec.md §4.3,
// so the code generator never has to re-decide a conversion.
func NewCast(expr *Node, ty *ctype.Type) *Node {
	n := &Node{Kind: ND_CAST, Lhs: expr, Tok: expr.Tok}
	n.Ty = &ctype.Type{
		Kind: ty.Kind, Size: ty.Size, Align: ty.Align, Base: ty.Base,
		ArrayLen: ty.ArrayLen, Members: ty.Members, Return: ty.Return, Params: ty.Params,
	}
	return n
}
