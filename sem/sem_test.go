package sem

import (
	"testing"

	"minicc/ast"
	"minicc/ctype"
	"minicc/token"
)

func tok(text string) token.Token {
	return token.Token{Kind: token.PUNCT, Text: text, File: "t.c", Line: 1, Column: 1}
}

func TestAddTypeArithmeticPromotesToInt(t *testing.T) {
	lhs := ast.NewNum(1, tok("1"))
	rhs := ast.NewNum(2, tok("2"))
	n := ast.NewBinary(ast.ND_ADD, lhs, rhs, tok("+"))

	if err := AddType(n); err != nil {
		t.Fatalf("AddType: %v", err)
	}
	if n.Ty != ctype.Int {
		t.Fatalf("n.Ty = %v, want Int", n.Ty)
	}
}

func TestAddTypeComparisonIsAlwaysInt(t *testing.T) {
	lhs := ast.NewNum(1, tok("1"))
	rhs := ast.NewNum(2, tok("2"))
	n := ast.NewBinary(ast.ND_LT, lhs, rhs, tok("<"))
	if err := AddType(n); err != nil {
		t.Fatalf("AddType: %v", err)
	}
	if n.Ty != ctype.Int {
		t.Fatalf("comparison Ty = %v, want Int", n.Ty)
	}
}

func TestNewAddPointerPlusIntScalesByBaseSize(t *testing.T) {
	p := &ast.Obj{Name: "p", Ty: ctype.PointerTo(ctype.Int), IsLocal: true}
	lhs := ast.NewVar(p, tok("p"))
	rhs := ast.NewNum(3, tok("3"))

	n, err := NewAdd(lhs, rhs, tok("+"))
	if err != nil {
		t.Fatalf("NewAdd: %v", err)
	}
	if n.Ty.Kind != ctype.PTR {
		t.Fatalf("p+3 should still be a pointer, got %v", n.Ty)
	}
	// rhs should have been rewritten into a *4-scaled multiplication.
	if n.Rhs.Kind != ast.ND_MUL {
		t.Fatalf("rhs should be the scaled multiplication, got kind %v", n.Rhs.Kind)
	}
}

func TestNewAddPointerPlusPointerIsError(t *testing.T) {
	p1 := &ast.Obj{Name: "p1", Ty: ctype.PointerTo(ctype.Int), IsLocal: true}
	p2 := &ast.Obj{Name: "p2", Ty: ctype.PointerTo(ctype.Int), IsLocal: true}
	_, err := NewAdd(ast.NewVar(p1, tok("p1")), ast.NewVar(p2, tok("p2")), tok("+"))
	if err == nil {
		t.Fatalf("expected an error adding two pointers")
	}
}

func TestNewSubPointerMinusPointerYieldsElementCount(t *testing.T) {
	p1 := &ast.Obj{Name: "p1", Ty: ctype.PointerTo(ctype.Long), IsLocal: true}
	p2 := &ast.Obj{Name: "p2", Ty: ctype.PointerTo(ctype.Long), IsLocal: true}

	n, err := NewSub(ast.NewVar(p1, tok("p1")), ast.NewVar(p2, tok("p2")), tok("-"))
	if err != nil {
		t.Fatalf("NewSub: %v", err)
	}
	if n.Kind != ast.ND_DIV || n.Ty != ctype.Long {
		t.Fatalf("pointer-pointer should lower to a Long division, got kind=%v ty=%v", n.Kind, n.Ty)
	}
}

func TestAddTypeAssignRejectsArrayLvalue(t *testing.T) {
	arr := &ast.Obj{Name: "a", Ty: ctype.ArrayOf(ctype.Int, 4), IsLocal: true}
	n := ast.NewBinary(ast.ND_ASSIGN, ast.NewVar(arr, tok("a")), ast.NewNum(1, tok("1")), tok("="))
	if err := AddType(n); err == nil {
		t.Fatalf("expected an error assigning to an array")
	}
}

func TestAddTypeDerefRequiresPointer(t *testing.T) {
	n := &ast.Node{Kind: ast.ND_DEREF, Lhs: ast.NewNum(1, tok("1")), Tok: tok("*")}
	if err := AddType(n); err == nil {
		t.Fatalf("expected an error dereferencing a non-pointer")
	}
}

func TestAddTypeIsIdempotent(t *testing.T) {
	n := ast.NewBinary(ast.ND_ADD, ast.NewNum(1, tok("1")), ast.NewNum(2, tok("2")), tok("+"))
	if err := AddType(n); err != nil {
		t.Fatalf("AddType: %v", err)
	}
	savedTy := n.Ty
	if err := AddType(n); err != nil {
		t.Fatalf("second AddType: %v", err)
	}
	if n.Ty != savedTy {
		t.Fatalf("AddType mutated an already-typed node")
	}
}
