package ast

import "testing"

func TestScopeDeclareAndFindVar(t *testing.T) {
	s := New()
	obj := &Obj{Name: "x", IsLocal: true}
	s.DeclareVar("x", &VarScope{Name: "x", Var: obj})

	found := s.FindVar("x")
	if found == nil || found.Var != obj {
		t.Fatalf("FindVar(x) = %+v, want the declared binding", found)
	}
	if s.FindVar("y") != nil {
		t.Fatalf("FindVar(y) should be nil for an undeclared name")
	}
}

func TestScopePushPopShadowing(t *testing.T) {
	s := New()
	outer := &Obj{Name: "x", IsLocal: true}
	s.DeclareVar("x", &VarScope{Name: "x", Var: outer})

	s.Push()
	inner := &Obj{Name: "x", IsLocal: true}
	s.DeclareVar("x", &VarScope{Name: "x", Var: inner})

	if got := s.FindVar("x"); got == nil || got.Var != inner {
		t.Fatalf("FindVar(x) in inner scope = %+v, want the shadowing binding", got)
	}
	s.Pop()

	if got := s.FindVar("x"); got == nil || got.Var != outer {
		t.Fatalf("FindVar(x) after Pop = %+v, want the outer binding again", got)
	}
}

func TestFindVarInCurrentScopeDoesNotSeeOuterFrame(t *testing.T) {
	s := New()
	s.DeclareVar("x", &VarScope{Name: "x", Var: &Obj{Name: "x"}})
	s.Push()

	if s.FindVarInCurrentScope("x") != nil {
		t.Fatalf("FindVarInCurrentScope should not see bindings from an outer frame")
	}
	if s.FindVar("x") == nil {
		t.Fatalf("FindVar should still see the outer binding")
	}
}

func TestTagScopeIsIndependentOfVarScope(t *testing.T) {
	s := New()
	s.DeclareVar("point", &VarScope{Name: "point", Var: &Obj{Name: "point"}})
	s.DeclareTag("point", &TagScope{Name: "point"})

	if s.FindVar("point") == nil {
		t.Fatalf("var namespace binding for \"point\" should still resolve")
	}
	if s.FindTag("point") == nil {
		t.Fatalf("tag namespace binding for \"point\" should still resolve")
	}
}

func TestFindTagInCurrentScopeOnlyLocal(t *testing.T) {
	s := New()
	s.DeclareTag("T", &TagScope{Name: "T"})
	s.Push()
	defer s.Pop()

	if s.FindTagInCurrentScope("T") != nil {
		t.Fatalf("FindTagInCurrentScope should not see an outer frame's tag")
	}
	if s.FindTag("T") == nil {
		t.Fatalf("FindTag should still see the outer frame's tag")
	}
}
