package parser

import (
	"testing"

	"minicc/ast"
	"minicc/ctype"
	"minicc/lexer"
)

func parseSrc(t *testing.T, src string) []*ast.Obj {
	t.Helper()
	toks, err := lexer.New("t.c", []byte(src)).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	prog, err := New("t.c", src, toks).Parse()
	if err != nil {
		t.Fatalf("Parse() raised an error: %v", err)
	}
	return prog
}

func findFunc(t *testing.T, prog []*ast.Obj, name string) *ast.Obj {
	t.Helper()
	for _, o := range prog {
		if o.IsFunction && o.Name == name {
			return o
		}
	}
	t.Fatalf("no function named %q in parsed program", name)
	return nil
}

func TestParseSimpleFunctionReturningConstant(t *testing.T) {
	prog := parseSrc(t, "int main() { return 42; }")
	fn := findFunc(t, prog, "main")
	if !fn.IsDefinition {
		t.Fatalf("main should be a definition")
	}
	if len(fn.Body) != 1 || fn.Body[0].Kind != ast.ND_RETURN {
		t.Fatalf("body = %+v, want a single return statement", fn.Body)
	}
}

func TestDeclaratorPointerAndArray(t *testing.T) {
	prog := parseSrc(t, "int *p; int a[10]; int *ap[3];")
	var p, a, ap *ast.Obj
	for _, o := range prog {
		switch o.Name {
		case "p":
			p = o
		case "a":
			a = o
		case "ap":
			ap = o
		}
	}
	if p == nil || p.Ty.Kind != ctype.PTR || p.Ty.Base != ctype.Int {
		t.Fatalf("p = %+v, want pointer to int", p)
	}
	if a == nil || a.Ty.Kind != ctype.ARRAY || a.Ty.ArrayLen != 10 || a.Ty.Base != ctype.Int {
		t.Fatalf("a = %+v, want int[10]", a)
	}
	if ap == nil || ap.Ty.Kind != ctype.ARRAY || ap.Ty.Base.Kind != ctype.PTR {
		t.Fatalf("ap = %+v, want array of pointers", ap)
	}
}

func TestFunctionParamsRegisteredAsLocals(t *testing.T) {
	prog := parseSrc(t, "int add(int a, int b) { return a + b; }")
	fn := findFunc(t, prog, "add")
	if len(fn.Params) != 2 {
		t.Fatalf("Params = %+v, want 2 entries", fn.Params)
	}
	if fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("Params = %+v, want a, b in order", fn.Params)
	}
}

func TestExpressionPrecedenceMulBeforeAdd(t *testing.T) {
	prog := parseSrc(t, "int main() { return 1 + 2 * 3; }")
	fn := findFunc(t, prog, "main")
	ret := fn.Body[0]
	if ret.Kind != ast.ND_RETURN {
		t.Fatalf("expected a return statement")
	}
	add := ret.Lhs
	if add.Kind != ast.ND_ADD {
		t.Fatalf("top-level op = %v, want ND_ADD (lower precedence binds loosest)", add.Kind)
	}
	if add.Rhs.Kind != ast.ND_MUL {
		t.Fatalf("rhs of + = %v, want ND_MUL", add.Rhs.Kind)
	}
}

func TestExpressionPrecedenceParenthesesOverride(t *testing.T) {
	prog := parseSrc(t, "int main() { return (1 + 2) * 3; }")
	fn := findFunc(t, prog, "main")
	mul := fn.Body[0].Lhs
	if mul.Kind != ast.ND_MUL {
		t.Fatalf("top-level op = %v, want ND_MUL", mul.Kind)
	}
	if mul.Lhs.Kind != ast.ND_ADD {
		t.Fatalf("lhs of * = %v, want the parenthesized ND_ADD", mul.Lhs.Kind)
	}
}

func TestConditionalTernaryRightAssociative(t *testing.T) {
	prog := parseSrc(t, "int main() { return 1 ? 2 : 0 ? 3 : 4; }")
	fn := findFunc(t, prog, "main")
	cond := fn.Body[0].Lhs
	if cond.Kind != ast.ND_COND {
		t.Fatalf("top-level op = %v, want ND_COND", cond.Kind)
	}
	if cond.Els.Kind != ast.ND_COND {
		t.Fatalf("els branch = %v, want a nested ND_COND (right-associative)", cond.Els.Kind)
	}
}

func TestConstExprArrayBound(t *testing.T) {
	prog := parseSrc(t, "int a[2 + 3 * 2];")
	var a *ast.Obj
	for _, o := range prog {
		if o.Name == "a" {
			a = o
		}
	}
	if a == nil || a.Ty.ArrayLen != 8 {
		t.Fatalf("a.Ty.ArrayLen = %v, want 8", a)
	}
}

func TestGotoLabelResolution(t *testing.T) {
	prog := parseSrc(t, `int main() {
		int x;
		x = 1;
		goto done;
		x = 2;
	done:
		return x;
	}`)
	fn := findFunc(t, prog, "main")

	var gotoNode, labelNode *ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.Kind == ast.ND_GOTO && n.Label == "done" {
			gotoNode = n
		}
		if n.Kind == ast.ND_LABEL && n.Label == "done" {
			labelNode = n
		}
		for _, c := range n.Body {
			walk(c)
		}
		walk(n.Lhs)
		walk(n.Rhs)
	}
	for _, s := range fn.Body {
		walk(s)
	}

	if gotoNode == nil || labelNode == nil {
		t.Fatalf("expected to find both the goto and the label node")
	}
	if gotoNode.UniqueLabel == "" {
		t.Fatalf("goto's UniqueLabel was never resolved")
	}
	if gotoNode.UniqueLabel != labelNode.UniqueLabel {
		t.Fatalf("goto.UniqueLabel = %q, label.UniqueLabel = %q, want a match", gotoNode.UniqueLabel, labelNode.UniqueLabel)
	}
}

func TestUnresolvedGotoIsFatal(t *testing.T) {
	toks, err := lexer.New("t.c", []byte("int main() { goto nowhere; return 0; }")).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	if _, err := New("t.c", "int main() { goto nowhere; return 0; }", toks).Parse(); err == nil {
		t.Fatalf("expected an error for a goto with no matching label")
	}
}

func TestLocalArrayInitializerLowersToAssignments(t *testing.T) {
	prog := parseSrc(t, "int main() { int a[3] = {1, 2, 3}; return a[0]; }")
	fn := findFunc(t, prog, "main")
	// body[0] is the declaration-with-initializer block.
	decl := fn.Body[0]
	if decl.Kind != ast.ND_BLOCK || len(decl.Body) != 3 {
		t.Fatalf("decl = %+v, want a block of 3 element assignments", decl)
	}
	for _, stmt := range decl.Body {
		if stmt.Kind != ast.ND_EXPR_STMT || stmt.Lhs.Kind != ast.ND_ASSIGN {
			t.Fatalf("initializer statement = %+v, want an assignment expr-stmt", stmt)
		}
	}
}

func TestGlobalInitializerFoldsIntoInitData(t *testing.T) {
	prog := parseSrc(t, "int g = 42;")
	var g *ast.Obj
	for _, o := range prog {
		if o.Name == "g" {
			g = o
		}
	}
	if g == nil || !g.HasInit {
		t.Fatalf("g = %+v, want HasInit true", g)
	}
	if len(g.InitData) != 4 {
		t.Fatalf("len(InitData) = %d, want 4 (sizeof int)", len(g.InitData))
	}
	got := int32(g.InitData[0]) | int32(g.InitData[1])<<8 | int32(g.InitData[2])<<16 | int32(g.InitData[3])<<24
	if got != 42 {
		t.Fatalf("decoded InitData = %d, want 42", got)
	}
}

func TestCompoundAssignDesugarsToSingleLvalueEvaluation(t *testing.T) {
	prog := parseSrc(t, "int main() { int x; x += 3; return x; }")
	fn := findFunc(t, prog, "main")
	// second statement is the compound assignment.
	stmt := fn.Body[1]
	if stmt.Kind != ast.ND_EXPR_STMT {
		t.Fatalf("stmt = %+v, want an expr-stmt", stmt)
	}
	if stmt.Lhs.Kind != ast.ND_COMMA {
		t.Fatalf("x += 3 should desugar to a comma expression (tmp = &x; *tmp = *tmp + 3), got %v", stmt.Lhs.Kind)
	}
}

func TestSwitchCollectsCasesOntoSwitchNode(t *testing.T) {
	prog := parseSrc(t, `int main() {
		int x;
		x = 1;
		switch (x) {
		case 1:
			return 10;
		case 2:
			return 20;
		default:
			return 0;
		}
	}`)
	fn := findFunc(t, prog, "main")
	var sw *ast.Node
	for _, s := range fn.Body {
		if s.Kind == ast.ND_SWITCH {
			sw = s
		}
	}
	if sw == nil {
		t.Fatalf("expected a switch statement in the body")
	}
	if len(sw.Cases) != 3 {
		t.Fatalf("Cases = %d entries, want 3 (two case + default)", len(sw.Cases))
	}
	if sw.DefaultCase == nil {
		t.Fatalf("DefaultCase should be set")
	}
}
