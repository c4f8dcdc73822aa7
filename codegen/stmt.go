// Statement code generation: blocks, if/for, return, goto/label, and
// switch/case, per spec.md §4.4.
package codegen

import (
	"fmt"
	"minicc/ast"
)

func (g *Generator) genStmt(n *ast.Node) error {
	switch n.Kind {
	case ast.ND_BLOCK:
		for _, s := range n.Body {
			if err := g.genStmt(s); err != nil {
				return err
			}
		}
		return nil

	case ast.ND_EXPR_STMT:
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		return nil

	case ast.ND_RETURN:
		if n.Lhs != nil {
			if err := g.genExpr(n.Lhs); err != nil {
				return err
			}
		}
		g.printf("  jmp .L.return.%s\n", g.curFn.Name)
		return nil

	case ast.ND_IF:
		return g.genIf(n)

	case ast.ND_FOR:
		return g.genFor(n)

	case ast.ND_GOTO:
		g.printf("  jmp %s\n", n.UniqueLabel)
		return nil

	case ast.ND_LABEL:
		g.printf("%s:\n", n.UniqueLabel)
		return g.genStmt(n.Lhs)

	case ast.ND_SWITCH:
		return g.genSwitch(n)

	case ast.ND_CASE:
		g.printf("%s:\n", n.UniqueLabel)
		return g.genStmt(n.Lhs)
	}

	return fmt.Errorf("internal: unhandled statement node kind %v", n.Kind)
}

func (g *Generator) genIf(n *ast.Node) error {
	elseLabel := g.newLabel()
	endLabel := g.newLabel()

	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	g.printf("  cmp $0, %%rax\n")
	g.printf("  je %s\n", elseLabel)
	if err := g.genStmt(n.Then); err != nil {
		return err
	}
	g.printf("  jmp %s\n", endLabel)
	g.printf("%s:\n", elseLabel)
	if n.Els != nil {
		if err := g.genStmt(n.Els); err != nil {
			return err
		}
	}
	g.printf("%s:\n", endLabel)
	return nil
}

// genFor emits a for/while loop. n.BrkLabel/n.ContLabel are the unique
// label names the parser already assigned when it saw "break"/
// "continue" inside the loop body, so codegen only has to define them at
// the right points rather than invent new ones, per spec.md §4.2's
// parse-time break/continue target resolution.
func (g *Generator) genFor(n *ast.Node) error {
	begin := g.newLabel()

	if n.Init != nil {
		if err := g.genStmt(n.Init); err != nil {
			return err
		}
	}
	g.printf("%s:\n", begin)
	if n.Cond != nil {
		if err := g.genExpr(n.Cond); err != nil {
			return err
		}
		g.printf("  cmp $0, %%rax\n")
		g.printf("  je %s\n", n.BrkLabel)
	}
	if err := g.genStmt(n.Then); err != nil {
		return err
	}
	g.printf("%s:\n", n.ContLabel)
	if n.Inc != nil {
		if err := g.genExpr(n.Inc); err != nil {
			return err
		}
	}
	g.printf("  jmp %s\n", begin)
	g.printf("%s:\n", n.BrkLabel)
	return nil
}

// genSwitch evaluates the controlling expression once, dispatches via a
// linear chain of compares against each case's constant (no jump table:
// spec.md's Non-goals exclude optimization passes), then falls through
// into the body, per spec.md §4.2.
func (g *Generator) genSwitch(n *ast.Node) error {
	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	for _, c := range n.Cases {
		if c.IsDefault {
			continue
		}
		g.printf("  cmp $%d, %%rax\n", c.CaseVal)
		g.printf("  je %s\n", c.UniqueLabel)
	}
	if n.DefaultCase != nil {
		g.printf("  jmp %s\n", n.DefaultCase.UniqueLabel)
	} else {
		g.printf("  jmp %s\n", n.BrkLabel)
	}
	if err := g.genStmt(n.Then); err != nil {
		return err
	}
	g.printf("%s:\n", n.BrkLabel)
	return nil
}
