// Expression code generation: the stack-machine lowering of every
// ast.Node expression kind to AT&T-syntax x86-64, per spec.md §4.4.
package codegen

import (
	"fmt"
	"minicc/ast"
	"minicc/ctype"
)

// genAddr computes n's address into %rax. n must be one of the lvalue
// kinds: a variable, a dereference, a member access, or a comma whose
// right side is addressable (the same set sem.AddType's ND_ADDR case and
// the parser's isAddressable helper recognize).
func (g *Generator) genAddr(n *ast.Node) error {
	switch n.Kind {
	case ast.ND_VAR:
		if n.Var.IsLocal {
			g.printf("  lea %d(%%rbp), %%rax\n", n.Var.Offset)
		} else {
			g.printf("  lea %s(%%rip), %%rax\n", n.Var.Name)
		}
		return nil
	case ast.ND_DEREF:
		return g.genExpr(n.Lhs)
	case ast.ND_MEMBER:
		if err := g.genAddr(n.Lhs); err != nil {
			return err
		}
		g.printf("  add $%d, %%rax\n", n.Member.Offset)
		return nil
	case ast.ND_COMMA:
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		return g.genAddr(n.Rhs)
	}
	return fmt.Errorf("internal: %v is not an lvalue", n.Kind)
}

// load reads the value at the address in %rax into %rax, per ty's
// width, per spec.md §4.4's load/store size dispatch. Arrays and
// function designators decay and are never loaded through (the value IS
// the address already computed by genAddr).
func (g *Generator) load(ty *ctype.Type) {
	if ty.Kind == ctype.ARRAY || ty.Kind == ctype.FUNC || ty.Kind == ctype.STRUCT || ty.Kind == ctype.UNION {
		return
	}
	switch ty.Size {
	case 1:
		g.printf("  movsbq (%%rax), %%rax\n")
	case 2:
		g.printf("  movswq (%%rax), %%rax\n")
	case 4:
		g.printf("  movslq (%%rax), %%rax\n")
	default:
		g.printf("  mov (%%rax), %%rax\n")
	}
}

// store writes %rax's value to the address on top of the stack, per
// ty's width, leaving the stored value in %rax, per spec.md §4.4.
func (g *Generator) store(ty *ctype.Type) {
	g.pop("%rdi")
	if ty.Kind == ctype.STRUCT || ty.Kind == ctype.UNION {
		for i := 0; i < ty.Size; i++ {
			g.printf("  mov %d(%%rax), %%r8b\n", i)
			g.printf("  mov %%r8b, %d(%%rdi)\n", i)
		}
		g.printf("  mov %%rdi, %%rax\n")
		return
	}
	g.printf("  mov %%rax, %%r8\n")
	switch ty.Size {
	case 1:
		g.printf("  mov %%r8b, (%%rdi)\n")
	case 2:
		g.printf("  mov %%r8w, (%%rdi)\n")
	case 4:
		g.printf("  mov %%r8d, (%%rdi)\n")
	default:
		g.printf("  mov %%r8, (%%rdi)\n")
	}
}

// cast lowers an implicit or explicit conversion between from (the
// operand's current type, already in %rax) and to, per spec.md
// §4.4's 4-width cast lowering table: narrowing truncates, widening
// sign-extends, and bool destinations normalize to 0/1.
func (g *Generator) cast(from, to *ctype.Type) {
	if to.Kind == ctype.VOID {
		return
	}
	if to.Kind == ctype.BOOL {
		g.printf("  cmp $0, %s\n", regForSize(from.Size))
		g.printf("  setne %%al\n")
		g.printf("  movzbl %%al, %%eax\n")
		return
	}
	if from.Size == to.Size {
		return
	}
	switch {
	case to.Size == 1:
		g.printf("  movsbq %%al, %%rax\n")
	case to.Size == 2:
		g.printf("  movswq %%ax, %%rax\n")
	case to.Size == 4:
		g.printf("  movslq %%eax, %%rax\n")
	case from.Size == 1:
		g.printf("  movsbq %%al, %%rax\n")
	case from.Size == 2:
		g.printf("  movswq %%ax, %%rax\n")
	case from.Size == 4:
		g.printf("  movslq %%eax, %%rax\n")
	}
}

var binaryMnemonic = map[ast.NodeKind]string{
	ast.ND_ADD: "add", ast.ND_SUB: "sub", ast.ND_BITAND: "and",
	ast.ND_BITOR: "or", ast.ND_BITXOR: "xor",
}

// genExpr evaluates n, leaving its value in %rax. Every intermediate
// value a binary operator needs from its left operand is pushed and
// later popped, maintaining the depth-counter-asserted push/pop
// discipline spec.md §4.4 requires.
func (g *Generator) genExpr(n *ast.Node) error {
	switch n.Kind {
	case ast.ND_NUM:
		g.printf("  mov $%d, %%rax\n", n.Val)
		return nil

	case ast.ND_NEG:
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		g.printf("  neg %%rax\n")
		return nil

	case ast.ND_BITNOT:
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		g.printf("  not %%rax\n")
		return nil

	case ast.ND_NOT:
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		g.printf("  cmp $0, %%rax\n")
		g.printf("  sete %%al\n")
		g.printf("  movzbl %%al, %%eax\n")
		return nil

	case ast.ND_VAR, ast.ND_MEMBER:
		if err := g.genAddr(n); err != nil {
			return err
		}
		g.load(n.Ty)
		return nil

	case ast.ND_DEREF:
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		g.load(n.Ty)
		return nil

	case ast.ND_ADDR:
		return g.genAddr(n.Lhs)

	case ast.ND_ASSIGN:
		if err := g.genAddr(n.Lhs); err != nil {
			return err
		}
		g.push()
		if err := g.genExpr(n.Rhs); err != nil {
			return err
		}
		g.store(n.Ty)
		return nil

	case ast.ND_CAST:
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		g.cast(n.Lhs.Ty, n.Ty)
		return nil

	case ast.ND_COMMA:
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		return g.genExpr(n.Rhs)

	case ast.ND_COND:
		return g.genCond(n)

	case ast.ND_LOGAND:
		end := g.newLabel()
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		g.printf("  cmp $0, %%rax\n")
		g.printf("  je %s\n", end)
		if err := g.genExpr(n.Rhs); err != nil {
			return err
		}
		g.printf("  cmp $0, %%rax\n")
		g.printf("  je %s\n", end)
		g.printf("  mov $1, %%rax\n")
		g.printf("%s:\n", end)
		return nil

	case ast.ND_LOGOR:
		trueLabel := g.newLabel()
		doneLabel := g.newLabel()
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		g.printf("  cmp $0, %%rax\n")
		g.printf("  jne %s\n", trueLabel)
		if err := g.genExpr(n.Rhs); err != nil {
			return err
		}
		g.printf("  cmp $0, %%rax\n")
		g.printf("  jne %s\n", trueLabel)
		g.printf("  mov $0, %%rax\n")
		g.printf("  jmp %s\n", doneLabel)
		g.printf("%s:\n", trueLabel)
		g.printf("  mov $1, %%rax\n")
		g.printf("%s:\n", doneLabel)
		return nil

	case ast.ND_FUNCALL:
		return g.genFuncall(n)

	case ast.ND_STMT_EXPR:
		for _, s := range n.Body {
			if err := g.genStmt(s); err != nil {
				return err
			}
		}
		return nil
	}

	return g.genBinary(n)
}

func (g *Generator) genCond(n *ast.Node) error {
	elseLabel := g.newLabel()
	endLabel := g.newLabel()
	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	g.printf("  cmp $0, %%rax\n")
	g.printf("  je %s\n", elseLabel)
	if err := g.genExpr(n.Then); err != nil {
		return err
	}
	g.printf("  jmp %s\n", endLabel)
	g.printf("%s:\n", elseLabel)
	if err := g.genExpr(n.Els); err != nil {
		return err
	}
	g.printf("%s:\n", endLabel)
	return nil
}

// genFuncall evaluates each argument left-to-right onto the stack, then
// pops them back into the System V integer argument registers in
// reverse, per spec.md §4.4.
func (g *Generator) genFuncall(n *ast.Node) error {
	for _, a := range n.Args {
		if err := g.genExpr(a); err != nil {
			return err
		}
		g.push()
	}
	for i := len(n.Args) - 1; i >= 0; i-- {
		g.pop(argRegs8[i])
	}
	g.printf("  mov $0, %%al\n")
	g.printf("  call %s\n", n.FuncName)
	return nil
}

// genBinary handles the arithmetic/bitwise/shift/comparison operators,
// per spec.md §4.4: left operand pushed, right operand evaluated, left
// popped back, then the two combined via the two-operand AT&T form.
func (g *Generator) genBinary(n *ast.Node) error {
	if err := g.genExpr(n.Lhs); err != nil {
		return err
	}
	g.push()
	if err := g.genExpr(n.Rhs); err != nil {
		return err
	}
	g.printf("  mov %%rax, %%rdi\n")
	g.pop("%rax")

	wide := n.Ty != nil && n.Ty.Size == 8

	switch n.Kind {
	case ast.ND_ADD, ast.ND_SUB, ast.ND_BITAND, ast.ND_BITOR, ast.ND_BITXOR:
		g.printf("  %s %%rdi, %%rax\n", binaryMnemonic[n.Kind])
		return nil
	case ast.ND_MUL:
		g.printf("  imul %%rdi, %%rax\n")
		return nil
	case ast.ND_DIV, ast.ND_MOD:
		if wide {
			g.printf("  cqto\n")
			g.printf("  idiv %%rdi\n")
			if n.Kind == ast.ND_MOD {
				g.printf("  mov %%rdx, %%rax\n")
			}
		} else {
			g.printf("  cltd\n")
			g.printf("  idiv %%edi\n")
			if n.Kind == ast.ND_MOD {
				g.printf("  mov %%edx, %%eax\n")
			}
		}
		return nil
	case ast.ND_SHL:
		g.printf("  mov %%rdi, %%rcx\n")
		g.printf("  shl %%cl, %%rax\n")
		return nil
	case ast.ND_SHR:
		g.printf("  mov %%rdi, %%rcx\n")
		g.printf("  sar %%cl, %%rax\n")
		return nil
	case ast.ND_EQ, ast.ND_NE, ast.ND_LT, ast.ND_LE:
		g.printf("  cmp %%rdi, %%rax\n")
		switch n.Kind {
		case ast.ND_EQ:
			g.printf("  sete %%al\n")
		case ast.ND_NE:
			g.printf("  setne %%al\n")
		case ast.ND_LT:
			g.printf("  setl %%al\n")
		case ast.ND_LE:
			g.printf("  setle %%al\n")
		}
		g.printf("  movzbl %%al, %%eax\n")
		return nil
	}
	return fmt.Errorf("internal: unhandled expression node kind %v", n.Kind)
}
