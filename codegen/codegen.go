// Package codegen walks the type-decorated AST and emits System V
// AMD64-conformant x86-64 assembly text in AT&T syntax, per spec.md §4.4.
// It is a stack-machine code generator: every expression leaves its value
// in %rax, and intermediate operands are pushed to and popped from the
// machine stack (the %rax/push-pop discipline spec.md names), tracked by
// an explicit depth counter checked to be zero after every top-level
// statement of a function body.
//
// Grounded on compiler/ast_compiler.go's shape: a struct holding all
// generation state with emit()-style helper methods, generalized from
// bytecode-instruction emission to plain fmt.Fprintf-to-io.Writer text
// emission (no assembler templating library exists anywhere in the
// example pack, so this part is necessarily stdlib; see DESIGN.md). The
// push/pop depth discipline itself echoes the dropped vm package's stack
// machine (vm.Run's operand stack), repurposed here from an interpreter's
// runtime stack to a compile-time bookkeeping device over real hardware
// registers.
package codegen

import (
	"fmt"
	"io"
	"minicc/ast"
	"minicc/ctype"
)

// argRegs8/4/1 are the System V AMD64 integer argument-passing registers,
// by operand width, per spec.md §4.4.
var (
	argRegs8 = []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}
	argRegs4 = []string{"%edi", "%esi", "%edx", "%ecx", "%r8d", "%r9d"}
	argRegs1 = []string{"%dil", "%sil", "%dl", "%cl", "%r8b", "%r9b"}
)

// Generator holds all mutable code generation state in one explicit
// value, the same style compiler.ASTCompiler threads its bytecode buffer
// and scope-depth counter through.
type Generator struct {
	w    io.Writer
	file string

	curFn *ast.Obj
	depth int

	labelCount int
}

// Gen emits a complete assembly translation unit for prog's top-level
// objects: a data section for every global with storage, then a text
// section for every function definition, per spec.md §4.4.
func Gen(w io.Writer, file string, prog []*ast.Obj) error {
	g := &Generator{w: w, file: file}

	for _, obj := range prog {
		if !obj.IsFunction {
			assignGlobalNothing(obj)
		}
	}
	for _, fn := range prog {
		if fn.IsFunction && fn.IsDefinition {
			assignLvarOffsets(fn)
		}
	}

	g.emitData(prog)
	for _, fn := range prog {
		if fn.IsFunction && fn.IsDefinition {
			if err := g.emitFunction(fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// assignGlobalNothing exists only to document that globals need no
// codegen-side layout pass beyond what the parser already computed
// (Ty.Size from ctype, InitData from the initializer fold); it is a
// deliberate no-op kept for symmetry with assignLvarOffsets.
func assignGlobalNothing(obj *ast.Obj) {}

// assignLvarOffsets assigns each local a negative %rbp-relative offset
// aligned to the local's own alignment, and records the function's total
// frame size rounded up to 16 bytes, per spec.md §4.4.
func assignLvarOffsets(fn *ast.Obj) {
	offset := 0
	for _, v := range fn.Locals {
		offset += v.Ty.Size
		offset = alignTo(offset, v.Ty.Align)
		v.Offset = -offset
	}
	fn.StackSize = alignTo(offset, 16)
}

func alignTo(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

func (g *Generator) printf(format string, args ...any) {
	fmt.Fprintf(g.w, format, args...)
}

func (g *Generator) push() {
	g.printf("  push %%rax\n")
	g.depth++
}

func (g *Generator) pop(reg string) {
	g.printf("  pop %s\n", reg)
	g.depth--
}

func (g *Generator) newLabel() string {
	g.labelCount++
	return fmt.Sprintf(".L.gen.%d", g.labelCount)
}

// emitData writes the data section: one entry per global with an
// initializer or non-function storage, per spec.md §4.4.
func (g *Generator) emitData(prog []*ast.Obj) {
	for _, v := range prog {
		if v.IsFunction {
			continue
		}
		g.printf("  .data\n")
		if !v.IsStatic {
			g.printf("  .globl %s\n", v.Name)
		}
		g.printf("%s:\n", v.Name)
		if v.HasInit {
			for _, b := range v.InitData {
				g.printf("  .byte %d\n", b)
			}
		} else {
			g.printf("  .zero %d\n", v.Ty.Size)
		}
	}
}

// emitFunction emits one function's prologue, body, and epilogue,
// spilling its register-passed parameters to their stack slots per the
// System V AMD64 calling convention, per spec.md §4.4.
func (g *Generator) emitFunction(fn *ast.Obj) error {
	g.curFn = fn
	g.printf("  .text\n")
	if !fn.IsStatic {
		g.printf("  .globl %s\n", fn.Name)
	}
	g.printf("%s:\n", fn.Name)

	g.printf("  push %%rbp\n")
	g.printf("  mov %%rsp, %%rbp\n")
	g.printf("  sub $%d, %%rsp\n", fn.StackSize)

	for i, p := range fn.Params {
		switch p.Ty.Size {
		case 1:
			g.printf("  mov %s, %d(%%rbp)\n", argRegs1[i], p.Offset)
		case 4:
			g.printf("  mov %s, %d(%%rbp)\n", argRegs4[i], p.Offset)
		default:
			g.printf("  mov %s, %d(%%rbp)\n", argRegs8[i], p.Offset)
		}
	}

	for _, s := range fn.Body {
		if err := g.genStmt(s); err != nil {
			return err
		}
		if g.depth != 0 {
			return fmt.Errorf("internal: unbalanced stack depth %d after statement in %s", g.depth, fn.Name)
		}
	}

	g.printf(".L.return.%s:\n", fn.Name)
	g.printf("  mov %%rbp, %%rsp\n")
	g.printf("  pop %%rbp\n")
	g.printf("  ret\n")
	return nil
}

// sizeSuffix returns the AT&T mnemonic suffix for a load/store of the
// given byte width.
func sizeSuffix(size int) string {
	switch size {
	case 1:
		return "b"
	case 2:
		return "w"
	case 4:
		return "l"
	default:
		return "q"
	}
}

func regForSize(size int) string {
	switch size {
	case 1:
		return "%al"
	case 2:
		return "%ax"
	case 4:
		return "%eax"
	default:
		return "%rax"
	}
}

// isFlatScalar reports whether ty is passed/loaded in a single register
// (everything except struct/union/array, which are handled by address
// only in this subset, per spec.md's Non-goals excluding pass-by-value
// aggregates beyond member access).
func isFlatScalar(ty *ctype.Type) bool {
	return ty.Kind != ctype.STRUCT && ty.Kind != ctype.UNION
}
