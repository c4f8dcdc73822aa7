package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"minicc/ast"
	"minicc/codegen"
	"minicc/lexer"
	"minicc/parser"
)

// compileCmd translates one C source file to x86-64 AT&T assembly text,
// the driver's one required operation per spec.md §1.
type compileCmd struct {
	out string
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "translate a C source file to x86-64 assembly" }
func (*compileCmd) Usage() string {
	return `compile [-o out.s] <file.c>:
  Translate a C source file to AT&T-syntax x86-64 assembly text.
`
}

func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "output path (default: stdout)")
}

func (c *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		return fatalf("usage: cc compile [-o out.s] <file.c>\n")
	}
	path := args[0]

	src, err := os.ReadFile(path)
	if err != nil {
		return fatalf("reading %s: %v\n", path, err)
	}

	prog, err := compile(path, string(src))
	if err != nil {
		return fatalf("%s\n", err)
	}

	out := os.Stdout
	if c.out != "" {
		f, err := os.Create(c.out)
		if err != nil {
			return fatalf("creating %s: %v\n", c.out, err)
		}
		defer f.Close()
		out = f
	}

	if err := codegen.Gen(out, path, prog); err != nil {
		return fatalf("%s\n", err)
	}
	return subcommands.ExitSuccess
}

// compile runs the lex → parse pipeline (the type-decoration pass is
// invoked inline by the parser as it builds each expression, per
// spec.md §4.3), returning the program's top-level objects ready for
// code generation.
func compile(file, src string) ([]*ast.Obj, error) {
	toks, err := lexer.New(file, []byte(src)).Scan()
	if err != nil {
		return nil, err
	}
	return parser.New(file, src, toks).Parse()
}
