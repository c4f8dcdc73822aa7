package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"minicc/lexer"
)

// tokensCmd dumps the raw token stream for a source file, the debug
// surface spec.md §5 carves out alongside the compiler proper.
type tokensCmd struct{}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "dump the lexer's token stream for a source file" }
func (*tokensCmd) Usage() string {
	return `tokens <file.c>:
  Print every token the lexer produces, one per line.
`
}
func (*tokensCmd) SetFlags(f *flag.FlagSet) {}

func (*tokensCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		return fatalf("usage: cc tokens <file.c>\n")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fatalf("reading %s: %v\n", args[0], err)
	}
	toks, err := lexer.New(args[0], src).Scan()
	if err != nil {
		return fatalf("%s\n", err)
	}
	for _, t := range toks {
		fmt.Printf("%4d:%-3d %s\n", t.Line, t.Column, t.String())
	}
	return subcommands.ExitSuccess
}
