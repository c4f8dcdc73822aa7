// Command cc is the batch compiler driver: it reads a C source file,
// runs it through the lexer, parser, and code generator, and writes the
// resulting x86-64 assembly text, per spec.md §5 ("file I/O and the CLI
// driver are the surrounding harness").
//
// Grounded on main.go/cmd_run.go's subcommands.Commander wiring style:
// a google/subcommands registry with one command struct per verb.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&compileCmd{}, "")
	subcommands.Register(&tokensCmd{}, "debug")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

func fatalf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format, args...)
	return subcommands.ExitFailure
}
