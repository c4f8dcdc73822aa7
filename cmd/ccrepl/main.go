// Command ccrepl is an interactive debug tool: input lines accumulate
// until a blank line, then the whole block is run through the full
// lex/parse/codegen pipeline and its assembly echoed back, per spec.md §6's ambient
// debug-REPL surface.
//
// Grounded on cmd_repl_compiled.go's buffered-accumulate-until-ready
// input loop, swapping its bufio.Scanner for github.com/chzyer/readline
// (declared in the teacher's go.mod but never actually wired into any
// teacher command) so history and line-editing come for free.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"minicc/codegen"
	"minicc/lexer"
	"minicc/parser"
)

func main() {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     "/tmp/.ccrepl_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Println("cc debug REPL — enter a C translation unit, blank line to compile")
	var buf strings.Builder

	for {
		if buf.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buf.Reset()
			continue
		}
		if err == io.EOF {
			return
		}
		if strings.TrimSpace(line) == "" && buf.Len() > 0 {
			runOne(buf.String())
			buf.Reset()
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)
	}
}

func runOne(src string) {
	toks, err := lexer.New("<repl>", []byte(src)).Scan()
	if err != nil {
		fmt.Println(err)
		return
	}
	prog, err := parser.New("<repl>", src, toks).Parse()
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := codegen.Gen(os.Stdout, "<repl>", prog); err != nil {
		fmt.Println(err)
	}
}
