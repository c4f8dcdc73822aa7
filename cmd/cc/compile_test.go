package main

import (
	"strings"
	"testing"

	"minicc/codegen"
)

func TestCompilePipelineProducesFunctionObject(t *testing.T) {
	prog, err := compile("t.c", "int main() { return 0; }")
	if err != nil {
		t.Fatalf("compile() raised an error: %v", err)
	}
	found := false
	for _, o := range prog {
		if o.IsFunction && o.Name == "main" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a main function object in the parsed program")
	}
}

func TestCompileSyntaxErrorIsReported(t *testing.T) {
	if _, err := compile("t.c", "int main() { return }"); err == nil {
		t.Fatalf("expected a syntax error for a missing return value")
	}
}

func TestCompileThenGenProducesAssembly(t *testing.T) {
	prog, err := compile("t.c", "int main() { return 5; }")
	if err != nil {
		t.Fatalf("compile() raised an error: %v", err)
	}
	var sb strings.Builder
	if err := codegen.Gen(&sb, "t.c", prog); err != nil {
		t.Fatalf("Gen() raised an error: %v", err)
	}
	if !strings.Contains(sb.String(), "main:") {
		t.Fatalf("generated assembly missing main: label:\n%s", sb.String())
	}
}
