package cerr

import (
	"strings"
	"testing"
)

func TestErrorRendersFileLineAndMessage(t *testing.T) {
	err := New("t.c", 3, 5, "", "unexpected token %q", "}")
	got := err.Error()
	if !strings.HasPrefix(got, "t.c:3: error: unexpected token \"}\"") {
		t.Fatalf("Error() = %q, want it to start with the file:line:message header", got)
	}
}

func TestErrorRendersCaretUnderSourceColumn(t *testing.T) {
	src := "int main() {\n    retur 0;\n}\n"
	err := New("t.c", 2, 4, src, "unknown identifier %q", "retur")
	got := err.Error()
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("Error() = %q, want a 3-line rendering (header, source, caret)", got)
	}
	if lines[1] != "    retur 0;" {
		t.Fatalf("source line = %q, want the offending line verbatim", lines[1])
	}
	if lines[2] != "    ^" {
		t.Fatalf("caret line = %q, want 4 spaces then a caret", lines[2])
	}
}

func TestErrorWithoutSourceOmitsCaretLines(t *testing.T) {
	err := New("t.c", 1, 1, "", "internal failure")
	got := err.Error()
	if strings.Contains(got, "\n") {
		t.Fatalf("Error() without source should be a single line, got %q", got)
	}
}

func TestUnreachablePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("Unreachable should panic")
		}
	}()
	Unreachable("codegen", 42)
}
