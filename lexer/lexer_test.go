package lexer

import (
	"reflect"
	"testing"

	"minicc/token"
)

type tok struct {
	Kind token.Kind
	Text string
}

func scanKinds(t *testing.T, src string) []tok {
	t.Helper()
	toks, err := New("test.c", []byte(src)).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	got := make([]tok, len(toks))
	for i, tk := range toks {
		got[i] = tok{tk.Kind, tk.Text}
	}
	return got
}

func TestOperatorsSuccess(t *testing.T) {
	expected := []tok{
		{token.PUNCT, "=="}, {token.PUNCT, "/="},
		{token.PUNCT, "*"}, {token.PUNCT, "+"}, {token.PUNCT, ">"},
		{token.PUNCT, "-"}, {token.PUNCT, "<"}, {token.PUNCT, "!="},
		{token.PUNCT, "<="}, {token.PUNCT, ">="}, {token.PUNCT, "!"},
		{token.PUNCT, "!"}, {token.EOF, ""},
	}
	got := scanKinds(t, "==/=*+>-<!=<=>=!!")
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Scan() = %v, want %v", got, expected)
	}
}

func TestScanSuccess(t *testing.T) {
	expected := []tok{
		{token.PUNCT, "("}, {token.PUNCT, ")"}, {token.PUNCT, "{"}, {token.PUNCT, "}"},
		{token.PUNCT, "*"}, {token.PUNCT, "*"}, {token.PUNCT, ";"},
		{token.PUNCT, "+"}, {token.PUNCT, "!="}, {token.PUNCT, "<="}, {token.EOF, ""},
	}
	got := scanKinds(t, "(){}**;+!=<=")
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Scan() = %v, want %v", got, expected)
	}
}

func TestKeywordsReclassified(t *testing.T) {
	expected := []tok{
		{token.KEYWORD, "int"}, {token.IDENT, "main"}, {token.PUNCT, "("},
		{token.PUNCT, ")"}, {token.PUNCT, "{"}, {token.KEYWORD, "return"},
		{token.NUM, "42"}, {token.PUNCT, ";"}, {token.PUNCT, "}"}, {token.EOF, ""},
	}
	got := scanKinds(t, "int main(){return 42;}")
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Scan() = %v, want %v", got, expected)
	}
}

func TestNumericLiterals(t *testing.T) {
	toks, err := New("test.c", []byte("0x1F 0b101 017 42")).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	want := []int64{31, 5, 15, 42}
	if len(toks)-1 != len(want) {
		t.Fatalf("got %d tokens, want %d (+EOF)", len(toks)-1, len(want))
	}
	for i, w := range want {
		if toks[i].Val != w {
			t.Errorf("token %d = %d, want %d", i, toks[i].Val, w)
		}
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	toks, err := New("test.c", []byte(`"a\n\tb\x41\0"`)).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	if toks[0].Kind != token.STRING {
		t.Fatalf("got kind %v, want STRING", toks[0].Kind)
	}
	want := []byte{'a', '\n', '\t', 'b', 'A', 0, 0}
	if !reflect.DeepEqual(toks[0].Str, want) {
		t.Errorf("Str = %v, want %v", toks[0].Str, want)
	}
}

func TestUnterminatedStringIsFatal(t *testing.T) {
	if _, err := New("test.c", []byte(`"abc`)).Scan(); err == nil {
		t.Errorf("expected an error for an unterminated string literal")
	}
}

func TestUnknownCharacterIsFatal(t *testing.T) {
	if _, err := New("test.c", []byte("int x = `;")).Scan(); err == nil {
		t.Errorf("expected an error for an unknown character")
	}
}
