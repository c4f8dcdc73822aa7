package ast

import "minicc/ctype"

// Obj is either a variable or a function object, distinguished by
// IsFunction, per spec.md §3. The parser appends every object it creates
// onto the enclosing function's locals or the parser's globals slice;
// both are append-only for the duration of parsing, Go-izing spec.md's
// "linked via a singly linked list per scope class" into idiomatic slices
// while keeping the same append-only lifetime.
type Obj struct {
	Name string
	Ty   *ctype.Type

	IsFunction bool
	IsLocal    bool
	IsStatic   bool

	// Locals: byte offset from %rbp, assigned by codegen's
	// assignLvarOffsets pass (negative, per spec.md §4.4).
	Offset int

	// Globals: optional initializer bytes. A zero-length InitData with
	// HasInit false means the object is emitted with .zero.
	InitData []byte
	HasInit  bool

	// Functions.
	IsDefinition bool
	Params       []*Obj
	Locals       []*Obj
	Body         []*Node
	StackSize    int
}
