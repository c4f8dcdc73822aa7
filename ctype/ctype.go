// Package ctype implements the compiler's C type system: primitive
// singletons, pointer/array/function/struct/union construction, and the
// struct/union layout algorithm, per spec.md §3 and §4.2.
//
// There is no teacher analog for a static type system (Nilan is
// dynamically typed); this package is built directly against spec.md's
// invariants, following the rest of the codebase's naming and doc-comment
// conventions rather than any one example file. See DESIGN.md.
package ctype

import "minicc/token"

// Kind tags the shape of a Type.
type Kind int

const (
	VOID Kind = iota
	BOOL
	CHAR
	SHORT
	INT
	LONG
	ENUM
	PTR
	FUNC
	ARRAY
	STRUCT
	UNION
)

// Member is one field of a struct or union type: its name, its type, and
// its byte offset within the enclosing aggregate.
type Member struct {
	Name   token.Token
	Ty     *Type
	Offset int
}

// Type describes a C type. Size is zero for an incomplete type (an
// incomplete array still carries its element's Align). Base is set for PTR and ARRAY; Return/Params for FUNC;
// Members for STRUCT/UNION. ArrayLen is -1 for an incomplete array.
type Type struct {
	Kind     Kind
	Size     int
	Align    int
	Base     *Type
	ArrayLen int
	Members  []*Member
	Return   *Type
	Params   []*Type
	Name     *token.Token // the declarator-name token, if any
}

// Primitive singletons. Never mutated after package init; interning these
// avoids allocating a fresh *Type for every occurrence of "int" in a
// translation unit.
var (
	Void = &Type{Kind: VOID, Size: 1, Align: 1}
	Bool = &Type{Kind: BOOL, Size: 1, Align: 1}
	Char = &Type{Kind: CHAR, Size: 1, Align: 1}
	Short = &Type{Kind: SHORT, Size: 2, Align: 2}
	Int  = &Type{Kind: INT, Size: 4, Align: 4}
	Long = &Type{Kind: LONG, Size: 8, Align: 8}
)

// IsInteger reports whether ty is one of the integer kinds (enums behave
// as int at the layout level, per spec.md §4.2 "Enums").
func (ty *Type) IsInteger() bool {
	switch ty.Kind {
	case BOOL, CHAR, SHORT, INT, LONG, ENUM:
		return true
	}
	return false
}

// IsPointerLike reports whether ty decays to or already is an address:
// pointers and arrays both scale arithmetic by Base's size.
func (ty *Type) IsPointerLike() bool {
	return ty.Kind == PTR || ty.Kind == ARRAY
}

// IsScalar reports whether ty can hold a single value in a register.
func (ty *Type) IsScalar() bool {
	return ty.IsInteger() || ty.Kind == PTR
}

// PointerTo returns a new pointer type with base as its pointee.
func PointerTo(base *Type) *Type {
	return &Type{Kind: PTR, Size: 8, Align: 8, Base: base}
}

// ArrayOf returns a new array type of len elements of base, or an
// incomplete array when len is -1 (spec.md §3 "array length (−1 encodes
// incomplete)").
func ArrayOf(base *Type, length int) *Type {
	t := &Type{Kind: ARRAY, Base: base, ArrayLen: length}
	if length >= 0 {
		t.Size = base.Size * length
	}
	t.Align = base.Align
	return t
}

// FuncType returns a new function type with the given return type and
// ordered parameter types.
func FuncType(ret *Type, params []*Type) *Type {
	return &Type{Kind: FUNC, Return: ret, Params: params}
}

// NewStruct returns a new, incomplete struct type with no members yet.
func NewStruct() *Type {
	return &Type{Kind: STRUCT}
}

// NewUnion returns a new, incomplete union type with no members yet.
func NewUnion() *Type {
	return &Type{Kind: UNION}
}

// EnumType returns the int-compatible type used for enum tags; enum
// constants and enum-typed expressions behave exactly like int at the
// layout and codegen levels, per spec.md §4.2.
func EnumType() *Type {
	return &Type{Kind: ENUM, Size: 4, Align: 4}
}

// align rounds n up to the next multiple of a (a must be a power of two).
func align(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}

// LayoutStruct assigns aligned, monotonically non-decreasing offsets to
// each member in order and sets the struct's own Size/Align, per spec.md
// §4.2 "Struct/union" and the testable property in §8: for every member
// m_i, offset(m_i)+size(m_i) <= size(T), and size(T) is a multiple of
// align(T).
func LayoutStruct(ty *Type, members []*Member) {
	offset := 0
	maxAlign := 1
	for _, m := range members {
		offset = align(offset, m.Ty.Align)
		m.Offset = offset
		offset += m.Ty.Size
		if m.Ty.Align > maxAlign {
			maxAlign = m.Ty.Align
		}
	}
	ty.Members = members
	ty.Align = maxAlign
	ty.Size = align(offset, maxAlign)
}

// LayoutUnion sets every member's offset to zero and the union's size to
// the largest member's size, rounded up to the union's alignment, per
// spec.md §4.2.
func LayoutUnion(ty *Type, members []*Member) {
	size := 0
	maxAlign := 1
	for _, m := range members {
		m.Offset = 0
		if m.Ty.Size > size {
			size = m.Ty.Size
		}
		if m.Ty.Align > maxAlign {
			maxAlign = m.Ty.Align
		}
	}
	ty.Members = members
	ty.Align = maxAlign
	ty.Size = align(size, maxAlign)
}

// FindMember returns the member named name, or nil if ty has none (ty must
// be STRUCT or UNION).
func FindMember(ty *Type, name string) *Member {
	for _, m := range ty.Members {
		if m.Name.Text == name {
			return m
		}
	}
	return nil
}
