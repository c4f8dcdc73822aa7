package ctype

import "testing"

func TestPointerToAndArrayOf(t *testing.T) {
	p := PointerTo(Int)
	if p.Kind != PTR || p.Size != 8 || p.Base != Int {
		t.Fatalf("PointerTo(Int) = %+v, want a size-8 PTR over Int", p)
	}

	a := ArrayOf(Int, 4)
	if a.Kind != ARRAY || a.Size != 16 || a.ArrayLen != 4 {
		t.Fatalf("ArrayOf(Int, 4) = %+v, want size 16, len 4", a)
	}

	incomplete := ArrayOf(Char, -1)
	if incomplete.ArrayLen != -1 || incomplete.Size != 0 {
		t.Fatalf("incomplete array should have ArrayLen -1 and Size 0, got %+v", incomplete)
	}
}

func TestIsPointerLikeAndScalar(t *testing.T) {
	if !PointerTo(Int).IsPointerLike() {
		t.Fatalf("pointer should be pointer-like")
	}
	if !ArrayOf(Int, 3).IsPointerLike() {
		t.Fatalf("array should be pointer-like")
	}
	if Int.IsPointerLike() {
		t.Fatalf("int should not be pointer-like")
	}
	if !Int.IsScalar() || !PointerTo(Int).IsScalar() {
		t.Fatalf("int and pointer should both be scalar")
	}
	if NewStruct().IsScalar() {
		t.Fatalf("struct should not be scalar")
	}
}

func TestLayoutStructAlignsAndSizesMembers(t *testing.T) {
	// struct { char a; int b; char c; };
	members := []*Member{
		{Ty: Char},
		{Ty: Int},
		{Ty: Char},
	}
	ty := NewStruct()
	LayoutStruct(ty, members)

	if members[0].Offset != 0 {
		t.Fatalf("a.Offset = %d, want 0", members[0].Offset)
	}
	if members[1].Offset != 4 {
		t.Fatalf("b.Offset = %d, want 4 (aligned up from 1)", members[1].Offset)
	}
	if members[2].Offset != 8 {
		t.Fatalf("c.Offset = %d, want 8", members[2].Offset)
	}
	if ty.Align != 4 {
		t.Fatalf("struct Align = %d, want 4", ty.Align)
	}
	if ty.Size != 12 {
		t.Fatalf("struct Size = %d, want 12 (9 rounded up to a multiple of 4)", ty.Size)
	}
	for _, m := range members {
		if m.Offset+m.Ty.Size > ty.Size {
			t.Fatalf("member %+v overruns struct size %d", m, ty.Size)
		}
	}
}

func TestLayoutUnionSharesOffsetZero(t *testing.T) {
	members := []*Member{
		{Ty: Char},
		{Ty: Long},
	}
	ty := NewUnion()
	LayoutUnion(ty, members)

	for _, m := range members {
		if m.Offset != 0 {
			t.Fatalf("union member offset = %d, want 0", m.Offset)
		}
	}
	if ty.Size != 8 || ty.Align != 8 {
		t.Fatalf("union Size/Align = %d/%d, want 8/8", ty.Size, ty.Align)
	}
}

func TestFindMember(t *testing.T) {
	members := []*Member{{Ty: Int}, {Ty: Char}}
	members[0].Name.Text = "x"
	members[1].Name.Text = "y"
	ty := NewStruct()
	LayoutStruct(ty, members)

	if m := FindMember(ty, "y"); m == nil || m.Ty != Char {
		t.Fatalf("FindMember(y) = %+v, want the char member", m)
	}
	if m := FindMember(ty, "z"); m != nil {
		t.Fatalf("FindMember(z) = %+v, want nil", m)
	}
}
