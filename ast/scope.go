package ast

import "minicc/ctype"

// VarScope is one binding in the variable namespace: an object, a typedef
// name, or an enum constant. Exactly one of Var/Typedef/IsEnum's fields is
// meaningful for a given entry.
type VarScope struct {
	Name    string
	Var     *Obj
	Typedef *ctype.Type
	IsEnum  bool
	EnumTy  *ctype.Type
	EnumVal int64
}

// TagScope is one binding in the struct/union/enum tag namespace,
// independent of VarScope per spec.md §3's "tag and variable namespaces
// are independent" invariant.
type TagScope struct {
	Name string
	Ty   *ctype.Type
}

type scopeFrame struct {
	vars map[string]*VarScope
	tags map[string]*TagScope
}

// Scope is a stack of frames threaded explicitly through the parser's
// recursive descent, generalizing interpreter.Environment's single
// map-of-bindings (the teacher's scoping model for its dynamically typed
// language) into a chain of frames with two independent namespaces, per
// spec.md §3 and §9 ("fold into an explicit parser context value").
type Scope struct {
	frames []*scopeFrame
}

// New returns a Scope with a single, empty top-level frame.
func New() *Scope {
	s := &Scope{}
	s.Push()
	return s
}

// Push enters a new, empty scope frame, e.g. on entering a block or
// function body.
func (s *Scope) Push() {
	s.frames = append(s.frames, &scopeFrame{
		vars: make(map[string]*VarScope),
		tags: make(map[string]*TagScope),
	})
}

// Pop leaves the innermost scope frame, e.g. on exiting a block.
func (s *Scope) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Scope) top() *scopeFrame {
	return s.frames[len(s.frames)-1]
}

// DeclareVar binds name in the current (innermost) frame's variable
// namespace, shadowing any outer binding.
func (s *Scope) DeclareVar(name string, vs *VarScope) {
	s.top().vars[name] = vs
}

// DeclareTag binds name in the current frame's tag namespace. Per
// spec.md §4.2, redefining an existing tag in the SAME scope overwrites
// in place (the caller mutates the existing *ctype.Type rather than
// calling DeclareTag again) so prior forward references observe the
// completed type; DeclareTag itself is only used for a tag's first
// appearance in a frame.
func (s *Scope) DeclareTag(name string, ts *TagScope) {
	s.top().tags[name] = ts
}

// FindVar looks up name in the variable namespace, walking from the
// innermost frame outward.
func (s *Scope) FindVar(name string) *VarScope {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if vs, ok := s.frames[i].vars[name]; ok {
			return vs
		}
	}
	return nil
}

// FindVarInCurrentScope looks up name only in the innermost frame, used
// to detect redeclaration errors within the same block.
func (s *Scope) FindVarInCurrentScope(name string) *VarScope {
	return s.top().vars[name]
}

// FindTag looks up name in the tag namespace, walking from the innermost
// frame outward.
func (s *Scope) FindTag(name string) *TagScope {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if ts, ok := s.frames[i].tags[name]; ok {
			return ts
		}
	}
	return nil
}

// FindTagInCurrentScope looks up name only in the innermost frame, used
// to decide whether a struct/union/enum declaration is a redefinition
// (overwrite in place) or a new tag in an outer scope (shadow).
func (s *Scope) FindTagInCurrentScope(name string) *TagScope {
	return s.top().tags[name]
}
