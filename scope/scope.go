// Package scope implements the lexically-scoped variable and mixin
// environment of §3.2/§4.3: a strictly tree-shaped stack of maps with an
// optional parent pointer, global-ascending writes, and value-cloned
// mixin retrieval. Grounded on original_source/src/variablescope.rs's
// ScopeImpl, generalized from the teacher's flat renderer.Stack (which
// used a single slice of frames rather than a parent-pointer tree) into
// the tree shape the reference evaluator and scenario G (`!global`)
// require.
package scope

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/titpetric/sassgo/value"
)

// Mixin is a mixin declaration bound by name; the evaluator core does not
// interpret its body (mixin/include machinery is an external collaborator
// per §1), but Scope still needs to store and clone it on retrieval.
type Mixin struct {
	Name   string
	Params []string
	Guard  value.Value // nil if unguarded
	Body   interface{} // opaque to the core; owned by the rule-level driver
}

// Clone returns a value copy of m, per §3.2's "mixins ... are
// value-cloned on retrieval".
func (m *Mixin) Clone() *Mixin {
	if m == nil {
		return nil
	}
	params := make([]string, len(m.Params))
	copy(params, m.Params)
	return &Mixin{Name: m.Name, Params: params, Guard: m.Guard, Body: m.Body}
}

// Function is a user-defined Sass function bound in a scope (the first of
// the two callable sources consulted by §4.5).
type Function struct {
	Name   string
	Params []string
	Body   interface{}
}

// Scope is one frame of the lexical environment. A nil parent marks the
// root.
type Scope struct {
	parent    *Scope
	variables map[string]value.Value
	mixins    map[string]*Mixin
	functions map[string]*Function
}

// New creates a root scope with no parent.
func New() *Scope {
	return &Scope{
		variables: make(map[string]value.Value),
		mixins:    make(map[string]*Mixin),
		functions: make(map[string]*Function),
	}
}

// Child creates a new scope whose parent is s; the child's lifetime is
// understood to be strictly shorter than s's, mirroring the exclusive
// borrow the reference implementation takes on construction.
func (s *Scope) Child() *Scope {
	return &Scope{
		parent:    s,
		variables: make(map[string]value.Value),
		mixins:    make(map[string]*Mixin),
		functions: make(map[string]*Function),
	}
}

// Root walks to the outermost ancestor.
func (s *Scope) Root() *Scope {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Get implements `get(name)`: lookup walking parents; missing is `Null`,
// never an error (§7: a missing variable is observable only through
// truthiness/define_default, not a failure).
func (s *Scope) Get(name string) value.Value {
	name = normalizeName(name)
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.variables[name]; ok {
			return v
		}
	}
	return value.TheNull
}

// Define implements `define(name, val, global)`: val is expected to
// already be evaluated in this scope's arithmetic context by the caller
// (the evaluator, per §4.4); Define only performs the insertion. When
// global is true the insertion ascends to the root scope instead of this
// one, which is the mechanism scenario G's `!global` relies on.
func (s *Scope) Define(name string, val value.Value, global bool) {
	name = normalizeName(name)
	target := s
	if global {
		target = s.Root()
	}
	target.variables[name] = val
}

// DefineDefault implements `define_default`: inserts only when the
// current resolution of name is Null.
func (s *Scope) DefineDefault(name string, val value.Value, global bool) {
	if _, ok := s.Get(name).(*value.Null); ok {
		s.Define(name, val, global)
	}
}

// DefineMixin implements `define_mixin(m)`: inserts into this scope only.
func (s *Scope) DefineMixin(m *Mixin) {
	s.mixins[normalizeName(m.Name)] = m
}

// GetMixin implements `get_mixin(name)`: lookup walking parents, cloned on
// return so callers may not mutate the stored declaration.
func (s *Scope) GetMixin(name string) (*Mixin, bool) {
	name = normalizeName(name)
	for sc := s; sc != nil; sc = sc.parent {
		if m, ok := sc.mixins[name]; ok {
			return m.Clone(), true
		}
	}
	return nil, false
}

// DefineFunction registers a user-defined function in this scope, the
// first of the two callable sources §4.5 requires the evaluator to
// consult.
func (s *Scope) DefineFunction(f *Function) {
	s.functions[normalizeName(f.Name)] = f
}

// GetFunction looks up a user-defined function by name, walking parents.
func (s *Scope) GetFunction(name string) (*Function, bool) {
	name = normalizeName(name)
	for sc := s; sc != nil; sc = sc.parent {
		if f, ok := sc.functions[name]; ok {
			return f, true
		}
	}
	return nil, false
}

func normalizeName(name string) string {
	return value.NormalizeName(name)
}

// Dump writes a human-readable trace of the scope chain to w, from this
// scope up to the root, using go-spew the way the teacher's evaluator
// package used it for expression-preprocessing diagnostics. Tests that
// assert on scope-tree shape after a simulated @include use this instead
// of reaching into the unexported maps directly.
func (s *Scope) Dump(w io.Writer) {
	depth := 0
	for sc := s; sc != nil; sc = sc.parent {
		fmt.Fprintf(w, "--- scope depth %d ---\n", depth)
		spew.Fdump(w, sc.variables)
		depth++
	}
}
