// Package scope implements the scope graph (spec §3.2): the tree of
// lexical regions, each owning a value table and a type table, that
// the binder constructs and the collector/unifier read from. The
// structure mirrors the teacher's internal/symbols.SymbolTable (an
// outer-pointer chain) combined with the original Rust prototype's
// explicit parent/children bookkeeping (scope.rs's ScopeTree), adapted
// from a flat index-into-a-Vec design to Go's natural pointer tree —
// ownership flows exclusively parent-to-child (spec §3.2 "Ownership").
package scope

import "github.com/cobbweb/fyg-lang/internal/types"

// Kind distinguishes the lexical region a Scope represents, for
// diagnostics and for the "function parameter visibility" testable
// property (spec §8.4).
type Kind int

const (
	KindRoot Kind = iota
	KindProgram
	KindBlock
	KindFunction
	KindMatchClause
	KindEnum
	KindTypeDeclaration
	KindIfBranch
)

// ValueSymbol is a value (variable, constant, function, enum
// constructor) bound in some Scope.
type ValueSymbol struct {
	Name  string
	Type  types.Type
	Scope *Scope // weak, diagnostics-only back-reference (spec §3.2)
}

// TypeSymbol is a type bound in some Scope.
type TypeSymbol struct {
	Name  string
	Type  types.Type
	Scope *Scope
}

// Scope is one lexical region: a value table, a type table, a parent
// link, an ordered list of children, and the constraints generated
// within it (spec §3.2, §3.3).
type Scope struct {
	Kind   Kind
	Parent *Scope
	Children []*Scope

	values map[string]*ValueSymbol
	typs   map[string]*TypeSymbol

	Constraints []Constraint
}

// Constraint is a triple (left, right, scope, kind) per spec §3.3.
// Scope is implicit (the Scope this Constraint is stored on).
type Constraint struct {
	Left  types.Type
	Right types.Type
	Kind  ConstraintKind
}

// ConstraintKind enumerates Equality and Subset constraints (spec §3.3).
type ConstraintKind int

const (
	Equality ConstraintKind = iota
	Subset
)

func (k ConstraintKind) String() string {
	if k == Subset {
		return "⊆"
	}
	return "="
}

// NewRoot creates the root scope with the built-in native types
// pre-installed (spec §3.2 "The root scope is created with the
// built-in native types pre-installed").
func NewRoot() *Scope {
	root := &Scope{
		Kind:   KindRoot,
		values: make(map[string]*ValueSymbol),
		typs:   make(map[string]*TypeSymbol),
	}
	for _, name := range []string{"string", "number", "boolean"} {
		root.typs[name] = &TypeSymbol{Name: name, Type: types.Native(nativeKindFor(name)), Scope: root}
	}
	return root
}

func nativeKindFor(name string) types.NativeKind {
	switch name {
	case "string":
		return types.KindString
	case "number":
		return types.KindNumber
	case "boolean":
		return types.KindBoolean
	default:
		return types.KindUnknown
	}
}

// NewChild creates a new scope owned by parent.
func NewChild(parent *Scope, kind Kind) *Scope {
	child := &Scope{
		Kind:   kind,
		Parent: parent,
		values: make(map[string]*ValueSymbol),
		typs:   make(map[string]*TypeSymbol),
	}
	parent.Children = append(parent.Children, child)
	return child
}

// RedeclarationError reports that a name was already bound in this
// scope or an ancestor (spec §7 "Redeclaration").
type RedeclarationError struct {
	Name string
	Kind string // "value" or "type"
}

func (e *RedeclarationError) Error() string {
	return "cannot redeclare " + e.Kind + " symbol: " + e.Name
}

// DefineValue installs a value symbol, failing if the name is already
// bound in this scope OR any ancestor scope (spec §3.2 "Symbols
// shadowing a parent's symbol... are also an error").
func (s *Scope) DefineValue(name string, t types.Type) (*ValueSymbol, error) {
	if _, found := s.FindValue(name); found {
		return nil, &RedeclarationError{Name: name, Kind: "value"}
	}
	sym := &ValueSymbol{Name: name, Type: t, Scope: s}
	s.values[name] = sym
	return sym, nil
}

// DefineType installs a type symbol under the same redeclaration rule.
func (s *Scope) DefineType(name string, t types.Type) (*TypeSymbol, error) {
	if _, found := s.FindType(name); found {
		return nil, &RedeclarationError{Name: name, Kind: "type"}
	}
	sym := &TypeSymbol{Name: name, Type: t, Scope: s}
	s.typs[name] = sym
	return sym, nil
}

// FindValue looks up a value symbol in this scope or any ancestor.
func (s *Scope) FindValue(name string) (*ValueSymbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.values[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// FindType looks up a type symbol in this scope or any ancestor.
func (s *Scope) FindType(name string) (*TypeSymbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.typs[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// FindValueLocal looks up a value symbol declared directly in this
// scope, without walking ancestors.
func (s *Scope) FindValueLocal(name string) (*ValueSymbol, bool) {
	sym, ok := s.values[name]
	return sym, ok
}

// FindTypeLocal is the type-table counterpart of FindValueLocal.
func (s *Scope) FindTypeLocal(name string) (*TypeSymbol, bool) {
	sym, ok := s.typs[name]
	return sym, ok
}

// UpdateValueType rewrites, in place, the type of a value symbol
// declared directly in this scope, reporting whether one was found.
func (s *Scope) UpdateValueType(name string, t types.Type) bool {
	if sym, ok := s.values[name]; ok {
		sym.Type = t
		return true
	}
	return false
}

// AllValues returns every value symbol declared directly in this
// scope (not ancestors), for iteration during the unifier's
// substitution pass (spec §4.3 "Substitution application").
func (s *Scope) AllValues() map[string]*ValueSymbol { return s.values }

// AllTypes returns every type symbol declared directly in this scope.
func (s *Scope) AllTypes() map[string]*TypeSymbol { return s.typs }

// PushConstraint appends a constraint to this scope's constraint list
// (spec §3.2, §5 "constraint processing order is the order of emission").
func (s *Scope) PushConstraint(left, right types.Type, kind ConstraintKind) {
	s.Constraints = append(s.Constraints, Constraint{Left: left, Right: right, Kind: kind})
}

// Walk visits this scope and every descendant, pre-order, exactly the
// traversal the unifier's two passes (constraint solving, then
// substitution application) both need.
func (s *Scope) Walk(visit func(*Scope)) {
	visit(s)
	for _, c := range s.Children {
		c.Walk(visit)
	}
}
