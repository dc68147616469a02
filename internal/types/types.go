// Package types is the Type AST shared by the binder, collector and
// unifier (spec §3.1). A single Type interface is implemented by one
// struct per variant; every variant supports substitution and free
// type variable collection the same way the teacher's typesystem
// package structures its Type interface.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface every type expression in fyg implements.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TypeVariable
}

// Subst maps a type variable name to its current replacement.
// It is the unifier's substitution store.
type Subst map[string]Type

// Compose returns the substitution equivalent to applying s first,
// then s2 (s2 ∘ s in the usual notation).
func (s Subst) Compose(s2 Subst) Subst {
	out := make(Subst, len(s)+len(s2))
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s {
		out[k] = v.Apply(s2)
	}
	return out
}

// NativeKind enumerates the built-in scalar kinds (spec §3.1).
type NativeKind string

const (
	KindString  NativeKind = "string"
	KindNumber  NativeKind = "number"
	KindBoolean NativeKind = "boolean"
	KindVoid    NativeKind = "void"
	KindArray   NativeKind = "array"
	KindObject  NativeKind = "object"
	KindUnknown NativeKind = "unknown"
)

// NativeType is a built-in scalar type.
type NativeType struct {
	Kind NativeKind
}

func (t NativeType) String() string                      { return string(t.Kind) }
func (t NativeType) Apply(Subst) Type                     { return t }
func (t NativeType) FreeTypeVariables() []TypeVariable    { return nil }

// LiteralType pins a type to a single literal value (e.g. the string "ok").
type LiteralType struct {
	Literal string
}

func (t LiteralType) String() string                   { return fmt.Sprintf("%q", t.Literal) }
func (t LiteralType) Apply(Subst) Type                  { return t }
func (t LiteralType) FreeTypeVariables() []TypeVariable { return nil }

// TypeVariable is an unsolved type — a slot in the substitution store.
type TypeVariable struct {
	Name string
}

func (t TypeVariable) String() string { return t.Name }

func (t TypeVariable) Apply(s Subst) Type {
	return resolveChain(t, s, map[string]bool{})
}

func resolveChain(t TypeVariable, s Subst, seen map[string]bool) Type {
	if seen[t.Name] {
		return t
	}
	repl, ok := s[t.Name]
	if !ok {
		return t
	}
	if tv, ok := repl.(TypeVariable); ok && tv.Name == t.Name {
		return t
	}
	seen[t.Name] = true
	if tv, ok := repl.(TypeVariable); ok {
		return resolveChain(tv, s, seen)
	}
	return repl.Apply(s)
}

func (t TypeVariable) FreeTypeVariables() []TypeVariable { return []TypeVariable{t} }

// Identifier is a named type reference awaiting resolution through the
// scope graph (spec calls this "Identifier" inside a type expression).
type Identifier struct {
	Name string
}

func (t Identifier) String() string                      { return t.Name }
func (t Identifier) Apply(Subst) Type                     { return t }
func (t Identifier) FreeTypeVariables() []TypeVariable    { return nil }

// TypeReference is a generic application of a named type to arguments.
type TypeReference struct {
	Base Type
	Args []Type
}

func (t TypeReference) String() string {
	if len(t.Args) == 0 {
		return t.Base.String()
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Base.String(), strings.Join(parts, ", "))
}

func (t TypeReference) Apply(s Subst) Type {
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Apply(s)
	}
	return TypeReference{Base: t.Base.Apply(s), Args: args}
}

func (t TypeReference) FreeTypeVariables() []TypeVariable {
	vars := t.Base.FreeTypeVariables()
	for _, a := range t.Args {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	return uniqueVars(vars)
}

// ParameterType is a single function parameter.
type ParameterType struct {
	Identifier string
	Annotation Type
	IsSpread   bool
}

func (t ParameterType) String() string {
	s := t.Identifier + ": " + t.Annotation.String()
	if t.IsSpread {
		s = "..." + s
	}
	return s
}

func (t ParameterType) Apply(s Subst) Type {
	return ParameterType{Identifier: t.Identifier, Annotation: t.Annotation.Apply(s), IsSpread: t.IsSpread}
}

func (t ParameterType) FreeTypeVariables() []TypeVariable {
	return t.Annotation.FreeTypeVariables()
}

// FunctionType is a function signature.
type FunctionType struct {
	Identifier string // optional stable name (spec §4.1 fn0, fn1, ...)
	Parameters []ParameterType
	ReturnType Type
}

func (t FunctionType) String() string {
	params := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.ReturnType.String())
}

func (t FunctionType) Apply(s Subst) Type {
	params := make([]ParameterType, len(t.Parameters))
	for i, p := range t.Parameters {
		params[i] = p.Apply(s).(ParameterType)
	}
	return FunctionType{Identifier: t.Identifier, Parameters: params, ReturnType: t.ReturnType.Apply(s)}
}

func (t FunctionType) FreeTypeVariables() []TypeVariable {
	vars := []TypeVariable{}
	for _, p := range t.Parameters {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueVars(vars)
}

// FunctionCallType is the shape of a call site.
type FunctionCallType struct {
	Callee     Type
	Arguments  []Type
	ReturnType Type
}

func (t FunctionCallType) String() string {
	args := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("call(%s)(%s) -> %s", t.Callee.String(), strings.Join(args, ", "), t.ReturnType.String())
}

func (t FunctionCallType) Apply(s Subst) Type {
	args := make([]Type, len(t.Arguments))
	for i, a := range t.Arguments {
		args[i] = a.Apply(s)
	}
	return FunctionCallType{Callee: t.Callee.Apply(s), Arguments: args, ReturnType: t.ReturnType.Apply(s)}
}

func (t FunctionCallType) FreeTypeVariables() []TypeVariable {
	vars := t.Callee.FreeTypeVariables()
	for _, a := range t.Arguments {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueVars(vars)
}

// ObjectProperty is one (name, value) entry of an ObjectType, kept in
// source-declaration order (spec §5 "object fields are ordered by
// source position").
type ObjectProperty struct {
	Name  string
	Value Type
}

// ObjectType is a record type: an ordered list of named properties.
type ObjectType struct {
	Identifier string // optional, for named record declarations
	Properties []ObjectProperty
}

func (t ObjectType) String() string {
	parts := make([]string, len(t.Properties))
	for i, p := range t.Properties {
		parts[i] = p.Name + ": " + p.Value.String()
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
}

func (t ObjectType) Apply(s Subst) Type {
	props := make([]ObjectProperty, len(t.Properties))
	for i, p := range t.Properties {
		props[i] = ObjectProperty{Name: p.Name, Value: p.Value.Apply(s)}
	}
	return ObjectType{Identifier: t.Identifier, Properties: props}
}

func (t ObjectType) FreeTypeVariables() []TypeVariable {
	vars := []TypeVariable{}
	for _, p := range t.Properties {
		vars = append(vars, p.Value.FreeTypeVariables()...)
	}
	return uniqueVars(vars)
}

// Field looks up a property by name, preserving declaration order.
func (t ObjectType) Field(name string) (Type, bool) {
	for _, p := range t.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// VariantType is a sum of alternative types.
type VariantType struct {
	Alternatives []Type
}

func (t VariantType) String() string {
	parts := make([]string, len(t.Alternatives))
	for i, a := range t.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

func (t VariantType) Apply(s Subst) Type {
	alts := make([]Type, len(t.Alternatives))
	for i, a := range t.Alternatives {
		alts[i] = a.Apply(s)
	}
	return VariantType{Alternatives: alts}
}

func (t VariantType) FreeTypeVariables() []TypeVariable {
	vars := []TypeVariable{}
	for _, a := range t.Alternatives {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	return uniqueVars(vars)
}

// EnumMemberType is one constructor of an enum declaration.
type EnumMemberType struct {
	Identifier     string
	TypeParameters []Type
}

func (t EnumMemberType) String() string { return t.Identifier }
func (t EnumMemberType) Apply(s Subst) Type {
	params := make([]Type, len(t.TypeParameters))
	for i, p := range t.TypeParameters {
		params[i] = p.Apply(s)
	}
	return EnumMemberType{Identifier: t.Identifier, TypeParameters: params}
}

func (t EnumMemberType) FreeTypeVariables() []TypeVariable {
	vars := []TypeVariable{}
	for _, p := range t.TypeParameters {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	return uniqueVars(vars)
}

// EnumType is a named ADT declaration. Enum identity for unification
// purposes (spec §4.3 rule 5/6) is pointer identity of the *EnumType
// installed by the binder — two structurally identical enums declared
// separately are NOT the same enum.
type EnumType struct {
	Identifier     string
	TypeParameters []string
	Members        []EnumMemberType
}

func (t *EnumType) String() string { return t.Identifier }
func (t *EnumType) Apply(s Subst) Type {
	// Enum declarations are nominal; substituting inside them would
	// change their identity, so Apply is the identity function. Type
	// parameters are only ever resolved per call-site via EnumCallType.
	return t
}
func (t *EnumType) FreeTypeVariables() []TypeVariable { return nil }

// Member looks up a member by name.
func (t *EnumType) Member(name string) (EnumMemberType, bool) {
	for _, m := range t.Members {
		if m.Identifier == name {
			return m, true
		}
	}
	return EnumMemberType{}, false
}

// MemberIndex returns the declaration index of a member, or -1.
func (t *EnumType) MemberIndex(name string) int {
	for i, m := range t.Members {
		if m.Identifier == name {
			return i
		}
	}
	return -1
}

// EnumCallType is the type of a value constructed by applying an enum
// variant to arguments.
type EnumCallType struct {
	Enum      *EnumType
	Member    string
	Arguments []Type
}

func (t EnumCallType) String() string {
	args := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		args[i] = a.String()
	}
	name := "<enum>"
	if t.Enum != nil {
		name = t.Enum.Identifier
	}
	return fmt.Sprintf("%s.%s(%s)", name, t.Member, strings.Join(args, ", "))
}

func (t EnumCallType) Apply(s Subst) Type {
	args := make([]Type, len(t.Arguments))
	for i, a := range t.Arguments {
		args[i] = a.Apply(s)
	}
	return EnumCallType{Enum: t.Enum, Member: t.Member, Arguments: args}
}

func (t EnumCallType) FreeTypeVariables() []TypeVariable {
	vars := []TypeVariable{}
	for _, a := range t.Arguments {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	return uniqueVars(vars)
}

// EnumPattern is the match-pattern form naming a specific variant.
type EnumPattern struct {
	Enum   *EnumType
	Member string
}

func (t EnumPattern) String() string {
	name := "<enum>"
	if t.Enum != nil {
		name = t.Enum.Identifier
	}
	return fmt.Sprintf("%s.%s(_)", name, t.Member)
}
func (t EnumPattern) Apply(Subst) Type                     { return t }
func (t EnumPattern) FreeTypeVariables() []TypeVariable    { return nil }

// PatternType wraps a destructuring pattern and the binding it
// produces. Var starts life as a fresh TypeVariable but Apply may
// resolve it to a concrete type once the unifier binds it, so the
// field is Type rather than TypeVariable.
type PatternType struct {
	Pattern Type // an EnumPattern (today; see spec §9 open question (a))
	Var     Type
}

func (t PatternType) String() string { return fmt.Sprintf("%s as %s", t.Pattern, t.Var) }
func (t PatternType) Apply(s Subst) Type {
	return PatternType{Pattern: t.Pattern.Apply(s), Var: t.Var.Apply(s)}
}

func (t PatternType) FreeTypeVariables() []TypeVariable {
	return uniqueVars(append(t.Pattern.FreeTypeVariables(), t.Var.FreeTypeVariables()...))
}

func uniqueVars(vars []TypeVariable) []TypeVariable {
	seen := make(map[string]bool, len(vars))
	out := make([]TypeVariable, 0, len(vars))
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Native constructs the NativeType of the given kind (spec §3.1).
func Native(kind NativeKind) NativeType { return NativeType{Kind: kind} }
