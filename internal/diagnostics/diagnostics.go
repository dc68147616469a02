// Package diagnostics defines the error taxonomy the binder, collector
// and unifier report through (spec §7). Errors are values, not panics:
// the binder and collector collect them onto a Bag and keep walking so
// one bad declaration doesn't hide the rest of the program's errors,
// the same posture as the teacher's internal/analyzer error set. The
// unifier stops at its first failure.
package diagnostics

import "fmt"

// Kind enumerates the error categories spec §7 lists, named to match
// the spec's taxonomy table exactly.
type Kind string

const (
	KindRedeclaration       Kind = "Redeclaration"
	KindMissingModule       Kind = "MissingModule"
	KindDuplicateEnumMember Kind = "DuplicateEnumMember"
	KindDuplicateTypeParam  Kind = "DuplicateTypeParameter"
	KindUnknownReference    Kind = "UnknownReference"
	KindTypeMismatch        Kind = "TypeMismatch"
	KindNotCallable         Kind = "NotCallable"
	KindUnknownEnumMember   Kind = "UnknownEnumMember"
	KindEnumMismatch        Kind = "EnumMismatch"
	KindCouldNotUnify       Kind = "CouldNotUnify"
)

// Error is one diagnostic raised during binding, collection or
// unification. Node is carried for position/context but is left
// nil-able: not every Kind has a natural node to point at (spec §7).
type Error struct {
	Kind    Kind
	Message string
	Node    any // the offending ast.Node, the *scope.Scope a unifier error arose in, or nil
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a diagnostic of the given kind with a formatted message.
func New(kind Kind, node any, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Node: node}
}

// Redeclaration reports a value or type name already bound in this
// scope or a parent scope.
func Redeclaration(node any, name string) *Error {
	return New(KindRedeclaration, node, "cannot redeclare %q", name)
}

// MissingModule reports a program with no module declaration.
func MissingModule(node any) *Error {
	return New(KindMissingModule, node, "program has no module declaration")
}

// DuplicateEnumMember reports a repeated member name in one enum.
func DuplicateEnumMember(node any, enum, member string) *Error {
	return New(KindDuplicateEnumMember, node, "enum %q declares member %q more than once", enum, member)
}

// DuplicateTypeParameter reports identical type-parameter names on one
// type or enum declaration.
func DuplicateTypeParameter(node any, owner, name string) *Error {
	return New(KindDuplicateTypeParam, node, "%q declares type parameter %q more than once", owner, name)
}

// UnknownReference reports an identifier lookup that failed in every
// enclosing scope.
func UnknownReference(node any, name string) *Error {
	return New(KindUnknownReference, node, "unknown reference %q", name)
}

// TypeMismatch reports two types that cannot unify.
func TypeMismatch(node any, left, right fmt.Stringer) *Error {
	return New(KindTypeMismatch, node, "cannot unify %s with %s", left.String(), right.String())
}

// NotCallable reports a call site whose callee resolves to a
// non-function, non-variable type.
func NotCallable(node any) *Error {
	return New(KindNotCallable, node, "expression is not callable")
}

// UnknownEnumMember reports a dot-call or pattern naming a member an
// enum does not declare.
func UnknownEnumMember(node any, enum, member string) *Error {
	return New(KindUnknownEnumMember, node, "enum %q has no member %q", enum, member)
}

// EnumMismatch reports unification of two enums of different identity.
func EnumMismatch(node any, left, right fmt.Stringer) *Error {
	return New(KindEnumMismatch, node, "enum %s is not enum %s", left.String(), right.String())
}

// CouldNotUnify reports a constraint no unification rule applies to.
func CouldNotUnify(node any, left, right fmt.Stringer) *Error {
	return New(KindCouldNotUnify, node, "could not unify %s with %s", left.String(), right.String())
}

// Bag accumulates diagnostics across a phase without interrupting the
// walk (spec §7 notwithstanding — propagation is fatal to the overall
// pipeline, but the binder and collector still finish their traversal
// so every independent error in that phase is visible at once; the
// unifier adds only its first failure).
type Bag struct {
	errors []*Error
}

// Add appends a diagnostic if it is non-nil.
func (b *Bag) Add(err *Error) {
	if err != nil {
		b.errors = append(b.errors, err)
	}
}

// Errors returns the accumulated diagnostics in emission order.
func (b *Bag) Errors() []*Error { return b.errors }

// Empty reports whether no diagnostics were collected.
func (b *Bag) Empty() bool { return len(b.errors) == 0 }

// First returns the first diagnostic added, or nil, matching spec §7
// "the first error is surfaced".
func (b *Bag) First() *Error {
	if len(b.errors) == 0 {
		return nil
	}
	return b.errors[0]
}
