package types

import "fmt"

// Counter generates globally-unique (within one compilation) type
// variable names. Per spec §9 ("an implementation should give each
// compilation unit its own counter so two concurrent compilations do
// not collide") this is a value owned by one analysis.Pipeline, never
// a package-level global — unlike the Rust prototype's
// ScopeTree.next_type_var field, which this mirrors structurally but
// scopes one level up to the whole pipeline instead of one ScopeTree.
type Counter struct {
	anon int
	fn   int
}

// NewCounter returns a fresh, zeroed Counter.
func NewCounter() *Counter { return &Counter{} }

// Anon allocates the next anonymous type variable name (prefix "t",
// spec §4.1).
func (c *Counter) Anon() TypeVariable {
	name := fmt.Sprintf("t%d", c.anon)
	c.anon++
	return TypeVariable{Name: name}
}

// Function allocates the next function-scoped identifier (prefix
// "fn", spec §4.1, used when a function expression has no binding
// name to borrow).
func (c *Counter) Function() string {
	name := fmt.Sprintf("fn%d", c.fn)
	c.fn++
	return name
}
