// Package unifier implements the third phase of the pipeline (spec
// §4.3): it processes the constraints the collector emitted, rewrites
// a global substitution store, and finishes with a post-pass that
// resolves every symbol's type to canonical form.
//
// Grounded on the teacher's internal/typesystem unify.go (the same
// resolve-then-dispatch-on-shape structure, bind-with-occurs-check),
// generalised from the teacher's row-polymorphic records and trait
// resolvers down to fyg's fixed rule list.
package unifier

import (
	"github.com/cobbweb/fyg-lang/internal/diagnostics"
	"github.com/cobbweb/fyg-lang/internal/scope"
	"github.com/cobbweb/fyg-lang/internal/types"
)

// Result is the solved substitution store plus any diagnostic raised
// while solving (spec §7: "the first error is surfaced").
type Result struct {
	Subst       types.Subst
	Diagnostics *diagnostics.Bag
}

type unifier struct {
	subst types.Subst
	diags *diagnostics.Bag
}

// Solve walks every scope under root, in pre-order, processing each
// scope's constraints in emission order (spec §5 "constraint
// processing order is the order of emission"), then runs the
// substitution-application post-pass over the whole tree.
//
// maxPasses bounds how many times the whole tree is re-walked; the
// fixed rule set converges in a single pass, so this only matters to
// an embedder that extends it with a rule needing more than one
// (internal/config.Limits.MaxConstraintPasses). Values below 1 are
// treated as 1. Passes stop early once a walk adds nothing to the
// substitution.
func Solve(root *scope.Scope, maxPasses int) *Result {
	if maxPasses < 1 {
		maxPasses = 1
	}
	u := &unifier{subst: types.Subst{}, diags: &diagnostics.Bag{}}

	for pass := 0; pass < maxPasses; pass++ {
		before := len(u.subst)
		root.Walk(func(s *scope.Scope) {
			if !u.diags.Empty() {
				return
			}
			for _, c := range s.Constraints {
				if err := u.unify(c.Left, c.Right, c.Kind, s); err != nil {
					u.diags.Add(err)
					return
				}
			}
		})
		if !u.diags.Empty() || len(u.subst) == before {
			break
		}
	}

	if u.diags.Empty() {
		applySubstitutions(root, u.subst)
	}
	return &Result{Subst: u.subst, Diagnostics: u.diags}
}

// resolve follows substitution chains and strips TypeReference
// wrappers (spec §4.3 "Type resolution").
func (u *unifier) resolve(t types.Type) types.Type {
	applied := t.Apply(u.subst)
	for {
		ref, ok := applied.(types.TypeReference)
		if !ok {
			return applied
		}
		applied = ref.Base.Apply(u.subst)
	}
}

func (u *unifier) unify(leftIn, rightIn types.Type, kind scope.ConstraintKind, ctx *scope.Scope) *diagnostics.Error {
	left := u.resolve(leftIn)
	right := u.resolve(rightIn)

	// Rule 1: variable on the left (or right).
	if lv, ok := left.(types.TypeVariable); ok {
		return u.bind(lv, right, ctx)
	}
	if rv, ok := right.(types.TypeVariable); ok {
		return u.bind(rv, left, ctx)
	}

	// Rule 2: NativeType = NativeType.
	if ln, ok := left.(types.NativeType); ok {
		if rn, ok := right.(types.NativeType); ok {
			if ln.Kind == rn.Kind {
				return nil
			}
			return diagnostics.TypeMismatch(ctx, ln, rn)
		}
	}

	// Rule 3: FunctionType = FunctionType.
	if lf, ok := left.(types.FunctionType); ok {
		if rf, ok := right.(types.FunctionType); ok {
			return u.unifyFunctions(lf, rf, ctx)
		}
	}

	// Rule 4: FunctionCallType ~ FunctionType, either direction.
	if lc, ok := left.(types.FunctionCallType); ok {
		if rf, ok := right.(types.FunctionType); ok {
			return u.unifyCallAgainstFunction(lc, rf, ctx)
		}
	}
	if rc, ok := right.(types.FunctionCallType); ok {
		if lf, ok := left.(types.FunctionType); ok {
			return u.unifyCallAgainstFunction(rc, lf, ctx)
		}
	}

	// Rule 5: EnumType ~ EnumCallType — enum identity must match.
	if le, ok := left.(*types.EnumType); ok {
		if rc, ok := right.(types.EnumCallType); ok {
			if le != rc.Enum {
				return diagnostics.EnumMismatch(ctx, le, rc)
			}
			return nil
		}
	}
	if re, ok := right.(*types.EnumType); ok {
		if lc, ok := left.(types.EnumCallType); ok {
			if re != lc.Enum {
				return diagnostics.EnumMismatch(ctx, lc, re)
			}
			return nil
		}
	}

	// Rule 6: EnumType = EnumType, EnumCallType = EnumCallType.
	if le, ok := left.(*types.EnumType); ok {
		if re, ok := right.(*types.EnumType); ok {
			if le != re {
				return diagnostics.EnumMismatch(ctx, le, re)
			}
			return nil
		}
	}
	if lc, ok := left.(types.EnumCallType); ok {
		if rc, ok := right.(types.EnumCallType); ok {
			return u.unifyEnumCalls(lc, rc, ctx)
		}
	}

	// Rule 7: ObjectType = ObjectType, subset or equality.
	if lo, ok := left.(types.ObjectType); ok {
		if ro, ok := right.(types.ObjectType); ok {
			return u.unifyObjects(lo, ro, kind, ctx)
		}
	}

	// Rule 8: PatternType{EnumPattern, var} = EnumCallType, either side.
	if pt, ok := left.(types.PatternType); ok {
		if rc, ok := right.(types.EnumCallType); ok {
			return u.unifyPattern(pt, rc, ctx)
		}
	}
	if pt, ok := right.(types.PatternType); ok {
		if lc, ok := left.(types.EnumCallType); ok {
			return u.unifyPattern(pt, lc, ctx)
		}
	}

	// Rule 9: otherwise.
	return diagnostics.CouldNotUnify(ctx, left, right)
}

func (u *unifier) bind(v types.TypeVariable, t types.Type, ctx *scope.Scope) *diagnostics.Error {
	if tv, ok := t.(types.TypeVariable); ok && tv.Name == v.Name {
		return nil
	}
	for _, fv := range t.FreeTypeVariables() {
		if fv.Name == v.Name {
			return diagnostics.CouldNotUnify(ctx, v, t)
		}
	}
	u.subst[v.Name] = t
	return nil
}

func (u *unifier) unifyFunctions(lf, rf types.FunctionType, ctx *scope.Scope) *diagnostics.Error {
	if len(lf.Parameters) != len(rf.Parameters) {
		return diagnostics.TypeMismatch(ctx, lf, rf)
	}
	for i := range lf.Parameters {
		if err := u.unify(lf.Parameters[i].Annotation, rf.Parameters[i].Annotation, scope.Equality, ctx); err != nil {
			return err
		}
	}
	return u.unify(lf.ReturnType, rf.ReturnType, scope.Equality, ctx)
}

// unifyCallAgainstFunction encodes rule 4: a parameter whose annotation
// still resolves to a type variable is unified with its argument by
// equality, so the call binds it; a parameter with a resolved
// annotation is checked with the argument as a subset of it.
func (u *unifier) unifyCallAgainstFunction(call types.FunctionCallType, fn types.FunctionType, ctx *scope.Scope) *diagnostics.Error {
	if len(call.Arguments) != len(fn.Parameters) {
		return diagnostics.TypeMismatch(ctx, call, fn)
	}
	for i, param := range fn.Parameters {
		resolved := u.resolve(param.Annotation)
		argKind := scope.Subset
		if _, unresolved := resolved.(types.TypeVariable); unresolved {
			argKind = scope.Equality
		}
		if err := u.unify(call.Arguments[i], resolved, argKind, ctx); err != nil {
			return err
		}
	}
	return u.unify(call.ReturnType, fn.ReturnType, scope.Equality, ctx)
}

func (u *unifier) unifyEnumCalls(lc, rc types.EnumCallType, ctx *scope.Scope) *diagnostics.Error {
	if lc.Enum != rc.Enum {
		return diagnostics.EnumMismatch(ctx, lc, rc)
	}
	if len(lc.Arguments) != len(rc.Arguments) {
		return diagnostics.TypeMismatch(ctx, lc, rc)
	}
	for i := range lc.Arguments {
		if err := u.unify(lc.Arguments[i], rc.Arguments[i], scope.Equality, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (u *unifier) unifyObjects(lo, ro types.ObjectType, kind scope.ConstraintKind, ctx *scope.Scope) *diagnostics.Error {
	for _, p := range lo.Properties {
		rv, ok := ro.Field(p.Name)
		if !ok {
			return diagnostics.TypeMismatch(ctx, lo, ro)
		}
		if err := u.unify(p.Value, rv, scope.Equality, ctx); err != nil {
			return err
		}
	}
	if kind == scope.Equality {
		for _, p := range ro.Properties {
			if _, ok := lo.Field(p.Name); !ok {
				return diagnostics.TypeMismatch(ctx, lo, ro)
			}
		}
	}
	return nil
}

// unifyPattern is rule 8. Per spec §9 open question (a), enum members
// with more than one parameter are not handled — this surfaces as
// CouldNotUnify rather than guessing which argument binds the pattern
// variable.
func (u *unifier) unifyPattern(pt types.PatternType, ec types.EnumCallType, ctx *scope.Scope) *diagnostics.Error {
	pat, ok := pt.Pattern.(types.EnumPattern)
	if !ok {
		return diagnostics.CouldNotUnify(ctx, pt, ec)
	}
	if pat.Enum != ec.Enum {
		return diagnostics.EnumMismatch(ctx, pat.Enum, ec.Enum)
	}
	member, ok := pat.Enum.Member(pat.Member)
	if !ok {
		return diagnostics.UnknownEnumMember(ctx, pat.Enum.Identifier, pat.Member)
	}
	if len(member.TypeParameters) != 1 {
		return diagnostics.CouldNotUnify(ctx, pt, ec)
	}
	name := ""
	if id, ok := member.TypeParameters[0].(types.Identifier); ok {
		name = id.Name
	}
	idx := -1
	for i, p := range pat.Enum.TypeParameters {
		if p == name {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(ec.Arguments) {
		return diagnostics.CouldNotUnify(ctx, pt, ec)
	}
	return u.unify(pt.Var, ec.Arguments[idx], scope.Equality, ctx)
}

// applySubstitutions is the post-pass (spec §4.3): every symbol's type
// is rewritten to canonical form by applying the solved substitution
// to it (TypeReference wrappers are kept). Running this twice is a
// no-op because Apply already follows every chain to its end, so a
// second application finds nothing left to replace (spec §8.5).
func applySubstitutions(root *scope.Scope, subst types.Subst) {
	root.Walk(func(s *scope.Scope) {
		for _, sym := range s.AllValues() {
			sym.Type = sym.Type.Apply(subst)
		}
		for _, sym := range s.AllTypes() {
			sym.Type = sym.Type.Apply(subst)
		}
	})
}
