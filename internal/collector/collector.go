// Package collector implements the second phase of the pipeline (spec
// §4.2): it walks the already-bound AST, looks up each identifier in
// the scope graph the binder built, and emits type constraints that
// the unifier later solves. Every expression collects to a type;
// every statement collects to the native void type.
//
// Grounded on the teacher's internal/analyzer walker, generalised from
// its trait/generics-aware inference to fyg's simpler fixed operator
// and call regimes (spec §4.2).
package collector

import (
	"github.com/cobbweb/fyg-lang/internal/ast"
	"github.com/cobbweb/fyg-lang/internal/binder"
	"github.com/cobbweb/fyg-lang/internal/diagnostics"
	"github.com/cobbweb/fyg-lang/internal/scope"
	"github.com/cobbweb/fyg-lang/internal/types"
)

// Result is the type annotation this phase attaches to every node,
// plus any diagnostics raised while collecting.
type Result struct {
	TypeOf      map[ast.Node]types.Type
	Diagnostics *diagnostics.Bag
}

// TypeFor returns the type collected for a node, if any.
func (r *Result) TypeFor(n ast.Node) (types.Type, bool) {
	t, ok := r.TypeOf[n]
	return t, ok
}

type collector struct {
	bound   *binder.Result
	counter *types.Counter
	typeOf  map[ast.Node]types.Type
	diags   *diagnostics.Bag
}

// Collect walks program, which must already have been processed by
// binder.Bind using the same counter.
func Collect(program *ast.Program, bound *binder.Result, counter *types.Counter) *Result {
	c := &collector{
		bound:   bound,
		counter: counter,
		typeOf:  make(map[ast.Node]types.Type),
		diags:   &diagnostics.Bag{},
	}
	for _, item := range program.Body {
		c.collect(item, bound.Program)
	}
	return &Result{TypeOf: c.typeOf, Diagnostics: c.diags}
}

func (c *collector) record(n ast.Node, t types.Type) types.Type {
	c.typeOf[n] = t
	return t
}

func (c *collector) collectBlock(block *ast.Block, s *scope.Scope) types.Type {
	var last types.Type = types.Native(types.KindVoid)
	for _, item := range block.Body {
		last = c.collect(item, s)
	}
	return c.record(block, last)
}

func (c *collector) collect(n ast.Node, s *scope.Scope) types.Type {
	switch node := n.(type) {
	case nil:
		return types.Native(types.KindVoid)

	case *ast.Block:
		if childScope, ok := c.bound.ScopeFor(node); ok {
			return c.collectBlock(node, childScope)
		}
		return c.collectBlock(node, s)

	case *ast.PrimitiveValue:
		return c.record(node, c.collectPrimitive(node))

	case *ast.TemplateLiteral:
		for _, span := range node.Spans {
			spanType := c.collect(span, s)
			s.PushConstraint(spanType, types.Native(types.KindString), scope.Equality)
		}
		return c.record(node, types.Native(types.KindString))

	case *ast.Identifier:
		return c.record(node, c.collectIdentifier(node, s))

	case *ast.BinaryOperation:
		return c.record(node, c.collectBinary(node, s))

	case *ast.UnaryOperation:
		return c.record(node, c.collectUnary(node, s))

	case *ast.IfElse:
		return c.record(node, c.collectIfElse(node, s))

	case *ast.FunctionExpression:
		return c.record(node, c.collectFunctionExpression(node, s))

	case *ast.FunctionCall:
		return c.record(node, c.collectFunctionCall(node, s))

	case *ast.DotNotationCall:
		return c.record(node, c.collectDotNotationCall(node, s))

	case *ast.IndexAccessCall:
		c.collect(node.Left, s)
		c.collect(node.Index, s)
		return c.record(node, types.Native(types.KindUnknown))

	case *ast.EnumCall:
		return c.record(node, c.collectEnumCall(node, s))

	case *ast.MatchExpression:
		return c.record(node, c.collectMatch(node, s))

	case *ast.ObjectLiteral:
		return c.record(node, c.collectObjectLiteral(node, s))

	case *ast.ArrayLiteral:
		for _, el := range node.Elements {
			c.collect(el, s)
		}
		return c.record(node, types.Native(types.KindArray))

	case *ast.ConstDeclaration:
		c.collectConstDeclaration(node, s)
		return types.Native(types.KindVoid)

	case *ast.EnumDeclaration, *ast.TypeDeclaration, *ast.ModuleDeclaration:
		return types.Native(types.KindVoid)

	default:
		return types.Native(types.KindVoid)
	}
}

func (c *collector) collectPrimitive(p *ast.PrimitiveValue) types.Type {
	switch p.Kind {
	case ast.PrimitiveNumber:
		return types.Native(types.KindNumber)
	case ast.PrimitiveString:
		return types.Native(types.KindString)
	case ast.PrimitiveBoolean:
		return types.Native(types.KindBoolean)
	default:
		return types.Native(types.KindUnknown)
	}
}

func (c *collector) collectIdentifier(id *ast.Identifier, s *scope.Scope) types.Type {
	sym, ok := s.FindValue(id.Name)
	if !ok {
		c.diags.Add(diagnostics.UnknownReference(id, id.Name))
		return c.counter.Anon()
	}
	id.Resolved = sym
	return sym.Type
}

func (c *collector) collectBinary(b *ast.BinaryOperation, s *scope.Scope) types.Type {
	left := c.collect(b.Left, s)
	right := c.collect(b.Right, s)
	number := types.Native(types.KindNumber)
	boolean := types.Native(types.KindBoolean)

	switch b.Operator {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpPow:
		s.PushConstraint(left, right, scope.Equality)
		s.PushConstraint(left, number, scope.Equality)
		s.PushConstraint(right, number, scope.Equality)
		return number
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		s.PushConstraint(left, right, scope.Equality)
		s.PushConstraint(left, number, scope.Equality)
		s.PushConstraint(right, number, scope.Equality)
		return boolean
	case ast.OpAnd, ast.OpOr:
		s.PushConstraint(left, boolean, scope.Equality)
		s.PushConstraint(right, boolean, scope.Equality)
		return boolean
	case ast.OpEq, ast.OpNeq:
		s.PushConstraint(left, right, scope.Equality)
		return boolean
	default:
		return types.Native(types.KindUnknown)
	}
}

func (c *collector) collectUnary(u *ast.UnaryOperation, s *scope.Scope) types.Type {
	operand := c.collect(u.Operand, s)
	switch u.Operator {
	case ast.OpNegate:
		s.PushConstraint(operand, types.Native(types.KindNumber), scope.Equality)
		return types.Native(types.KindNumber)
	case ast.OpNot:
		s.PushConstraint(operand, types.Native(types.KindBoolean), scope.Equality)
		return types.Native(types.KindBoolean)
	default:
		return types.Native(types.KindUnknown)
	}
}

func (c *collector) collectIfElse(node *ast.IfElse, s *scope.Scope) types.Type {
	cond := c.collect(node.Condition, s)
	s.PushConstraint(cond, types.Native(types.KindBoolean), scope.Equality)

	var trueType types.Type = types.Native(types.KindVoid)
	if node.TrueBranch != nil {
		if branchScope, ok := c.bound.ScopeFor(node.TrueBranch); ok {
			trueType = c.collectBlock(node.TrueBranch, branchScope)
		}
	}
	if node.FalseBranch == nil {
		return trueType
	}
	falseScope, ok := c.bound.ScopeFor(node.FalseBranch)
	if !ok {
		return trueType
	}
	falseType := c.collectBlock(node.FalseBranch, falseScope)
	s.PushConstraint(trueType, falseType, scope.Equality)
	return trueType
}

func (c *collector) collectFunctionExpression(fn *ast.FunctionExpression, parent *scope.Scope) types.Type {
	sym, ok := parent.FindType(fn.Identifier)
	if !ok {
		// The binder always installs this type symbol; absence means the
		// node was collected without a prior Bind pass over the same tree.
		return c.counter.Anon()
	}
	fnType, ok := sym.Type.(types.FunctionType)
	if !ok {
		return sym.Type
	}

	bodyScope, _ := c.bound.ScopeFor(fn)
	var bodyType types.Type = types.Native(types.KindVoid)
	if fn.Body != nil && bodyScope != nil {
		bodyType = c.collect(fn.Body, bodyScope)
	}
	// Emitted in the function's parent scope: unifying the return type is
	// a parent-scope obligation (spec §4.2).
	parent.PushConstraint(bodyType, fnType.ReturnType, scope.Equality)
	return fnType
}

func (c *collector) collectFunctionCall(call *ast.FunctionCall, s *scope.Scope) types.Type {
	calleeType := c.collect(call.Callee, s)
	args := make([]types.Type, len(call.Arguments))
	for i, a := range call.Arguments {
		args[i] = c.collect(a, s)
	}

	if enumCall, ok := calleeType.(types.EnumCallType); ok {
		result := types.EnumCallType{Enum: enumCall.Enum, Member: enumCall.Member, Arguments: args}
		s.PushConstraint(calleeType, result, scope.Equality)
		return result
	}

	retVar := c.counter.Anon()

	switch calleeType.(type) {
	case types.FunctionType:
		callType := types.FunctionCallType{Callee: calleeType, Arguments: args, ReturnType: retVar}
		s.PushConstraint(calleeType, callType, scope.Equality)
	case types.TypeVariable:
		// Bind the unresolved callee to a fresh FunctionType shaped by this
		// call site, rather than a FunctionCallType whose own Callee field
		// would embed calleeType inside itself — that shape trips the
		// unifier's occurs check on an unresolved/polymorphic callee (e.g.
		// a higher-order parameter). Grounded on constraints.rs's
		// Expr::FunctionCall arm, which builds a fresh FunctionDefinition
		// from the argument types instead of folding the call back onto
		// the callee.
		params := make([]types.ParameterType, len(args))
		for i, a := range args {
			params[i] = types.ParameterType{Annotation: a}
		}
		fnShape := types.FunctionType{Parameters: params, ReturnType: retVar}
		s.PushConstraint(calleeType, fnShape, scope.Equality)
	default:
		c.diags.Add(diagnostics.NotCallable(call))
	}
	return retVar
}

func (c *collector) collectDotNotationCall(node *ast.DotNotationCall, s *scope.Scope) types.Type {
	left := c.collect(node.Left, s)

	switch lt := left.(type) {
	case *types.EnumType:
		return types.EnumCallType{Enum: lt, Member: node.Right, Arguments: nil}
	case types.ObjectType:
		if field, ok := lt.Field(node.Right); ok {
			return field
		}
		c.diags.Add(diagnostics.UnknownReference(node, node.Right))
		return types.Native(types.KindUnknown)
	case types.TypeVariable:
		fresh := c.counter.Anon()
		partial := types.ObjectType{Properties: []types.ObjectProperty{{Name: node.Right, Value: fresh}}}
		s.PushConstraint(left, partial, scope.Subset)
		return fresh
	default:
		c.diags.Add(diagnostics.UnknownReference(node, node.Right))
		return types.Native(types.KindUnknown)
	}
}

func (c *collector) collectEnumCall(node *ast.EnumCall, s *scope.Scope) types.Type {
	sym, ok := s.FindType(node.Enum)
	if !ok {
		c.diags.Add(diagnostics.UnknownReference(node, node.Enum))
		return types.Native(types.KindUnknown)
	}
	enumType, ok := sym.Type.(*types.EnumType)
	if !ok {
		c.diags.Add(diagnostics.UnknownReference(node, node.Enum))
		return types.Native(types.KindUnknown)
	}
	if _, ok := enumType.Member(node.Member); !ok {
		c.diags.Add(diagnostics.UnknownEnumMember(node, node.Enum, node.Member))
	}
	args := make([]types.Type, len(node.Arguments))
	for i, a := range node.Arguments {
		args[i] = c.collect(a, s)
	}
	return types.EnumCallType{Enum: enumType, Member: node.Member, Arguments: args}
}

func (c *collector) collectMatch(node *ast.MatchExpression, s *scope.Scope) types.Type {
	subject := c.collect(node.Subject, s)

	var firstBody types.Type = types.Native(types.KindVoid)
	for i, clause := range node.Clauses {
		clauseScope, ok := c.bound.ScopeFor(clause)
		if !ok {
			clauseScope = s
		}
		patType := c.collectPattern(clause.Pattern, clauseScope)
		if i == 0 {
			clauseScope.PushConstraint(patType, subject, scope.Equality)
		} else {
			clauseScope.PushConstraint(patType, subject, scope.Subset)
		}

		bodyType := c.collect(clause.Body, clauseScope)
		if i == 0 {
			firstBody = bodyType
		} else {
			clauseScope.PushConstraint(bodyType, firstBody, scope.Equality)
		}
	}
	return firstBody
}

// collectPattern collects a pattern's type using the same grammar as
// expressions (spec §4.2 "Pattern collection is identical to
// expression collection"). Array and object patterns are not given
// field-level structure here — fyg's match arms exercise the enum
// form almost exclusively, and the spec leaves destructuring-pattern
// typing otherwise unelaborated.
func (c *collector) collectPattern(p ast.Pattern, s *scope.Scope) types.Type {
	switch pat := p.(type) {
	case *ast.IdentifierPattern:
		sym, ok := s.FindValueLocal(pat.Name)
		if !ok {
			return c.counter.Anon()
		}
		return sym.Type
	case *ast.ArrayPattern:
		for _, el := range pat.Elements {
			c.collectPattern(el, s)
		}
		return types.Native(types.KindArray)
	case *ast.ObjectPattern:
		for _, field := range pat.Fields {
			binding := field.Binding
			if binding == nil {
				binding = &ast.IdentifierPattern{Name: field.Name}
			}
			c.collectPattern(binding, s)
		}
		return types.Native(types.KindObject)
	case *ast.EnumDestructurePattern:
		return c.collectEnumDestructure(pat, s)
	default:
		return types.Native(types.KindUnknown)
	}
}

func (c *collector) collectEnumDestructure(pat *ast.EnumDestructurePattern, s *scope.Scope) types.Type {
	sym, ok := s.FindType(pat.Enum)
	var enumType *types.EnumType
	if ok {
		enumType, _ = sym.Type.(*types.EnumType)
	}
	if enumType == nil {
		c.diags.Add(diagnostics.UnknownReference(pat, pat.Enum))
	} else if _, ok := enumType.Member(pat.Member); !ok {
		c.diags.Add(diagnostics.UnknownEnumMember(pat, pat.Enum, pat.Member))
	}

	bindingVar := c.counter.Anon()
	if sym, ok := s.FindValueLocal(pat.Binding); ok {
		if tv, ok := sym.Type.(types.TypeVariable); ok {
			bindingVar = tv
		}
	}
	return types.PatternType{Pattern: types.EnumPattern{Enum: enumType, Member: pat.Member}, Var: bindingVar}
}

func (c *collector) collectConstDeclaration(decl *ast.ConstDeclaration, s *scope.Scope) {
	initType := c.collect(decl.Init, s)

	if decl.Pattern != nil {
		patType := c.collectPattern(decl.Pattern, s)
		s.PushConstraint(patType, initType, scope.Equality)
		return
	}

	sym, ok := s.FindValueLocal(decl.Identifier)
	if !ok {
		return
	}
	s.PushConstraint(initType, sym.Type, scope.Equality)
}

func (c *collector) collectObjectLiteral(lit *ast.ObjectLiteral, s *scope.Scope) types.Type {
	props := make([]types.ObjectProperty, len(lit.Properties))
	for i, p := range lit.Properties {
		props[i] = types.ObjectProperty{Name: p.Name, Value: c.collect(p.Value, s)}
	}
	return types.ObjectType{Properties: props}
}
