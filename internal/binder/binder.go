// Package binder implements the first phase of the pipeline (spec
// §4.1): it walks the parsed AST once, builds the scope graph, and
// installs every declaration as a value or type symbol in the scope
// that owns it. No type inference happens here beyond allocating
// fresh type variables for anything left unannotated — that is the
// collector's job (internal/collector).
//
// Grounded on the teacher's internal/analyzer walker (a struct that
// accumulates errors while recursing node-by-node) and the original
// Rust prototype's ScopeTree construction in scope.rs.
package binder

import (
	"github.com/cobbweb/fyg-lang/internal/ast"
	"github.com/cobbweb/fyg-lang/internal/diagnostics"
	"github.com/cobbweb/fyg-lang/internal/scope"
	"github.com/cobbweb/fyg-lang/internal/types"
)

// Result is everything the binder produces: the scope graph, a side
// table mapping each scope-owning node to the scope it introduced
// (spec §3.4 "each node carries a scope back-pointer once bound" —
// kept out of the node itself to avoid an ast/scope import cycle, the
// same tradeoff the teacher resolves with Analyzer.TypeMap), and any
// diagnostics raised.
type Result struct {
	Root        *scope.Scope
	Program     *scope.Scope
	ScopeOf     map[ast.Node]*scope.Scope
	Diagnostics *diagnostics.Bag
}

// ScopeFor returns the scope a node introduced, if any.
func (r *Result) ScopeFor(n ast.Node) (*scope.Scope, bool) {
	s, ok := r.ScopeOf[n]
	return s, ok
}

type binder struct {
	counter *types.Counter
	scopeOf map[ast.Node]*scope.Scope
	diags   *diagnostics.Bag
}

// Bind constructs the scope graph for program, returning the
// accumulated scopes and any diagnostics. counter is owned by the
// caller's analysis.Pipeline (spec §9 "each compilation unit its own
// counter").
func Bind(program *ast.Program, counter *types.Counter) *Result {
	b := &binder{
		counter: counter,
		scopeOf: make(map[ast.Node]*scope.Scope),
		diags:   &diagnostics.Bag{},
	}
	root := scope.NewRoot()
	if program.Module == nil {
		b.diags.Add(diagnostics.MissingModule(program))
	}
	progScope := scope.NewChild(root, scope.KindProgram)
	b.scopeOf[program] = progScope
	for _, item := range program.Body {
		b.bindNode(item, progScope)
	}
	return &Result{Root: root, Program: progScope, ScopeOf: b.scopeOf, Diagnostics: b.diags}
}

func (b *binder) freshOrAnnotated(annotation ast.TypeExprNode, s *scope.Scope) types.Type {
	if annotation == nil {
		return b.counter.Anon()
	}
	return b.resolveTypeExpr(annotation, s)
}

// resolveTypeExpr turns surface type syntax into an internal/types.Type,
// looking names up through the scope chain (spec §3.1 "every Identifier
// appearing inside a type expression must resolve through the scope
// graph").
func (b *binder) resolveTypeExpr(e ast.TypeExprNode, s *scope.Scope) types.Type {
	switch n := e.(type) {
	case nil:
		return b.counter.Anon()
	case *ast.TypeIdentifier:
		sym, ok := s.FindType(n.Name)
		if !ok {
			b.diags.Add(diagnostics.UnknownReference(n, n.Name))
			return types.Native(types.KindUnknown)
		}
		if len(n.Args) == 0 {
			return sym.Type
		}
		args := make([]types.Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = b.resolveTypeExpr(a, s)
		}
		return types.TypeReference{Base: sym.Type, Args: args}
	case *ast.FunctionTypeExpr:
		params := make([]types.ParameterType, len(n.Parameters))
		for i, p := range n.Parameters {
			params[i] = types.ParameterType{Annotation: b.resolveTypeExpr(p, s)}
		}
		return types.FunctionType{Parameters: params, ReturnType: b.resolveTypeExpr(n.ReturnType, s)}
	case *ast.ObjectTypeExpr:
		props := make([]types.ObjectProperty, len(n.Properties))
		for i, p := range n.Properties {
			valueExpr, _ := p.Value.(ast.TypeExprNode)
			props[i] = types.ObjectProperty{Name: p.Name, Value: b.resolveTypeExpr(valueExpr, s)}
		}
		return types.ObjectType{Properties: props}
	default:
		return types.Native(types.KindUnknown)
	}
}

func (b *binder) bindNode(n ast.Node, s *scope.Scope) {
	switch node := n.(type) {
	case *ast.Block:
		b.bindBlock(node, s)
	case *ast.ConstDeclaration:
		b.bindConstDeclaration(node, s)
	case *ast.FunctionExpression:
		b.bindFunctionExpression(node, s)
	case *ast.IfElse:
		b.bindIfElse(node, s)
	case *ast.MatchExpression:
		b.bindMatchExpression(node, s)
	case *ast.EnumDeclaration:
		b.bindEnumDeclaration(node, s)
	case *ast.TypeDeclaration:
		b.bindTypeDeclaration(node, s)
	case *ast.BinaryOperation:
		b.bindNode(node.Left, s)
		b.bindNode(node.Right, s)
	case *ast.UnaryOperation:
		b.bindNode(node.Operand, s)
	case *ast.FunctionCall:
		b.bindNode(node.Callee, s)
		for _, arg := range node.Arguments {
			b.bindNode(arg, s)
		}
	case *ast.DotNotationCall:
		b.bindNode(node.Left, s)
	case *ast.IndexAccessCall:
		b.bindNode(node.Left, s)
		b.bindNode(node.Index, s)
	case *ast.EnumCall:
		for _, arg := range node.Arguments {
			b.bindNode(arg, s)
		}
	case *ast.TemplateLiteral:
		for _, span := range node.Spans {
			b.bindNode(span, s)
		}
	case *ast.ObjectLiteral:
		for _, prop := range node.Properties {
			b.bindNode(prop.Value, s)
		}
	case *ast.ArrayLiteral:
		for _, el := range node.Elements {
			b.bindNode(el, s)
		}
	case *ast.Identifier, *ast.PrimitiveValue, nil:
		// leaves; nothing to bind.
	}
}

func (b *binder) bindBlock(block *ast.Block, parent *scope.Scope) {
	s := scope.NewChild(parent, scope.KindBlock)
	b.scopeOf[block] = s
	for _, item := range block.Body {
		b.bindNode(item, s)
	}
}

func (b *binder) bindConstDeclaration(decl *ast.ConstDeclaration, s *scope.Scope) {
	if decl.Pattern != nil {
		b.bindPattern(decl.Pattern, s, map[string]bool{})
	} else {
		t := b.freshOrAnnotated(decl.Annotation, s)
		if _, err := s.DefineValue(decl.Identifier, t); err != nil {
			b.diags.Add(diagnostics.Redeclaration(decl, decl.Identifier))
		}
		if fe, ok := decl.Init.(*ast.FunctionExpression); ok && fe.Identifier == "" {
			fe.Identifier = decl.Identifier
		}
	}
	b.bindNode(decl.Init, s)
}

func (b *binder) bindFunctionExpression(fn *ast.FunctionExpression, parent *scope.Scope) {
	if fn.Identifier == "" {
		fn.Identifier = b.counter.Function()
	}
	body := scope.NewChild(parent, scope.KindFunction)
	b.scopeOf[fn] = body

	params := make([]types.ParameterType, len(fn.Parameters))
	for i, p := range fn.Parameters {
		t := b.freshOrAnnotated(p.Annotation, body)
		if _, err := body.DefineValue(p.Name, t); err != nil {
			b.diags.Add(diagnostics.Redeclaration(p, p.Name))
		}
		params[i] = types.ParameterType{Identifier: p.Name, Annotation: t}
	}
	returnType := b.freshOrAnnotated(fn.ReturnType, body)
	fnType := types.FunctionType{Identifier: fn.Identifier, Parameters: params, ReturnType: returnType}
	if _, err := parent.DefineType(fn.Identifier, fnType); err != nil {
		b.diags.Add(diagnostics.Redeclaration(fn, fn.Identifier))
	}

	if fn.Body != nil {
		b.bindNode(fn.Body, body)
	}
}

func (b *binder) bindIfElse(node *ast.IfElse, s *scope.Scope) {
	b.bindNode(node.Condition, s)
	if node.TrueBranch != nil {
		b.bindBlock(node.TrueBranch, s)
	}
	if node.FalseBranch != nil {
		b.bindBlock(node.FalseBranch, s)
	}
}

func (b *binder) bindMatchExpression(node *ast.MatchExpression, s *scope.Scope) {
	b.bindNode(node.Subject, s)
	for _, clause := range node.Clauses {
		clauseScope := scope.NewChild(s, scope.KindMatchClause)
		b.scopeOf[clause] = clauseScope
		b.bindPattern(clause.Pattern, clauseScope, map[string]bool{})
		b.bindNode(clause.Body, clauseScope)
	}
}

// bindPattern installs every identifier a pattern introduces, in the
// given scope, rejecting a name reused twice within the SAME pattern
// (spec §4.1 "Duplicate identifiers inside one pattern are an error").
func (b *binder) bindPattern(p ast.Pattern, s *scope.Scope, seen map[string]bool) {
	switch pat := p.(type) {
	case *ast.IdentifierPattern:
		b.definePatternName(pat, pat.Name, s, seen)
	case *ast.ArrayPattern:
		for _, el := range pat.Elements {
			b.bindPattern(el, s, seen)
		}
	case *ast.ObjectPattern:
		for _, field := range pat.Fields {
			binding := field.Binding
			if binding == nil {
				binding = &ast.IdentifierPattern{Name: field.Name}
			}
			b.bindPattern(binding, s, seen)
		}
	case *ast.EnumDestructurePattern:
		b.definePatternName(pat, pat.Binding, s, seen)
	}
}

func (b *binder) definePatternName(node ast.Node, name string, s *scope.Scope, seen map[string]bool) {
	if seen[name] {
		b.diags.Add(diagnostics.Redeclaration(node, name))
		return
	}
	seen[name] = true
	if _, err := s.DefineValue(name, b.counter.Anon()); err != nil {
		b.diags.Add(diagnostics.Redeclaration(node, name))
	}
}

func (b *binder) bindEnumDeclaration(decl *ast.EnumDeclaration, parent *scope.Scope) {
	seenMembers := map[string]bool{}
	for _, m := range decl.Members {
		if seenMembers[m.Identifier] {
			b.diags.Add(diagnostics.DuplicateEnumMember(decl, decl.Identifier, m.Identifier))
			continue
		}
		seenMembers[m.Identifier] = true
	}
	seenParams := map[string]bool{}
	for _, tp := range decl.TypeParameters {
		if seenParams[tp] {
			b.diags.Add(diagnostics.DuplicateTypeParameter(decl, decl.Identifier, tp))
			continue
		}
		seenParams[tp] = true
	}

	enumScope := scope.NewChild(parent, scope.KindEnum)
	b.scopeOf[decl] = enumScope
	for _, tp := range decl.TypeParameters {
		enumScope.DefineType(tp, types.Identifier{Name: tp})
	}

	enumType := &types.EnumType{Identifier: decl.Identifier, TypeParameters: decl.TypeParameters}
	members := make([]types.EnumMemberType, 0, len(decl.Members))
	for _, m := range decl.Members {
		tparams := make([]types.Type, len(m.TypeParameters))
		for i, name := range m.TypeParameters {
			sym, ok := enumScope.FindType(name)
			if !ok {
				b.diags.Add(diagnostics.UnknownReference(decl, name))
				tparams[i] = types.Native(types.KindUnknown)
				continue
			}
			tparams[i] = sym.Type
		}
		members = append(members, types.EnumMemberType{Identifier: m.Identifier, TypeParameters: tparams})
	}
	enumType.Members = members

	if _, err := parent.DefineType(decl.Identifier, enumType); err != nil {
		b.diags.Add(diagnostics.Redeclaration(decl, decl.Identifier))
	}
	if _, err := parent.DefineValue(decl.Identifier, enumType); err != nil {
		b.diags.Add(diagnostics.Redeclaration(decl, decl.Identifier))
	}
}

func (b *binder) bindTypeDeclaration(decl *ast.TypeDeclaration, parent *scope.Scope) {
	typeScope := scope.NewChild(parent, scope.KindTypeDeclaration)
	b.scopeOf[decl] = typeScope

	seenParams := map[string]bool{}
	for _, tp := range decl.TypeParameters {
		if seenParams[tp] {
			b.diags.Add(diagnostics.DuplicateTypeParameter(decl, decl.Identifier, tp))
			continue
		}
		seenParams[tp] = true
		typeScope.DefineType(tp, types.Identifier{Name: tp})
	}

	value := b.resolveTypeExpr(decl.Value, typeScope)
	if _, err := parent.DefineType(decl.Identifier, value); err != nil {
		b.diags.Add(diagnostics.Redeclaration(decl, decl.Identifier))
	}
}
