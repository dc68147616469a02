package binder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobbweb/fyg-lang/internal/ast"
	"github.com/cobbweb/fyg-lang/internal/binder"
	"github.com/cobbweb/fyg-lang/internal/diagnostics"
	"github.com/cobbweb/fyg-lang/internal/types"
)

func numberType() ast.TypeExprNode {
	return &ast.TypeIdentifier{Name: "number"}
}

func TestFunctionParameterVisibility(t *testing.T) {
	fn := &ast.FunctionExpression{
		Parameters: []*ast.Parameter{{Name: "factor", Annotation: numberType()}},
		Body:       &ast.Identifier{Name: "factor"},
	}
	decl := &ast.ConstDeclaration{Identifier: "calc", Init: fn}
	program := &ast.Program{
		Module: &ast.ModuleDeclaration{Name: "A.B"},
		Body:   []ast.Node{decl},
	}

	result := binder.Bind(program, types.NewCounter())
	require.True(t, result.Diagnostics.Empty())

	bodyScope, ok := result.ScopeFor(fn)
	require.True(t, ok)
	_, ok = bodyScope.FindValueLocal("factor")
	assert.True(t, ok, "parameter must be visible in the function body scope")

	_, ok = result.Program.FindValueLocal("factor")
	assert.False(t, ok, "parameter must not leak into the parent scope")
}

func TestRedeclarationInSameScopeFails(t *testing.T) {
	program := &ast.Program{
		Module: &ast.ModuleDeclaration{Name: "A.B"},
		Body: []ast.Node{
			&ast.ConstDeclaration{Identifier: "foo", Init: &ast.PrimitiveValue{Kind: ast.PrimitiveString, Value: "bar"}},
			&ast.ConstDeclaration{Identifier: "foo", Init: &ast.PrimitiveValue{Kind: ast.PrimitiveString, Value: "baz"}},
		},
	}

	result := binder.Bind(program, types.NewCounter())
	require.False(t, result.Diagnostics.Empty())
	assert.Equal(t, diagnostics.KindRedeclaration, result.Diagnostics.First().Kind)
}

func TestMissingModuleDeclaration(t *testing.T) {
	program := &ast.Program{Body: nil}
	result := binder.Bind(program, types.NewCounter())
	require.False(t, result.Diagnostics.Empty())
	assert.Equal(t, diagnostics.KindMissingModule, result.Diagnostics.First().Kind)
}

func TestIfElseBranchesAreIsolatedSiblingScopes(t *testing.T) {
	ifElse := &ast.IfElse{
		Condition: &ast.PrimitiveValue{Kind: ast.PrimitiveBoolean, Value: "true"},
		TrueBranch: &ast.Block{Body: []ast.Node{
			&ast.ConstDeclaration{Identifier: "onlyTrue", Init: &ast.PrimitiveValue{Kind: ast.PrimitiveNumber, Value: "1"}},
		}},
		FalseBranch: &ast.Block{Body: []ast.Node{
			&ast.ConstDeclaration{Identifier: "onlyFalse", Init: &ast.PrimitiveValue{Kind: ast.PrimitiveNumber, Value: "2"}},
		}},
	}
	program := &ast.Program{
		Module: &ast.ModuleDeclaration{Name: "A.B"},
		Body:   []ast.Node{ifElse},
	}

	result := binder.Bind(program, types.NewCounter())
	require.True(t, result.Diagnostics.Empty())

	trueScope, ok := result.ScopeFor(ifElse.TrueBranch)
	require.True(t, ok)
	falseScope, ok := result.ScopeFor(ifElse.FalseBranch)
	require.True(t, ok)

	_, ok = trueScope.FindValueLocal("onlyFalse")
	assert.False(t, ok)
	_, ok = falseScope.FindValueLocal("onlyTrue")
	assert.False(t, ok)
}

func TestDuplicateEnumMemberFails(t *testing.T) {
	decl := &ast.EnumDeclaration{
		Identifier: "Foo",
		Members: []*ast.EnumMember{
			{Identifier: "Bar"},
			{Identifier: "Bar"},
		},
	}
	program := &ast.Program{
		Module: &ast.ModuleDeclaration{Name: "A.B"},
		Body:   []ast.Node{decl},
	}

	result := binder.Bind(program, types.NewCounter())
	require.False(t, result.Diagnostics.Empty())
	assert.Equal(t, diagnostics.KindDuplicateEnumMember, result.Diagnostics.First().Kind)
}

func TestTypeDeclarationRedeclarationFails(t *testing.T) {
	program := &ast.Program{
		Module: &ast.ModuleDeclaration{Name: "A.B"},
		Body: []ast.Node{
			&ast.TypeDeclaration{Identifier: "Foo", Value: &ast.TypeIdentifier{Name: "string"}},
			&ast.TypeDeclaration{Identifier: "Foo", Value: &ast.TypeIdentifier{Name: "number"}},
		},
	}

	result := binder.Bind(program, types.NewCounter())
	require.False(t, result.Diagnostics.Empty())
	assert.Equal(t, diagnostics.KindRedeclaration, result.Diagnostics.First().Kind)
}
