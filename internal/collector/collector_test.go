package collector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobbweb/fyg-lang/internal/ast"
	"github.com/cobbweb/fyg-lang/internal/binder"
	"github.com/cobbweb/fyg-lang/internal/collector"
	"github.com/cobbweb/fyg-lang/internal/diagnostics"
	"github.com/cobbweb/fyg-lang/internal/scope"
	"github.com/cobbweb/fyg-lang/internal/types"
)

func bindAndCollect(t *testing.T, program *ast.Program) (*binder.Result, *collector.Result) {
	t.Helper()
	counter := types.NewCounter()
	bound := binder.Bind(program, counter)
	require.True(t, bound.Diagnostics.Empty(), "unexpected bind errors: %v", bound.Diagnostics.Errors())
	collected := collector.Collect(program, bound, counter)
	return bound, collected
}

func TestArithmeticConstrainsOperandsToNumber(t *testing.T) {
	left := &ast.PrimitiveValue{Kind: ast.PrimitiveNumber, Value: "1"}
	right := &ast.PrimitiveValue{Kind: ast.PrimitiveNumber, Value: "2"}
	add := &ast.BinaryOperation{Left: left, Operator: ast.OpAdd, Right: right}
	program := &ast.Program{
		Module: &ast.ModuleDeclaration{Name: "A.B"},
		Body:   []ast.Node{add},
	}

	_, collected := bindAndCollect(t, program)
	require.True(t, collected.Diagnostics.Empty())

	result, ok := collected.TypeFor(add)
	require.True(t, ok)
	assert.Equal(t, "number", result.String())
}

func TestUnknownIdentifierFails(t *testing.T) {
	program := &ast.Program{
		Module: &ast.ModuleDeclaration{Name: "A.B"},
		Body:   []ast.Node{&ast.Identifier{Name: "nope"}},
	}
	_, collected := bindAndCollect(t, program)
	require.False(t, collected.Diagnostics.Empty())
	assert.Equal(t, diagnostics.KindUnknownReference, collected.Diagnostics.First().Kind)
}

func TestIfElseBranchesConstrainedEqual(t *testing.T) {
	ifElse := &ast.IfElse{
		Condition:   &ast.PrimitiveValue{Kind: ast.PrimitiveBoolean, Value: "true"},
		TrueBranch:  &ast.Block{Body: []ast.Node{&ast.PrimitiveValue{Kind: ast.PrimitiveNumber, Value: "1"}}},
		FalseBranch: &ast.Block{Body: []ast.Node{&ast.PrimitiveValue{Kind: ast.PrimitiveNumber, Value: "2"}}},
	}
	program := &ast.Program{
		Module: &ast.ModuleDeclaration{Name: "A.B"},
		Body:   []ast.Node{ifElse},
	}

	bound, collected := bindAndCollect(t, program)
	require.True(t, collected.Diagnostics.Empty())

	found := false
	bound.Program.Walk(func(s *scope.Scope) {
		for _, c := range s.Constraints {
			if c.Kind == scope.Equality && c.Left.String() == "number" && c.Right.String() == "number" {
				found = true
			}
		}
	})
	assert.True(t, found, "expected an equality constraint between the two number branches")
}

func TestFunctionCallBuildsFreshReturnVariable(t *testing.T) {
	fn := &ast.FunctionExpression{
		Parameters: []*ast.Parameter{{Name: "x", Annotation: &ast.TypeIdentifier{Name: "number"}}},
		Body:       &ast.Identifier{Name: "x"},
	}
	call := &ast.FunctionCall{
		Callee:    &ast.Identifier{Name: "calc"},
		Arguments: []ast.Node{&ast.PrimitiveValue{Kind: ast.PrimitiveNumber, Value: "3"}},
	}
	program := &ast.Program{
		Module: &ast.ModuleDeclaration{Name: "A.B"},
		Body: []ast.Node{
			&ast.ConstDeclaration{Identifier: "calc", Init: fn},
			call,
		},
	}

	_, collected := bindAndCollect(t, program)
	require.True(t, collected.Diagnostics.Empty())

	callType, ok := collected.TypeFor(call)
	require.True(t, ok)
	_, isVar := callType.(types.TypeVariable)
	assert.True(t, isVar, "an uninstantiated call collects to a fresh return type variable")
}
