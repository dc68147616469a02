package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobbweb/fyg-lang/internal/scope"
	"github.com/cobbweb/fyg-lang/internal/types"
)

func TestRootNativesPresent(t *testing.T) {
	root := scope.NewRoot()
	for _, name := range []string{"string", "number", "boolean"} {
		sym, ok := root.FindType(name)
		require.True(t, ok, "expected native %q in root scope", name)
		assert.Equal(t, name, sym.Type.String())
	}

	child := scope.NewChild(root, scope.KindBlock)
	sym, ok := child.FindType("number")
	require.True(t, ok, "descendant scopes see root natives")
	assert.Equal(t, "number", sym.Type.String())
}

func TestRedeclarationBlockedSameScope(t *testing.T) {
	s := scope.NewRoot()
	_, err := s.DefineValue("foo", types.Native(types.KindNumber))
	require.NoError(t, err)

	_, err = s.DefineValue("foo", types.Native(types.KindString))
	assert.Error(t, err)
}

func TestRedeclarationBlockedAcrossParent(t *testing.T) {
	parent := scope.NewRoot()
	_, err := parent.DefineValue("foo", types.Native(types.KindNumber))
	require.NoError(t, err)

	child := scope.NewChild(parent, scope.KindBlock)
	_, err = child.DefineValue("foo", types.Native(types.KindString))
	assert.Error(t, err, "shadowing a parent's value symbol is an error")
}

func TestSiblingScopesMayShareNames(t *testing.T) {
	parent := scope.NewRoot()
	left := scope.NewChild(parent, scope.KindBlock)
	right := scope.NewChild(parent, scope.KindBlock)

	_, err := left.DefineValue("x", types.Native(types.KindNumber))
	require.NoError(t, err)
	_, err = right.DefineValue("x", types.Native(types.KindString))
	assert.NoError(t, err, "sibling scopes may independently declare the same name")

	_, ok := left.FindValueLocal("x")
	assert.True(t, ok)
	leftSym, _ := left.FindValue("x")
	rightSym, _ := right.FindValue("x")
	assert.NotEqual(t, leftSym.Type.String(), "")
	assert.NotSame(t, leftSym, rightSym)
}

func TestSiblingScopeIsolation(t *testing.T) {
	parent := scope.NewRoot()
	left := scope.NewChild(parent, scope.KindBlock)
	right := scope.NewChild(parent, scope.KindBlock)

	_, err := left.DefineValue("onlyInLeft", types.Native(types.KindNumber))
	require.NoError(t, err)

	_, ok := right.FindValue("onlyInLeft")
	assert.False(t, ok, "names introduced in one sibling scope must not leak into another")
}
