package unifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobbweb/fyg-lang/internal/diagnostics"
	"github.com/cobbweb/fyg-lang/internal/scope"
	"github.com/cobbweb/fyg-lang/internal/types"
)

func TestApplySubstitutionsIsIdempotent(t *testing.T) {
	root := scope.NewRoot()
	fnScope := scope.NewChild(root, scope.KindFunction)
	_, err := fnScope.DefineValue("x", types.TypeVariable{Name: "t0"})
	require.NoError(t, err)

	subst := types.Subst{"t0": types.Native(types.KindNumber)}
	applySubstitutions(root, subst)

	sym, ok := fnScope.FindValueLocal("x")
	require.True(t, ok)
	assert.Equal(t, "number", sym.Type.String())

	// Running it a second time over the already-resolved table must be a
	// no-op (spec §8.5).
	applySubstitutions(root, subst)
	sym2, _ := fnScope.FindValueLocal("x")
	assert.Equal(t, sym.Type, sym2.Type)
}

func TestBindOccursCheckRejectsSelfReference(t *testing.T) {
	u := &unifier{subst: types.Subst{}, diags: &diagnostics.Bag{}}
	v := types.TypeVariable{Name: "t0"}
	fn := types.FunctionType{ReturnType: v}

	err := u.bind(v, fn, nil)
	assert.Error(t, err)
}
