package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cobbweb/fyg-lang/internal/types"
)

func TestCounterProducesUniqueNames(t *testing.T) {
	c := types.NewCounter()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		v := c.Anon()
		assert.False(t, seen[v.Name], "type variable name %q reused", v.Name)
		seen[v.Name] = true
	}
}

func TestCounterFunctionNamesAreDistinctFromAnon(t *testing.T) {
	c := types.NewCounter()
	fn := c.Function()
	v := c.Anon()
	assert.NotEqual(t, fn, v.Name)
}
