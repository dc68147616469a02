package diagnostics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cobbweb/fyg-lang/internal/diagnostics"
)

func TestBagAddIgnoresNil(t *testing.T) {
	var b diagnostics.Bag
	b.Add(nil)
	assert.True(t, b.Empty())
}

func TestBagPreservesEmissionOrder(t *testing.T) {
	var b diagnostics.Bag
	b.Add(diagnostics.Redeclaration(nil, "foo"))
	b.Add(diagnostics.UnknownReference(nil, "bar"))

	assert.Equal(t, diagnostics.KindRedeclaration, b.First().Kind)
	assert.Len(t, b.Errors(), 2)
	assert.Equal(t, diagnostics.KindUnknownReference, b.Errors()[1].Kind)
}

func TestErrorMessageIncludesKind(t *testing.T) {
	err := diagnostics.TypeMismatch(nil, typeStringer("number"), typeStringer("string"))
	assert.Contains(t, err.Error(), "TypeMismatch")
	assert.Contains(t, err.Error(), "number")
}

type typeStringer string

func (s typeStringer) String() string { return string(s) }
