package analysis_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobbweb/fyg-lang/internal/analysis"
	"github.com/cobbweb/fyg-lang/internal/ast"
	"github.com/cobbweb/fyg-lang/internal/config"
)

func TestNewUsesConfigDefaultLimits(t *testing.T) {
	p := analysis.New()
	assert.Equal(t, config.Default().Limits, p.Limits)
}

func TestNewWithConfigTracesThroughWriter(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Limits.MaxConstraintPasses = 3

	p := analysis.NewWithConfig(cfg, &buf, zerolog.DebugLevel)
	assert.Equal(t, 3, p.Limits.MaxConstraintPasses)

	program := withModule(&ast.ConstDeclaration{Identifier: "foo", Init: number("4")})
	_, err := p.Analyze(context.Background(), program)
	require.Nil(t, err)
	assert.Contains(t, buf.String(), "binding")
}
