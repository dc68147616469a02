package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobbweb/fyg-lang/internal/config"
)

func TestDefaultHasSinglePass(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 1, cfg.Limits.MaxConstraintPasses)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fyg-analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  max_constraint_passes: 3\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Limits.MaxConstraintPasses)
}

func TestLoadRejectsNonPositivePassCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fyg-analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  max_constraint_passes: 0\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Limits.MaxConstraintPasses, "a non-positive override falls back to the default")
}
