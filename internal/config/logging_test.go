package config_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cobbweb/fyg-lang/internal/config"
)

func TestNewTraceLoggerWritesJSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := config.NewTraceLogger(&buf, zerolog.InfoLevel)

	logger.Info().Str("phase", "bind").Msg("started")

	out := buf.String()
	assert.Contains(t, out, `"phase":"bind"`)
	assert.Contains(t, out, `"message":"started"`)
}

func TestNewTraceLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := config.NewTraceLogger(&buf, zerolog.WarnLevel)

	logger.Debug().Msg("should be filtered")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("should appear")
	assert.NotEmpty(t, buf.String())
}
