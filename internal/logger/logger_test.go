package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Rrens/careops/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestUseConsole(t *testing.T) {
	assert.True(t, useConsole("console", "production"))
	assert.False(t, useConsole("json", "development"))
	assert.True(t, useConsole("auto", "development"))
	assert.False(t, useConsole("auto", "production"))
}

func TestNewWriter_JSONToOutput(t *testing.T) {
	var buf bytes.Buffer
	w, closer, err := newWriter(config.LoggingConfig{Format: "json"}, &buf, "production")
	require.NoError(t, err)
	defer closer.Close()

	l := zerolog.New(w)
	l.Info().Str("trigger", "INVENTORY_LOW").Msg("dispatched")

	assert.Contains(t, buf.String(), `"trigger":"INVENTORY_LOW"`)
	assert.Contains(t, buf.String(), `"message":"dispatched"`)
}

func TestNewWriter_RotatingFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LoggingConfig{
		Format: "json",
		File: config.LogFileConfig{
			Enabled: true,
			Pattern: filepath.Join(dir, "logs", "careops.%Y%m%d.log"),
		},
	}

	var buf bytes.Buffer
	w, closer, err := newWriter(cfg, &buf, "production")
	require.NoError(t, err)

	l := zerolog.New(w)
	l.Warn().Msg("ledger unreachable")
	require.NoError(t, closer.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "logs", "careops.*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "ledger unreachable")
	assert.Contains(t, buf.String(), "ledger unreachable")
}
