package settings

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, Settings{
		ConfigPath:  "envtypes.config.json",
		Environment: "development",
		LogLevel:    "info",
		LogFormat:   FormatConsole,
	}, s)
	assert.Equal(t, zerolog.InfoLevel, s.Level())
}

func TestLoad_FromEnviron(t *testing.T) {
	s, err := Load([]string{
		"ENVTYPES_CONFIG=config/envtypes.yaml",
		"ENVTYPES_ENV=production",
		"ENVTYPES_LOG_LEVEL=debug",
		"ENVTYPES_LOG_FORMAT=json",
		"ENVTYPES_AUDIT_LOG=.envtypes/audit.log",
		"ENVTYPES_TELEMETRY=1",
		"CONFIG=ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "config/envtypes.yaml", s.ConfigPath)
	assert.Equal(t, "production", s.Environment)
	assert.Equal(t, zerolog.DebugLevel, s.Level())
	assert.Equal(t, FormatJSON, s.LogFormat)
	assert.Equal(t, ".envtypes/audit.log", s.AuditLog)
	assert.True(t, s.Telemetry)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][]string{
		"format":    {"ENVTYPES_LOG_FORMAT=xml"},
		"level":     {"ENVTYPES_LOG_LEVEL=loud"},
		"telemetry": {"ENVTYPES_TELEMETRY=maybe"},
	}
	for name, environ := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(environ)
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}
