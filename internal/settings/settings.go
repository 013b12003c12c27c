// Package settings reads process-level options from ENVTYPES_* variables.
package settings

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Prefix is prepended to every variable name below.
const Prefix = "ENVTYPES_"

// ErrInvalidSettings is returned when an ENVTYPES_* variable cannot be used.
var ErrInvalidSettings = errors.New("invalid settings")

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Settings holds options that apply to every command.
// Command-line flags take precedence over these values.
type Settings struct {
	ConfigPath  string `env:"CONFIG" envDefault:"envtypes.config.json" validate:"required"`
	Environment string `env:"ENV" envDefault:"development" validate:"required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`
	AuditLog    string `env:"AUDIT_LOG"`
	Telemetry   bool   `env:"TELEMETRY"`
}

var validate = validator.New()

// Load parses settings from environ, a list of KEY=VALUE pairs as returned by os.Environ.
func Load(environ []string) (Settings, error) {
	var s Settings
	opts := env.Options{
		Prefix:      Prefix,
		Environment: env.ToMap(environ),
	}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := validate.Struct(s); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return s, nil
}

// Level returns the zerolog level for s.LogLevel, falling back to info.
func (s Settings) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || s.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
