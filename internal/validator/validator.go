package validator

import (
	"sort"

	"envtypes/internal/coerce"
	"envtypes/internal/schema"
)

// ErrorKind classifies an environment validation failure
type ErrorKind string

const (
	KindMissing ErrorKind = "missing" // Declared, required, no default, not provided
	KindInvalid ErrorKind = "invalid" // Provided but fails type coercion
	KindExtra   ErrorKind = "extra"   // Provided but not declared
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Kind   ErrorKind
	Env    string // The environment being validated (e.g., "development")
	Name   string // The variable name (e.g., "API_URL")
	Value  string // The rejected raw value (invalid only)
	Reason string // Coercion failure reason (invalid only)
}

// ValidationResult contains all validation outcomes
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// Validate checks the provided values against the variables declared for envName.
// It collects all errors rather than stopping at the first one.
//
// Declared variables are checked in declaration order; extra variables follow,
// sorted by name. An unknown environment declares nothing.
func Validate(cfg schema.Config, envName string, provided map[string]string) ValidationResult {
	var errors []ValidationError

	env, _ := cfg.Environment(envName)
	declared := make(map[string]bool, len(env.Variables))

	for _, def := range env.Variables {
		// Only the first declaration of a duplicated name is checked
		if declared[def.Name] {
			continue
		}
		declared[def.Name] = true

		raw, present := provided[def.Name]
		if !present {
			if def.Required && !def.HasDefault() {
				errors = append(errors, ValidationError{
					Kind: KindMissing,
					Env:  envName,
					Name: def.Name,
				})
			}
			continue
		}

		if _, err := coerce.Parse(raw, def); err != nil {
			errors = append(errors, ValidationError{
				Kind:   KindInvalid,
				Env:    envName,
				Name:   def.Name,
				Value:  raw,
				Reason: err.Error(),
			})
		}
	}

	extra := make([]string, 0)
	for name := range provided {
		if !declared[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	for _, name := range extra {
		errors = append(errors, ValidationError{
			Kind: KindExtra,
			Env:  envName,
			Name: name,
		})
	}

	return ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

// ValidateEnvironment validates provided against envName and returns formatted messages.
// An empty slice means the environment is valid.
func ValidateEnvironment(cfg schema.Config, envName string, provided map[string]string) []string {
	return FormatErrors(Validate(cfg, envName, provided))
}
