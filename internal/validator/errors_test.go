package validator

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// Property 4: Error Messages Name Their Variable
// For any environment and variable name, every formatted error contains both.
func TestFormatError_NamesEnvAndVariable_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("formatted errors contain env and name", prop.ForAll(
		func(env, name string, kind ErrorKind) bool {
			formatted := FormatError(ValidationError{Kind: kind, Env: env, Name: name, Reason: "bad"})
			return strings.Contains(formatted, "["+env+"]") && strings.Contains(formatted, "'"+name+"'")
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.OneConstOf(KindMissing, KindInvalid, KindExtra),
	))

	properties.TestingRun(t)
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  ValidationError
		want string
	}{
		{
			name: "missing",
			err:  ValidationError{Kind: KindMissing, Env: "development", Name: "API_URL"},
			want: "[development] missing required variable 'API_URL'",
		},
		{
			name: "invalid",
			err:  ValidationError{Kind: KindInvalid, Env: "production", Name: "PORT", Value: "x", Reason: "could not convert 'x' to a number"},
			want: "[production] variable 'PORT' invalid: could not convert 'x' to a number",
		},
		{
			name: "extra",
			err:  ValidationError{Kind: KindExtra, Env: "development", Name: "EXTRA"},
			want: "[development] extra variable 'EXTRA' present",
		},
		{
			name: "unknown kind",
			err:  ValidationError{Kind: ErrorKind("other"), Env: "development", Name: "X"},
			want: "[development] variable 'X': other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatError(tt.err))
		})
	}
}

func TestFormatErrors_Empty(t *testing.T) {
	assert.Empty(t, FormatErrors(ValidationResult{Valid: true}))
}
