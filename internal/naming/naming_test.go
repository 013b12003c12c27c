package naming

import (
	"go/token"
	"strings"
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestPascal(t *testing.T) {
	tests := map[string]string{
		"API_URL":       "APIURL",
		"FEATURE_FLAG":  "FeatureFlag",
		"LOG_LEVEL":     "LogLevel",
		"logLevel":      "LogLevel",
		"db.url":        "DBURL",
		"us-east-1":     "UsEast1",
		"REQUEST_ID":    "RequestID",
		"":              "",
		"__":            "",
		"MAX_RETRIES_3": "MaxRetries3",
	}
	for in, want := range tests {
		assert.Equal(t, want, Pascal(in), in)
	}
}

func TestScreamingSnake(t *testing.T) {
	assert.Equal(t, "LOG_LEVEL", ScreamingSnake("logLevel"))
	assert.Equal(t, "API_URL", ScreamingSnake("API_URL"))
	assert.Equal(t, "US_EAST_1", ScreamingSnake("us-east-1"))
}

func TestGoIdent(t *testing.T) {
	assert.Equal(t, "APIURL", GoIdent("API_URL", "V"))
	assert.Equal(t, "V3D", GoIdent("3D", "V"))
	assert.Equal(t, "V", GoIdent("--", "V"))
}

func TestIsJSIdent(t *testing.T) {
	assert.True(t, IsJSIdent("API_URL"))
	assert.True(t, IsJSIdent("$x"))
	assert.False(t, IsJSIdent("MY-VAR"))
	assert.False(t, IsJSIdent("1ABC"))
	assert.False(t, IsJSIdent(""))
}

func TestPythonIdent(t *testing.T) {
	assert.Equal(t, "API_URL", PythonIdent("API_URL"))
	assert.Equal(t, "MY_VAR", PythonIdent("MY-VAR"))
	assert.Equal(t, "_1ABC", PythonIdent("1ABC"))
	assert.Equal(t, "class_", PythonIdent("class"))
}

func TestSet_Claim(t *testing.T) {
	s := NewSet("Env")
	assert.Equal(t, "Env2", s.Claim("Env"))
	assert.Equal(t, "Env3", s.Claim("Env"))
	assert.Equal(t, "Other", s.Claim("Other"))
	assert.Equal(t, "Other2", s.Claim("Other"))
}

// Property 1: Go Identifiers Are Valid
// For any input, GoIdent produces a valid exported Go identifier.
func TestGoIdent_Valid_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("GoIdent is an exported identifier", prop.ForAll(
		func(name string) bool {
			id := GoIdent(name, "V")
			return token.IsIdentifier(id) && token.IsExported(id)
		},
		gen.AnyString(),
	))

	properties.Property("PythonIdent has only identifier characters", prop.ForAll(
		func(name string) bool {
			id := PythonIdent(name)
			if id == "" || unicode.IsDigit(rune(id[0])) {
				return false
			}
			return strings.IndexFunc(id, func(r rune) bool {
				return !(r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))))
			}) < 0
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
