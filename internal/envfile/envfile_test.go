package envfile

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := `
# comment
API_URL = https://example.com
  FEATURE_FLAG=true
NO_EQUALS_SIGN
QUERY=a=b=c
EMPTY=
API_URL=http://override
`
	values, err := Parse(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"API_URL":      "http://override",
		"FEATURE_FLAG": "true",
		"QUERY":        "a=b=c",
		"EMPTY":        "",
	}, values)
}

func TestParse_KeepsQuotesInPlainDialect(t *testing.T) {
	values, err := Parse(strings.NewReader(`NAME="quoted" # not a comment`))
	require.NoError(t, err)
	assert.Equal(t, `"quoted" # not a comment`, values["NAME"])
}

func TestParseDotenv(t *testing.T) {
	content := "export NAME=\"quoted value\"\nPLAIN=x # trailing\n"
	values, err := ParseDotenv(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "quoted value", values["NAME"])
	assert.Equal(t, "x", values["PLAIN"])
}

func TestParseDialect_Unknown(t *testing.T) {
	_, err := ParseDialect(strings.NewReader(""), Dialect("toml"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/work/.env.development", []byte("A=1\n"), 0o644))

	values, found, err := Load(fs, "/work/.env.development", DialectPlain)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]string{"A": "1"}, values)

	values, found, err = Load(fs, "/work/.env.missing", DialectPlain)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, values)
}

// Property 1: Key/Value Round-Trip
// For any identifier key and value without surrounding whitespace or newlines,
// a KEY=VALUE line parses back to the same pair.
func TestParse_RoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("key=value lines parse back", prop.ForAll(
		func(key, value string) bool {
			values, err := Parse(strings.NewReader(key + "=" + value + "\n"))
			if err != nil {
				return false
			}
			return len(values) == 1 && values[key] == value
		},
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
