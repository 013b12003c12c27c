package schema

import (
	"encoding/json"
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

const templateJSON = `{
  "schemaVersion": "0.1",
  "environments": {
    "production": [
      {"name": "API_URL", "type": "url", "required": true},
      {"name": "FEATURE_FLAG", "type": "boolean", "required": false, "default": "false"}
    ],
    "development": [
      {"name": "API_URL", "type": "url"},
      {"name": "FEATURE_FLAG", "type": "boolean", "required": false, "default": false}
    ]
  },
  "targets": [
    {"language": "ts", "outDir": "generated/ts"},
    {"language": "go"}
  ]
}`

func TestParseConfig_JSON(t *testing.T) {
	cfg, err := ParseConfig([]byte(templateJSON))
	require.NoError(t, err)

	assert.Equal(t, "0.1", cfg.SchemaVersion)
	assert.Equal(t, []string{"production", "development"}, cfg.EnvironmentNames())

	dev, ok := cfg.Environment("development")
	require.True(t, ok)
	require.Len(t, dev.Variables, 2)

	api := dev.Variables[0]
	assert.Equal(t, "API_URL", api.Name)
	assert.Equal(t, TypeURL, api.Type)
	assert.True(t, api.Required, "required defaults to true")
	assert.False(t, api.HasDefault())

	flag := dev.Variables[1]
	assert.False(t, flag.Required)
	require.NotNil(t, flag.Default)
	assert.Equal(t, "false", *flag.Default, "non-string defaults keep their raw text")

	assert.Equal(t, []TargetDefinition{
		{Language: "ts", OutDir: "generated/ts"},
		{Language: "go", OutDir: DefaultOutDir},
	}, cfg.Targets)
}

func TestParseConfig_YAML(t *testing.T) {
	content := `
environments:
  staging:
    - name: TIMEOUT
      type: duration
      required: false
      default: 30
    - name: LOG_LEVEL
      type: enum
      enum: [debug, info]
      description: Minimum log level.
      deprecated: true
    - name: TOKEN
      secret: true
targets:
  - language: python
`
	cfg, err := ParseConfig([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, DefaultSchemaVersion, cfg.SchemaVersion)

	env, ok := cfg.Environment("staging")
	require.True(t, ok)
	require.Len(t, env.Variables, 3)

	assert.Equal(t, "30", *env.Variables[0].Default)
	assert.Equal(t, []string{"debug", "info"}, env.Variables[1].Enum)
	assert.Equal(t, "Minimum log level.", env.Variables[1].Description)
	assert.True(t, env.Variables[1].Deprecated)

	token := env.Variables[2]
	assert.Equal(t, TypeString, token.Type, "type defaults to string")
	assert.True(t, token.Secret)
}

func TestParseConfig_KeepsUnsupportedType(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"environments": {"dev": [{"name": "ID", "type": "uuid"}]}, "targets": []}`))
	require.NoError(t, err)

	assert.Equal(t, VarType("uuid"), cfg.Environments[0].Variables[0].Type)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"malformed", `{"environments": `, ""},
		{"not an object", `[1, 2]`, "must be a JSON or YAML object"},
		{"scalar", `hello`, "must be a JSON or YAML object"},
		{"missing name", `{"environments": {"dev": [{"type": "string"}]}}`, "missing required field 'environments[dev][0].name'"},
		{"missing language", `{"targets": [{"outDir": "x"}]}`, "missing required field 'targets[0].language'"},
		{"bad version", `{"schemaVersion": "latest"}`, "not a valid version"},
		{"unsupported version", `{"schemaVersion": "2.0"}`, "not supported"},
		{"wrong shape", `{"environments": ["dev"]}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "envtypes.config.json", []byte(templateJSON), 0644))

	cfg, err := LoadConfig(fs, "envtypes.config.json")
	require.NoError(t, err)
	assert.Len(t, cfg.Environments, 2)
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := LoadConfig(memfs.New(), "missing.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestValidateSchema_Template(t *testing.T) {
	cfg, err := ParseConfig([]byte(templateJSON))
	require.NoError(t, err)

	ok, errs := ValidateSchema(cfg)
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestValidateSchema_AccumulatesEverything(t *testing.T) {
	content := `{
  "environments": {
    "dev": [
      {"name": "A", "type": "uuid"},
      {"name": "A", "type": "enum"},
      {"name": "B", "required": true, "default": "x"}
    ]
  },
  "targets": []
}`
	cfg, err := ParseConfig([]byte(content))
	require.NoError(t, err)

	ok, errs := ValidateSchema(cfg)
	assert.False(t, ok)
	assert.Equal(t, []string{
		"[dev] variable 'A' uses unsupported type 'uuid'.",
		"[dev] variable 'A' is declared more than once.",
		"[dev] variable 'A' is enum but enum values are empty.",
		"[dev] variable 'B' is marked required but also provides a default; choose one.",
		"At least one generation target must be defined.",
	}, errs)
}

func TestCheck_Structured(t *testing.T) {
	cfg := Config{
		Environments: []Environment{{Name: "prod", Variables: []VariableDefinition{
			{Name: "MODE", Type: TypeEnum, Required: true},
		}}},
		Targets: []TargetDefinition{{Language: "ts", OutDir: "out"}},
	}

	issues := Check(cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, Issue{Kind: IssueEmptyEnum, Env: "prod", Variable: "MODE"}, issues[0])
}

func TestJSONSchema(t *testing.T) {
	data, err := JSONSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, SchemaID, doc["$id"])

	out := string(data)
	for _, key := range []string{"schemaVersion", "environments", "targets", "outDir", "language", "enum"} {
		assert.Contains(t, out, `"`+key+`"`)
	}
}

// Property 1: Environment Order Is Preserved
// For any list of distinct environment names, the parsed config lists them in document order.
func TestParseConfig_EnvironmentOrder_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("environments keep document order", prop.ForAll(
		func(names []string) bool {
			seen := make(map[string]bool)
			var unique []string
			for _, n := range names {
				if !seen[n] {
					seen[n] = true
					unique = append(unique, n)
				}
			}

			var sb strings.Builder
			sb.WriteString("environments:\n")
			for _, n := range unique {
				sb.WriteString("  " + n + ":\n    - name: X\n")
			}
			sb.WriteString("targets:\n  - language: ts\n")

			cfg, err := ParseConfig([]byte(sb.String()))
			if err != nil {
				return false
			}
			got := cfg.EnvironmentNames()
			if len(got) != len(unique) {
				return false
			}
			for i := range unique {
				if got[i] != unique[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
