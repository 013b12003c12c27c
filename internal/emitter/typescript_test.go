package emitter

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"envtypes/internal/schema"
)

func TestTypeScript_Render(t *testing.T) {
	out := string(TypeScript{}.Render(sampleVars()))

	assert.Contains(t, out, `export const LOG_LEVEL_VALUES = ["debug", "info", "warn"] as const;`)
	assert.Contains(t, out, "export type LogLevel = (typeof LOG_LEVEL_VALUES)[number];")

	assert.Contains(t, out, "  readonly API_URL: string;\n")
	assert.Contains(t, out, "  readonly FEATURE_FLAG: boolean;\n")
	assert.Contains(t, out, "  readonly LOG_LEVEL: LogLevel;\n")
	assert.Contains(t, out, "  readonly TIMEOUT?: number;\n")
	assert.Contains(t, out, "  readonly MAX_CONNS: number;\n")
	assert.Contains(t, out, "  readonly EXTRA: unknown;\n")
	assert.Contains(t, out, "  readonly API_KEY?: string;\n")

	assert.Contains(t, out, "  /** Base URL of the API. */\n")
	assert.Contains(t, out, "   * @deprecated\n")

	assert.Contains(t, out, `API_URL: read("API_URL", parseUrl, true),`)
	assert.Contains(t, out, `FEATURE_FLAG: read("FEATURE_FLAG", parseBoolean, false, false),`)
	assert.Contains(t, out, `LOG_LEVEL: read("LOG_LEVEL", (raw) => parseEnum(raw, LOG_LEVEL_VALUES), true),`)
	assert.Contains(t, out, `MAX_CONNS: read("MAX_CONNS", parseNumber, false, 10),`)
	assert.Contains(t, out, `EXTRA: read("EXTRA", parseJson, false, {"a":null,"b":[1,true]}),`)
	assert.Contains(t, out, "export function loadEnv(source: EnvSource = process.env): Env {")
}

func TestTypeScript_OnlyUsedHelpers(t *testing.T) {
	vars := []schema.VariableDefinition{{Name: "TIMEOUT", Type: schema.TypeDuration, Required: true}}
	out := string(TypeScript{}.Render(vars))

	assert.Contains(t, out, "function parseDuration(")
	assert.Contains(t, out, "function parseNumber(")
	assert.NotContains(t, out, "function parseEnum")
	assert.NotContains(t, out, "function parseJson")
}

func TestTypeScript_QuotesNonIdentifierKeys(t *testing.T) {
	vars := []schema.VariableDefinition{
		{Name: "MY-VAR", Type: schema.TypeString, Required: true},
		{Name: "9LIVES", Type: schema.TypeNumber},
	}
	out := string(TypeScript{}.Render(vars))

	assert.Contains(t, out, `  readonly "MY-VAR": string;`)
	assert.Contains(t, out, `  readonly "9LIVES"?: number;`)
	assert.Contains(t, out, `    "MY-VAR": read("MY-VAR", parseString, true),`)
}

func TestTypeScript_UnknownTypeAndBadDefault(t *testing.T) {
	vars := []schema.VariableDefinition{
		{Name: "ID", Type: "uuid", Required: true},
		{Name: "PORT", Type: schema.TypeNumber, Default: strPtr("eighty")},
	}
	out := string(TypeScript{}.Render(vars))

	assert.Contains(t, out, "  readonly ID: string;")
	assert.Contains(t, out, "  readonly PORT?: number;")
	assert.Contains(t, out, `PORT: read("PORT", parseNumber, false),`)
}

func TestTypeScript_CommentCannotEscape(t *testing.T) {
	vars := []schema.VariableDefinition{
		{Name: "X", Type: schema.TypeString, Required: true, Description: "ends */ here"},
	}
	out := string(TypeScript{}.Render(vars))
	assert.Contains(t, out, `/** ends *\/ here */`)
}

func TestTypeScript_ReservedGlobals(t *testing.T) {
	vars := []schema.VariableDefinition{
		{Name: "ERROR", Type: schema.TypeEnum, Required: true, Enum: []string{"warn", "fail"}},
		{Name: "RECORD", Type: schema.TypeEnum, Required: true, Enum: []string{"on"}},
		{Name: "NUMBER", Type: schema.TypeEnum, Required: true, Enum: []string{"one"}},
	}
	out := string(TypeScript{}.Render(vars))

	assert.Contains(t, out, "export type Error2 = (typeof ERROR_VALUES)[number];")
	assert.Contains(t, out, "export type Record2 = (typeof RECORD_VALUES)[number];")
	assert.Contains(t, out, "export type Number2 = (typeof NUMBER_VALUES)[number];")
	assert.NotContains(t, out, "export type Error ")
	assert.NotContains(t, out, "export type Record ")
	assert.Contains(t, out, "  readonly ERROR: Error2;\n")
	assert.Contains(t, out, "(err as Error).message")
	assert.Contains(t, out, "export type EnvSource = Record<string, string | undefined>;")
}

func TestTypeScript_HelperMessages(t *testing.T) {
	vars := []schema.VariableDefinition{
		{Name: "MODE", Type: schema.TypeEnum, Required: true, Enum: []string{"a"}},
		{Name: "PORT", Type: schema.TypeNumber, Required: true},
	}
	out := string(TypeScript{}.Render(vars))

	assert.Contains(t, out, `const expected = allowed.map((value) => "'" + value + "'").join(", ");`)
	assert.Contains(t, out, `throw new Error("Value '" + raw + "' not allowed; expected one of [" + expected + "].");`)
	assert.Contains(t, out, `/^[+-]?0[xXoObB]/.test(raw.trim())`)
}

var tsValuesPattern = regexp.MustCompile(`export const MODE_VALUES = (\[.*\]) as const;`)

// Property 4: TypeScript Enum Order Is Preserved
// For any enum values, the generated value array lists them in declared order.
func TestTypeScript_EnumOrder_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("value array matches declaration order", prop.ForAll(
		func(values []string) bool {
			vars := []schema.VariableDefinition{
				{Name: "MODE", Type: schema.TypeEnum, Required: true, Enum: values},
			}
			m := tsValuesPattern.FindStringSubmatch(string(TypeScript{}.Render(vars)))
			if m == nil {
				return false
			}
			var got []string
			if err := json.Unmarshal([]byte(m[1]), &got); err != nil {
				return false
			}
			if len(got) != len(values) {
				return false
			}
			for i := range values {
				if got[i] != values[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.AlphaString()),
	))

	properties.TestingRun(t)
}
