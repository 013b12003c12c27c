package emitter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"envtypes/internal/naming"
	"envtypes/internal/schema"
)

// TypeScript emits env.ts: an Env interface, const value arrays with union
// types for enums, and a loadEnv function.
type TypeScript struct{}

func (TypeScript) Language() string { return "ts" }

func (TypeScript) Filename() string { return "env.ts" }

type tsField struct {
	field
	Key       string // property key, quoted when not an identifier
	Union     string
	ValuesVar string
}

// Render returns TypeScript source for vars.
func (t TypeScript) Render(vars []schema.VariableDefinition) []byte {
	fields := t.identify(newFields(vars))
	plain := make([]field, len(fields))
	for i, f := range fields {
		plain[i] = f.field
	}
	need := helpers(plain)

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\n\n", generatedHeader)

	for _, f := range fields {
		if f.Type != schema.TypeEnum {
			continue
		}
		values := make([]string, len(f.Enum))
		for i, v := range f.Enum {
			values[i] = tsString(v)
		}
		fmt.Fprintf(&b, "export const %s = [%s] as const;\n", f.ValuesVar, strings.Join(values, ", "))
		fmt.Fprintf(&b, "/** Allowed values of %s. */\n", tsCommentSafe(f.Name))
		fmt.Fprintf(&b, "export type %s = (typeof %s)[number];\n\n", f.Union, f.ValuesVar)
	}

	b.WriteString("/** Typed values of the declared environment variables. */\n")
	b.WriteString("export interface Env {\n")
	for _, f := range fields {
		t.writeDoc(&b, f)
		opt := ""
		if f.Optional {
			opt = "?"
		}
		fmt.Fprintf(&b, "  readonly %s%s: %s;\n", f.Key, opt, t.baseType(f))
	}
	b.WriteString("}\n\n")

	b.WriteString("export type EnvSource = Record<string, string | undefined>;\n")

	t.writeHelpers(&b, need)

	b.WriteString("\n/** Reads every declared variable from source and throws one error listing all problems. */\n")
	b.WriteString("export function loadEnv(source: EnvSource = process.env): Env {\n")
	b.WriteString("  const errors: string[] = [];\n")
	b.WriteString("  const read = <T>(name: string, parse: (raw: string) => T, required: boolean, fallback?: T): T | undefined => {\n")
	b.WriteString("    const raw = source[name];\n")
	b.WriteString("    if (raw === undefined) {\n")
	b.WriteString("      if (required) {\n")
	b.WriteString("        errors.push(name + \": required but not set\");\n")
	b.WriteString("      }\n")
	b.WriteString("      return fallback;\n")
	b.WriteString("    }\n")
	b.WriteString("    try {\n")
	b.WriteString("      return parse(raw);\n")
	b.WriteString("    } catch (err) {\n")
	b.WriteString("      errors.push(name + \": \" + (err as Error).message);\n")
	b.WriteString("      return fallback;\n")
	b.WriteString("    }\n")
	b.WriteString("  };\n\n")

	b.WriteString("  const env = {\n")
	for _, f := range fields {
		args := []string{tsString(f.Name), t.parser(f), strconv.FormatBool(f.Required)}
		if f.HasDefault {
			args = append(args, t.literal(f.Default))
		}
		fmt.Fprintf(&b, "    %s: read(%s),\n", f.Key, strings.Join(args, ", "))
	}
	b.WriteString("  };\n\n")

	b.WriteString("  if (errors.length > 0) {\n")
	b.WriteString("    throw new Error(\"invalid environment: \" + errors.join(\"; \"));\n")
	b.WriteString("  }\n")
	b.WriteString("  return env as Env;\n")
	b.WriteString("}\n")

	return []byte(b.String())
}

func (TypeScript) identify(fields []field) []tsField {
	// Generated names must not shadow the globals the file refers to.
	names := naming.NewSet("Env", "EnvSource", "loadEnv",
		"parseString", "parseNumber", "parseBoolean", "parseEnum", "parseUrl", "parseDuration", "parseJson",
		"Error", "Record", "Number", "String", "Array", "Boolean", "JSON", "Object", "T")

	out := make([]tsField, 0, len(fields))
	for _, f := range fields {
		tf := tsField{field: f, Key: f.Name}
		if !naming.IsJSIdent(f.Name) {
			tf.Key = tsString(f.Name)
		}
		if f.Type == schema.TypeEnum {
			tf.Union = names.Claim(naming.GoIdent(f.Name, "Var"))
			snake := naming.ScreamingSnake(f.Name)
			if snake == "" || (snake[0] >= '0' && snake[0] <= '9') {
				snake = "VAR_" + snake
			}
			tf.ValuesVar = names.Claim(strings.TrimSuffix(snake, "_") + "_VALUES")
		}
		out = append(out, tf)
	}
	return out
}

func (TypeScript) writeDoc(b *strings.Builder, f tsField) {
	lines := f.docLines()
	if f.Deprecated {
		lines = append(lines, "@deprecated")
	}
	switch len(lines) {
	case 0:
		return
	case 1:
		fmt.Fprintf(b, "  /** %s */\n", tsCommentSafe(lines[0]))
	default:
		b.WriteString("  /**\n")
		for _, line := range lines {
			if line == "" {
				b.WriteString("   *\n")
				continue
			}
			fmt.Fprintf(b, "   * %s\n", tsCommentSafe(line))
		}
		b.WriteString("   */\n")
	}
}

func (TypeScript) baseType(f tsField) string {
	switch f.Type {
	case schema.TypeNumber, schema.TypeDuration:
		return "number"
	case schema.TypeBoolean:
		return "boolean"
	case schema.TypeEnum:
		return f.Union
	case schema.TypeJSON:
		return "unknown"
	default:
		return "string"
	}
}

func (TypeScript) parser(f tsField) string {
	switch f.Type {
	case schema.TypeNumber:
		return "parseNumber"
	case schema.TypeBoolean:
		return "parseBoolean"
	case schema.TypeEnum:
		return "(raw) => parseEnum(raw, " + f.ValuesVar + ")"
	case schema.TypeURL:
		return "parseUrl"
	case schema.TypeDuration:
		return "parseDuration"
	case schema.TypeJSON:
		return "parseJson"
	default:
		return "parseString"
	}
}

// literal renders a parsed default as a TypeScript expression.
func (TypeScript) literal(v any) string {
	switch v := v.(type) {
	case float64:
		return formatFloat(v)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return tsString(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "undefined"
		}
		return string(data)
	}
}

func (TypeScript) writeHelpers(b *strings.Builder, need map[schema.VarType]bool) {
	if need[schema.TypeString] {
		b.WriteString(tsHelperString)
	}
	if need[schema.TypeNumber] {
		b.WriteString(tsHelperNumber)
	}
	if need[schema.TypeBoolean] {
		b.WriteString(tsHelperBoolean)
	}
	if need[schema.TypeEnum] {
		b.WriteString(tsHelperEnum)
	}
	if need[schema.TypeURL] {
		b.WriteString(tsHelperURL)
	}
	if need[schema.TypeDuration] {
		b.WriteString(tsHelperDuration)
	}
	if need[schema.TypeJSON] {
		b.WriteString(tsHelperJSON)
	}
}

// tsString returns s as a double-quoted string literal.
func tsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

// tsCommentSafe keeps s from closing a block comment.
func tsCommentSafe(s string) string {
	return strings.ReplaceAll(s, "*/", "*\\/")
}

const tsHelperString = `
function parseString(raw: string): string {
  return raw;
}
`

const tsHelperNumber = `
function parseNumber(raw: string): number {
  const value = Number(raw);
  if (raw.trim() === "" || /^[+-]?0[xXoObB]/.test(raw.trim()) || Number.isNaN(value)) {
    throw new Error("could not convert '" + raw + "' to a number");
  }
  return value;
}
`

const tsHelperBoolean = `
function parseBoolean(raw: string): boolean {
  return ["true", "1", "yes", "y", "on"].includes(raw.toLowerCase());
}
`

const tsHelperEnum = `
function parseEnum<T extends string>(raw: string, allowed: readonly T[]): T {
  const match = allowed.find((value) => value === raw);
  if (match === undefined) {
    const expected = allowed.map((value) => "'" + value + "'").join(", ");
    throw new Error("Value '" + raw + "' not allowed; expected one of [" + expected + "].");
  }
  return match;
}
`

const tsHelperURL = `
function parseUrl(raw: string): string {
  if (!raw.startsWith("http://") && !raw.startsWith("https://")) {
    throw new Error("URL must start with http:// or https://");
  }
  return raw;
}
`

const tsHelperDuration = `
function parseDuration(raw: string): number {
  return parseNumber(raw.endsWith("s") ? raw.slice(0, -1) : raw);
}
`

const tsHelperJSON = `
function parseJson(raw: string): unknown {
  try {
    return JSON.parse(raw);
  } catch (err) {
    throw new Error("invalid JSON: " + (err as Error).message);
  }
}
`
