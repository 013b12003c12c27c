package emitter

import (
	"encoding/json"
	"fmt"
	"strings"

	"envtypes/internal/naming"
	"envtypes/internal/schema"
)

// Python emits env.py: a frozen Env dataclass, Literal aliases for enums
// and a load_env function.
type Python struct{}

func (Python) Language() string { return "python" }

func (Python) Filename() string { return "env.py" }

type pyField struct {
	field
	Attr      string
	Alias     string
	ValuesVar string
}

// Render returns Python source for vars.
func (p Python) Render(vars []schema.VariableDefinition) []byte {
	fields := p.identify(newFields(vars))
	plain := make([]field, len(fields))
	for i, f := range fields {
		plain[i] = f.field
	}
	need := helpers(plain)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", generatedHeader)
	b.WriteString("\"\"\"Typed access to the declared environment variables.\"\"\"\n\n")
	b.WriteString("from __future__ import annotations\n\n")
	if need[schema.TypeJSON] {
		b.WriteString("import json\n")
	}
	b.WriteString("import os\n")
	b.WriteString("from dataclasses import dataclass\n")
	b.WriteString("from typing import Any, Callable, Literal, Mapping, Optional, TypeVar\n")

	for _, f := range fields {
		if f.Type != schema.TypeEnum {
			continue
		}
		values := make([]string, len(f.Enum))
		for i, v := range f.Enum {
			values[i] = pyString(v)
		}
		joined := strings.Join(values, ", ")
		tuple := joined
		if len(values) == 1 {
			tuple += ","
		}
		fmt.Fprintf(&b, "\n%s: tuple[str, ...] = (%s)\n", f.ValuesVar, tuple)
		fmt.Fprintf(&b, "%s = Literal[%s]\n", f.Alias, joined)
	}

	b.WriteString("\n\n@dataclass(frozen=True, kw_only=True)\n")
	b.WriteString("class Env:\n")
	b.WriteString("    \"\"\"Typed values of the declared environment variables.\"\"\"\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "\n    %s: %s\n", f.Attr, p.annotation(f))
		p.writeDoc(&b, f)
	}

	b.WriteString("\n\n_T = TypeVar(\"_T\")\n")
	p.writeHelpers(&b, need)

	b.WriteString("\n\ndef load_env(source: Optional[Mapping[str, str]] = None) -> Env:\n")
	b.WriteString("    \"\"\"Read every declared variable from source, defaulting to os.environ.\n\n")
	b.WriteString("    Raises ValueError listing every problem.\n")
	b.WriteString("    \"\"\"\n")
	b.WriteString("    src: Mapping[str, str] = os.environ if source is None else source\n")
	b.WriteString("    errors: list[str] = []\n\n")
	b.WriteString("    def read(name: str, parse: Callable[[str], _T], required: bool, fallback: Any = None) -> Any:\n")
	b.WriteString("        raw = src.get(name)\n")
	b.WriteString("        if raw is None:\n")
	b.WriteString("            if required:\n")
	b.WriteString("                errors.append(f\"{name}: required but not set\")\n")
	b.WriteString("            return fallback\n")
	b.WriteString("        try:\n")
	b.WriteString("            return parse(raw)\n")
	b.WriteString("        except ValueError as exc:\n")
	b.WriteString("            errors.append(f\"{name}: {exc}\")\n")
	b.WriteString("            return fallback\n\n")

	b.WriteString("    values: dict[str, Any] = {\n")
	for _, f := range fields {
		args := []string{pyString(f.Name), p.parser(f), pyBool(f.Required)}
		if f.HasDefault {
			args = append(args, pyLiteral(f.Default))
		}
		fmt.Fprintf(&b, "        %s: read(%s),\n", pyString(f.Attr), strings.Join(args, ", "))
	}
	b.WriteString("    }\n")
	b.WriteString("    if errors:\n")
	b.WriteString("        raise ValueError(\"invalid environment: \" + \"; \".join(errors))\n")
	b.WriteString("    return Env(**values)\n")

	return []byte(b.String())
}

func (Python) identify(fields []field) []pyField {
	attrs := naming.NewSet()
	globals := naming.NewSet("Env", "load_env", "Any", "Callable", "Literal", "Mapping", "Optional", "TypeVar",
		"dataclass", "json", "os", "ValueError")

	out := make([]pyField, 0, len(fields))
	for _, f := range fields {
		pf := pyField{field: f, Attr: attrs.Claim(naming.PythonIdent(f.Name))}
		if f.Type == schema.TypeEnum {
			pf.Alias = globals.Claim(naming.GoIdent(f.Name, "Var"))
			snake := naming.ScreamingSnake(f.Name)
			if snake == "" || (snake[0] >= '0' && snake[0] <= '9') {
				snake = "VAR_" + snake
			}
			pf.ValuesVar = globals.Claim(strings.TrimSuffix(snake, "_") + "_VALUES")
		}
		out = append(out, pf)
	}
	return out
}

func (Python) annotation(f pyField) string {
	var t string
	switch f.Type {
	case schema.TypeNumber, schema.TypeDuration:
		t = "float"
	case schema.TypeBoolean:
		t = "bool"
	case schema.TypeEnum:
		t = f.Alias
	case schema.TypeJSON:
		t = "Any"
	default:
		t = "str"
	}
	if f.Optional {
		if t == "Any" {
			return t + " = None"
		}
		return "Optional[" + t + "] = None"
	}
	return t
}

// writeDoc renders the attribute docstring that follows a dataclass field.
func (Python) writeDoc(b *strings.Builder, f pyField) {
	lines := f.docLines()
	if f.Deprecated {
		lines = append(lines, "Deprecated.")
	}
	if len(lines) == 0 {
		return
	}
	// Quotes are escaped so no line can close the docstring.
	for i, line := range lines {
		lines[i] = strings.ReplaceAll(strings.ReplaceAll(line, `\`, `\\`), `"`, `\"`)
	}
	if len(lines) == 1 {
		fmt.Fprintf(b, "    \"\"\"%s\"\"\"\n", lines[0])
		return
	}
	b.WriteString("    \"\"\"")
	for i, line := range lines {
		if i > 0 && line != "" {
			b.WriteString("    ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("    \"\"\"\n")
}

func (Python) parser(f pyField) string {
	switch f.Type {
	case schema.TypeNumber:
		return "_parse_number"
	case schema.TypeBoolean:
		return "_parse_bool"
	case schema.TypeEnum:
		return "lambda raw: _parse_enum(raw, " + f.ValuesVar + ")"
	case schema.TypeURL:
		return "_parse_url"
	case schema.TypeDuration:
		return "_parse_duration"
	case schema.TypeJSON:
		return "_parse_json"
	default:
		return "_parse_string"
	}
}

func (Python) writeHelpers(b *strings.Builder, need map[schema.VarType]bool) {
	if need[schema.TypeString] {
		b.WriteString(pyHelperString)
	}
	if need[schema.TypeNumber] {
		b.WriteString(pyHelperNumber)
	}
	if need[schema.TypeBoolean] {
		b.WriteString(pyHelperBool)
	}
	if need[schema.TypeEnum] {
		b.WriteString(pyHelperEnum)
	}
	if need[schema.TypeURL] {
		b.WriteString(pyHelperURL)
	}
	if need[schema.TypeDuration] {
		b.WriteString(pyHelperDuration)
	}
	if need[schema.TypeJSON] {
		b.WriteString(pyHelperJSON)
	}
}

// pyLiteral renders a parsed default as a Python expression.
func pyLiteral(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case bool:
		return pyBool(v)
	case float64:
		s := formatFloat(v)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	case string:
		return pyString(v)
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = pyLiteral(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		entries := make([]string, 0, len(v))
		for _, k := range sortedKeys(v) {
			entries = append(entries, pyString(k)+": "+pyLiteral(v[k]))
		}
		return "{" + strings.Join(entries, ", ") + "}"
	default:
		return pyString(fmt.Sprint(v))
	}
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// pyString returns s as a double-quoted Python string literal.
// JSON string escapes are a subset of Python's.
func pyString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

const pyHelperString = `

def _parse_string(raw: str) -> str:
    return raw
`

const pyHelperNumber = `

def _parse_number(raw: str) -> float:
    try:
        return float(raw)
    except ValueError:
        raise ValueError(f"could not convert '{raw}' to a number") from None
`

const pyHelperBool = `

def _parse_bool(raw: str) -> bool:
    return raw.lower() in ("true", "1", "yes", "y", "on")
`

const pyHelperEnum = `

def _parse_enum(raw: str, allowed: tuple[str, ...]) -> str:
    if raw not in allowed:
        raise ValueError(f"Value '{raw}' not allowed; expected one of {list(allowed)}.")
    return raw
`

const pyHelperURL = `

def _parse_url(raw: str) -> str:
    if not raw.startswith(("http://", "https://")):
        raise ValueError("URL must start with http:// or https://")
    return raw
`

const pyHelperDuration = `

def _parse_duration(raw: str) -> float:
    return _parse_number(raw[:-1] if raw.endswith("s") else raw)
`

const pyHelperJSON = `

def _parse_json(raw: str) -> Any:
    try:
        return json.loads(raw)
    except json.JSONDecodeError as exc:
        raise ValueError(f"invalid JSON: {exc}") from None
`
