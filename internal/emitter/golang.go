package emitter

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"

	"envtypes/internal/naming"
	"envtypes/internal/schema"
)

// Go emits env.go: an Env struct, typed enum constants and a Load function.
type Go struct {
	// Package is the package clause of the generated file. Defaults to "env".
	Package string
}

func (Go) Language() string { return "go" }

func (Go) Filename() string { return "env.go" }

// goEnum holds the identifiers generated for one enum variable.
type goEnum struct {
	Type      string
	ValuesVar string
	Consts    []string // parallel to the field's Enum values
}

// goField pairs a field with its generated identifiers.
type goField struct {
	field
	Ident string
	Enum  *goEnum
}

// Render returns gofmt-formatted Go source for vars.
func (g Go) Render(vars []schema.VariableDefinition) []byte {
	pkg := g.Package
	if pkg == "" {
		pkg = "env"
	}

	fields := g.identify(newFields(vars))
	need := helpers(fieldsOf(fields))

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\n\n", generatedHeader)
	fmt.Fprintf(&b, "package %s\n\n", pkg)

	b.WriteString("import (\n")
	if need[schema.TypeJSON] {
		b.WriteString("\t\"encoding/json\"\n")
	}
	b.WriteString("\t\"fmt\"\n\t\"os\"\n")
	if need[schema.TypeNumber] {
		b.WriteString("\t\"strconv\"\n")
	}
	b.WriteString("\t\"strings\"\n)\n\n")

	for _, f := range fields {
		if f.Enum != nil {
			g.writeEnum(&b, f)
		}
	}

	b.WriteString("// Env holds the typed values of the declared environment variables.\n")
	b.WriteString("type Env struct {\n")
	for i, f := range fields {
		if i > 0 {
			b.WriteString("\n")
		}
		g.writeFieldDoc(&b, f)
		fmt.Fprintf(&b, "\t%s %s\n", f.Ident, g.fieldType(f))
	}
	b.WriteString("}\n\n")

	b.WriteString("// Load reads every declared variable through lookup.\n")
	b.WriteString("// All problems are reported together in the returned error.\n")
	b.WriteString("func Load(lookup func(string) (string, bool)) (Env, error) {\n")
	b.WriteString("\tvar env Env\n\tvar errs []string\n\n")
	for _, f := range fields {
		g.writeLoad(&b, f)
	}
	b.WriteString("\tif len(errs) > 0 {\n")
	b.WriteString("\t\treturn env, fmt.Errorf(\"invalid environment: %s\", strings.Join(errs, \"; \"))\n")
	b.WriteString("\t}\n\treturn env, nil\n}\n\n")

	b.WriteString("// LoadFromEnviron reads the process environment.\n")
	b.WriteString("func LoadFromEnviron() (Env, error) {\n\treturn Load(os.LookupEnv)\n}\n")

	g.writeHelpers(&b, need)

	src := []byte(b.String())
	if formatted, err := format.Source(src); err == nil {
		return formatted
	}
	return src
}

// identify assigns struct field names and package-level enum identifiers.
func (Go) identify(fields []field) []goField {
	pkgNames := naming.NewSet("Env", "Load", "LoadFromEnviron")
	fieldNames := naming.NewSet()

	out := make([]goField, 0, len(fields))
	for _, f := range fields {
		gf := goField{field: f, Ident: fieldNames.Claim(naming.GoIdent(f.Name, "Var"))}
		if f.Type == schema.TypeEnum {
			typ := pkgNames.Claim(naming.GoIdent(f.Name, "Var"))
			e := &goEnum{Type: typ, ValuesVar: pkgNames.Claim(typ + "Values")}
			for _, v := range f.Enum {
				suffix := naming.Pascal(v)
				if suffix == "" {
					suffix = "Value"
				}
				e.Consts = append(e.Consts, pkgNames.Claim(typ+suffix))
			}
			gf.Enum = e
		}
		out = append(out, gf)
	}
	return out
}

func fieldsOf(gfs []goField) []field {
	fields := make([]field, len(gfs))
	for i, gf := range gfs {
		fields[i] = gf.field
	}
	return fields
}

func (Go) writeEnum(b *strings.Builder, f goField) {
	e := f.Enum
	fmt.Fprintf(b, "// %s enumerates the allowed values of %s.\n", e.Type, f.Name)
	fmt.Fprintf(b, "type %s string\n\n", e.Type)

	fmt.Fprintf(b, "// Allowed %s values.\nconst (\n", e.Type)
	for i, v := range f.field.Enum {
		fmt.Fprintf(b, "\t%s %s = %s\n", e.Consts[i], e.Type, strconv.Quote(v))
	}
	b.WriteString(")\n\n")

	fmt.Fprintf(b, "// %s lists every %s in declaration order.\n", e.ValuesVar, e.Type)
	fmt.Fprintf(b, "var %s = []%s{%s}\n\n", e.ValuesVar, e.Type, strings.Join(e.Consts, ", "))
}

func (Go) writeFieldDoc(b *strings.Builder, f goField) {
	fmt.Fprintf(b, "\t// %s is read from %s.\n", f.Ident, strconv.Quote(f.Name))
	for _, line := range f.docLines() {
		if line == "" {
			b.WriteString("\t//\n")
			continue
		}
		fmt.Fprintf(b, "\t// %s\n", line)
	}
	if f.Deprecated {
		fmt.Fprintf(b, "\t//\n\t// Deprecated: %s is deprecated.\n", f.Ident)
	}
}

// baseType returns the Go type of a present value.
func (Go) baseType(f goField) string {
	switch f.Type {
	case schema.TypeNumber, schema.TypeDuration:
		return "float64"
	case schema.TypeBoolean:
		return "bool"
	case schema.TypeEnum:
		return f.Enum.Type
	case schema.TypeJSON:
		return "any"
	default:
		return "string"
	}
}

func (g Go) fieldType(f goField) string {
	t := g.baseType(f)
	if f.Optional && f.Type != schema.TypeJSON {
		return "*" + t
	}
	return t
}

// parseCall returns the expression that parses raw for f.
func (Go) parseCall(f goField) string {
	switch f.Type {
	case schema.TypeNumber:
		return "parseNumber(raw)"
	case schema.TypeBoolean:
		return "parseBool(raw)"
	case schema.TypeEnum:
		return "parseEnum(raw, " + f.Enum.ValuesVar + ")"
	case schema.TypeURL:
		return "parseURL(raw)"
	case schema.TypeDuration:
		return "parseDuration(raw)"
	case schema.TypeJSON:
		return "parseJSON(raw)"
	default:
		return "parseString(raw)"
	}
}

func (g Go) writeLoad(b *strings.Builder, f goField) {
	key := strconv.Quote(f.Name)

	assign := "v"
	if f.Optional && f.Type != schema.TypeJSON {
		assign = "&v"
	}

	fmt.Fprintf(b, "\tif raw, ok := lookup(%s); ok {\n", key)
	fmt.Fprintf(b, "\t\tv, err := %s\n", g.parseCall(f))
	b.WriteString("\t\tif err != nil {\n")
	fmt.Fprintf(b, "\t\t\terrs = append(errs, %s+err.Error())\n", strconv.Quote(f.Name+": "))
	b.WriteString("\t\t} else {\n")
	fmt.Fprintf(b, "\t\t\tenv.%s = %s\n", f.Ident, assign)
	b.WriteString("\t\t}\n")

	switch {
	case f.Required:
		b.WriteString("\t} else {\n")
		fmt.Fprintf(b, "\t\terrs = append(errs, %s)\n", strconv.Quote(f.Name+": required but not set"))
	case f.HasDefault:
		b.WriteString("\t} else {\n")
		fmt.Fprintf(b, "\t\tenv.%s = %s\n", f.Ident, g.defaultLiteral(f))
	}
	b.WriteString("\t}\n\n")
}

// defaultLiteral renders the parsed default of f as a Go expression.
func (Go) defaultLiteral(f goField) string {
	if f.Type == schema.TypeEnum {
		if i := indexOf(f.field.Enum, f.Default.(string)); i >= 0 {
			return f.Enum.Consts[i]
		}
	}
	if f.Type == schema.TypeJSON {
		return goLiteral(f.Default)
	}
	switch v := f.Default.(type) {
	case float64:
		return formatFloat(v)
	default:
		return goLiteral(v)
	}
}

// goLiteral renders a decoded JSON value as a Go expression of type any.
func goLiteral(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return "float64(" + formatFloat(v) + ")"
	case string:
		return strconv.Quote(v)
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = goLiteral(item)
		}
		return "[]any{" + strings.Join(items, ", ") + "}"
	case map[string]any:
		entries := make([]string, 0, len(v))
		for _, k := range sortedKeys(v) {
			entries = append(entries, strconv.Quote(k)+": "+goLiteral(v[k]))
		}
		return "map[string]any{" + strings.Join(entries, ", ") + "}"
	default:
		return strconv.Quote(fmt.Sprint(v))
	}
}

func (Go) writeHelpers(b *strings.Builder, need map[schema.VarType]bool) {
	b.WriteString(goHelperString)
	if need[schema.TypeNumber] {
		b.WriteString(goHelperNumber)
	}
	if need[schema.TypeBoolean] {
		b.WriteString(goHelperBool)
	}
	if need[schema.TypeEnum] {
		b.WriteString(goHelperEnum)
	}
	if need[schema.TypeURL] {
		b.WriteString(goHelperURL)
	}
	if need[schema.TypeDuration] {
		b.WriteString(goHelperDuration)
	}
	if need[schema.TypeJSON] {
		b.WriteString(goHelperJSON)
	}
}

const goHelperString = `
func parseString(raw string) (string, error) {
	return raw, nil
}
`

const goHelperNumber = `
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	unsigned := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X") {
		return 0, fmt.Errorf("could not convert '%s' to a number", raw)
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '_' && (i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1])) {
			return 0, fmt.Errorf("could not convert '%s' to a number", raw)
		}
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return 0, fmt.Errorf("could not convert '%s' to a number", raw)
		}
	}
	return f, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
`

const goHelperBool = `
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	}
	return false, nil
}
`

const goHelperEnum = `
func parseEnum[T ~string](raw string, allowed []T) (T, error) {
	for _, v := range allowed {
		if string(v) == raw {
			return v, nil
		}
	}
	quoted := make([]string, len(allowed))
	for i, v := range allowed {
		quoted[i] = "'" + string(v) + "'"
	}
	var zero T
	return zero, fmt.Errorf("Value '%s' not allowed; expected one of [%s].", raw, strings.Join(quoted, ", "))
}
`

const goHelperURL = `
func parseURL(raw string) (string, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw, nil
	}
	return "", fmt.Errorf("URL must start with http:// or https://")
}
`

const goHelperDuration = `
func parseDuration(raw string) (float64, error) {
	return parseNumber(strings.TrimSuffix(raw, "s"))
}
`

const goHelperJSON = `
func parseJSON(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}
	return v, nil
}
`
