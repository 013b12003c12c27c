// Package emitter renders typed environment accessors for several target
// languages from the same list of variable declarations.
//
// Rendering is pure: the same declarations always produce byte-identical
// output, with variables in declaration order. Only writing the rendered
// file touches the filesystem.
package emitter

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"envtypes/internal/coerce"
	"envtypes/internal/schema"
)

// generatedHeader marks every emitted file.
const generatedHeader = "Code generated by envtypes. DO NOT EDIT."

// Emitter renders the accessor source for one target language.
type Emitter interface {
	// Language returns the target identifier used in config files (e.g., "ts").
	Language() string
	// Filename returns the name of the generated file (e.g., "env.ts").
	Filename() string
	// Render returns the generated source for vars.
	Render(vars []schema.VariableDefinition) []byte
}

// field is the language-neutral view of a variable that every emitter renders.
type field struct {
	Name        string
	Type        schema.VarType // string for unknown types and enums without values
	Enum        []string
	Optional    bool // not required and no usable default
	Required    bool // missing values are errors
	HasDefault  bool
	Default     any // parsed through coerce.Parse
	Description string
	Secret      bool
	Deprecated  bool
}

// newFields converts vars in order. Only the first declaration of a name is kept.
func newFields(vars []schema.VariableDefinition) []field {
	fields := make([]field, 0, len(vars))
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		fields = append(fields, newField(v))
	}
	return fields
}

func newField(v schema.VariableDefinition) field {
	def := v
	if !def.Type.Valid() || (def.Type == schema.TypeEnum && len(def.Enum) == 0) {
		def.Type = schema.TypeString
	}

	f := field{
		Name:        v.Name,
		Type:        def.Type,
		Enum:        def.Enum,
		Description: v.Description,
		Secret:      v.Secret,
		Deprecated:  v.Deprecated,
	}

	if def.Default != nil {
		// A default that does not coerce is left out rather than rendered raw.
		if parsed, err := coerce.Parse(*def.Default, def); err == nil && finite(parsed) {
			f.HasDefault = true
			f.Default = parsed
		}
	}

	f.Required = v.Required && !f.HasDefault
	f.Optional = !f.Required && !f.HasDefault
	return f
}

// finite reports false for NaN and infinite numbers, which have no portable literal.
func finite(v any) bool {
	f, ok := v.(float64)
	return !ok || (!math.IsNaN(f) && !math.IsInf(f, 0))
}

// docLines returns the documentation lines for f, without comment markers.
func (f field) docLines() []string {
	var lines []string
	if desc := strings.TrimSpace(f.Description); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			lines = append(lines, strings.TrimRight(line, " \t\r"))
		}
	}
	if f.Secret {
		lines = append(lines, "Secret: do not log this value.")
	}
	return lines
}

// helpers reports which parse helpers the fields need.
func helpers(fields []field) map[schema.VarType]bool {
	need := make(map[schema.VarType]bool)
	for _, f := range fields {
		need[f.Type] = true
	}
	if need[schema.TypeDuration] {
		need[schema.TypeNumber] = true
	}
	return need
}

// formatFloat renders f in the shortest form that reads back exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// indexOf returns the position of value in values, or -1.
func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}
