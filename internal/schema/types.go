package schema

// VarType represents the declared type of an environment variable
type VarType string

const (
	TypeString   VarType = "string"
	TypeNumber   VarType = "number"
	TypeBoolean  VarType = "boolean"
	TypeEnum     VarType = "enum"
	TypeURL      VarType = "url"
	TypeDuration VarType = "duration"
	TypeJSON     VarType = "json"
)

// SupportedTypes lists every VarType in a stable order.
var SupportedTypes = []VarType{
	TypeString,
	TypeNumber,
	TypeBoolean,
	TypeEnum,
	TypeURL,
	TypeDuration,
	TypeJSON,
}

// Valid reports whether t is one of the supported types.
func (t VarType) Valid() bool {
	for _, s := range SupportedTypes {
		if s == t {
			return true
		}
	}
	return false
}

// VariableDefinition represents a single declared environment variable
type VariableDefinition struct {
	Name        string   // e.g., "API_URL"
	Type        VarType  // one of SupportedTypes once the schema is valid
	Required    bool     // absence in an env file is an error
	Default     *string  // raw default text, nil when unset
	Enum        []string // allowed values for enum type, in declared order
	Secret      bool     // metadata only
	Deprecated  bool     // metadata only
	Description string
}

// HasDefault reports whether the variable declares a default value.
func (v VariableDefinition) HasDefault() bool {
	return v.Default != nil
}

// Environment is a named, ordered list of variable declarations
type Environment struct {
	Name      string
	Variables []VariableDefinition
}

// Lookup returns the first declaration of name in the environment.
func (e Environment) Lookup(name string) (VariableDefinition, bool) {
	for _, v := range e.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return VariableDefinition{}, false
}

// Names returns the declared variable names without duplicates, in declaration order.
func (e Environment) Names() []string {
	seen := make(map[string]bool, len(e.Variables))
	names := make([]string, 0, len(e.Variables))
	for _, v := range e.Variables {
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		names = append(names, v.Name)
	}
	return names
}

// TargetDefinition names a generation target and where its output goes
type TargetDefinition struct {
	Language string // e.g., "ts", "go", "python"
	OutDir   string
}

// Config represents the full envtypes configuration
type Config struct {
	SchemaVersion string
	Environments  []Environment // in document order
	Targets       []TargetDefinition
}

// Environment returns the environment with the given name.
func (c Config) Environment(name string) (Environment, bool) {
	for _, e := range c.Environments {
		if e.Name == name {
			return e, true
		}
	}
	return Environment{}, false
}

// EnvironmentNames returns environment names in document order.
func (c Config) EnvironmentNames() []string {
	names := make([]string, len(c.Environments))
	for i, e := range c.Environments {
		names[i] = e.Name
	}
	return names
}
