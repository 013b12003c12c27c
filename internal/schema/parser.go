package schema

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultSchemaVersion is assumed when the document omits schemaVersion.
const DefaultSchemaVersion = "0.1"

// DefaultOutDir is used for targets that omit outDir.
const DefaultOutDir = "generated"

// supportedVersions is the range of schemaVersion values this loader understands.
const supportedVersions = "< 1.0.0"

var (
	// ErrConfigNotFound is returned when the config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidConfig is returned when the config document cannot be turned into a Config.
	ErrInvalidConfig = errors.New("invalid config")
)

// configFile represents the JSON/YAML document structure
type configFile struct {
	SchemaVersion string                     `yaml:"schemaVersion" json:"schemaVersion,omitempty" jsonschema:"description=Version of the envtypes schema format,default=0.1"`
	Environments  map[string][]variableEntry `yaml:"environments" json:"environments" validate:"dive,dive" jsonschema:"description=Variable declarations per environment name"`
	Targets       []targetEntry              `yaml:"targets" json:"targets" validate:"dive" jsonschema:"description=Code generation targets"`
}

// variableEntry represents a single variable declaration in the document
type variableEntry struct {
	Name        string   `yaml:"name" json:"name" validate:"required" jsonschema:"description=Environment variable name"`
	Type        string   `yaml:"type" json:"type,omitempty" jsonschema:"enum=string,enum=number,enum=boolean,enum=enum,enum=url,enum=duration,enum=json,default=string"`
	Required    *bool    `yaml:"required" json:"required,omitempty" jsonschema:"default=true"`
	Default     *string  `yaml:"default" json:"default,omitempty" jsonschema:"description=Raw default value; only allowed when required is false"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Secret      bool     `yaml:"secret" json:"secret,omitempty"`
	Deprecated  bool     `yaml:"deprecated" json:"deprecated,omitempty"`
	Enum        []string `yaml:"enum" json:"enum,omitempty" jsonschema:"description=Allowed values for enum variables"`
}

// targetEntry represents a single generation target in the document
type targetEntry struct {
	Language string `yaml:"language" json:"language" validate:"required" jsonschema:"enum=ts,enum=go,enum=python"`
	OutDir   string `yaml:"outDir" json:"outDir,omitempty" jsonschema:"default=generated"`
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseConfig parses JSON or YAML content into a Config.
// Environment order follows the key order of the environments mapping.
func ParseConfig(content []byte) (Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return Config{}, fmt.Errorf("%w: config must be a JSON or YAML object", ErrInvalidConfig)
	}
	doc := root.Content[0]

	var cf configFile
	if err := doc.Decode(&cf); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := structValidator.Struct(cf); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, describeValidation(err))
	}

	version := cf.SchemaVersion
	if version == "" {
		version = DefaultSchemaVersion
	}
	if err := checkSchemaVersion(version); err != nil {
		return Config{}, err
	}

	cfg := Config{
		SchemaVersion: version,
		Environments:  make([]Environment, 0, len(cf.Environments)),
		Targets:       make([]TargetDefinition, 0, len(cf.Targets)),
	}

	for _, name := range environmentOrder(doc, cf.Environments) {
		entries := cf.Environments[name]
		env := Environment{
			Name:      name,
			Variables: make([]VariableDefinition, 0, len(entries)),
		}
		for _, entry := range entries {
			env.Variables = append(env.Variables, entry.definition())
		}
		cfg.Environments = append(cfg.Environments, env)
	}

	for _, t := range cf.Targets {
		outDir := t.OutDir
		if outDir == "" {
			outDir = DefaultOutDir
		}
		cfg.Targets = append(cfg.Targets, TargetDefinition{
			Language: t.Language,
			OutDir:   outDir,
		})
	}

	return cfg, nil
}

// definition applies document defaults to a variable entry
func (e variableEntry) definition() VariableDefinition {
	varType := VarType(e.Type)
	if e.Type == "" {
		varType = TypeString
	}

	required := true
	if e.Required != nil {
		required = *e.Required
	}

	var enum []string
	if len(e.Enum) > 0 {
		enum = append([]string(nil), e.Enum...)
	}

	var def *string
	if e.Default != nil {
		d := *e.Default
		def = &d
	}

	return VariableDefinition{
		Name:        e.Name,
		Type:        varType,
		Required:    required,
		Default:     def,
		Enum:        enum,
		Secret:      e.Secret,
		Deprecated:  e.Deprecated,
		Description: e.Description,
	}
}

// environmentOrder returns the environment names in the order they appear in the document.
func environmentOrder(doc *yaml.Node, envs map[string][]variableEntry) []string {
	names := make([]string, 0, len(envs))
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "environments" || doc.Content[i+1].Kind != yaml.MappingNode {
			continue
		}
		mapping := doc.Content[i+1]
		for j := 0; j+1 < len(mapping.Content); j += 2 {
			names = append(names, mapping.Content[j].Value)
		}
	}

	// Anchors and merge keys can hide names from the node walk.
	if len(names) != len(envs) {
		names = names[:0]
		for name := range envs {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	return names
}

func checkSchemaVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: schemaVersion '%s' is not a valid version", ErrInvalidConfig, version)
	}
	c, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return fmt.Errorf("schema version constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: schemaVersion '%s' is not supported (want %s)", ErrInvalidConfig, version, supportedVersions)
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "configFile.")
		msgs = append(msgs, fmt.Sprintf("missing required field '%s'", field))
	}
	return strings.Join(msgs, "; ")
}

// LoadConfig reads and parses a config file from fs.
func LoadConfig(fs billy.Filesystem, path string) (Config, error) {
	content, err := util.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	return ParseConfig(content)
}
