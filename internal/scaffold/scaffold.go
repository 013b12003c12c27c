// Package scaffold creates the starter files of a new envtypes project.
package scaffold

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"envtypes/internal/schema"
)

// DefaultConfigPath is the config file name used when none is given.
const DefaultConfigPath = "envtypes.config.json"

// GitignorePath is the ignore file updated by Init.
const GitignorePath = ".gitignore"

const envFilePlaceholder = "# populate environment variables here\n"

// gitignoreEntries are appended to .gitignore when missing.
var gitignoreEntries = []string{".env.*", "generated"}

// templateVariable and friends mirror the on-disk document for the starter config.
type templateVariable struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Required bool    `json:"required"`
	Default  *string `json:"default,omitempty"`
}

type templateTarget struct {
	Language string `json:"language"`
	OutDir   string `json:"outDir"`
}

type templateDocument struct {
	SchemaVersion string                        `json:"schemaVersion"`
	Environments  map[string][]templateVariable `json:"environments"`
	Targets       []templateTarget              `json:"targets"`
}

// TemplateEnvironments are the environments declared by the starter config.
var TemplateEnvironments = []string{"development", "production"}

func templateDoc() templateDocument {
	off := "false"
	vars := []templateVariable{
		{Name: "API_URL", Type: string(schema.TypeURL), Required: true},
		{Name: "FEATURE_FLAG", Type: string(schema.TypeBoolean), Required: false, Default: &off},
	}

	envs := make(map[string][]templateVariable, len(TemplateEnvironments))
	for _, name := range TemplateEnvironments {
		envs[name] = vars
	}

	return templateDocument{
		SchemaVersion: schema.DefaultSchemaVersion,
		Environments:  envs,
		Targets: []templateTarget{
			{Language: "ts", OutDir: "generated/ts"},
			{Language: "go", OutDir: "generated/go"},
			{Language: "python", OutDir: "generated/python"},
		},
	}
}

// TemplateConfig returns the starter config document as indented JSON.
func TemplateConfig() ([]byte, error) {
	data, err := json.MarshalIndent(templateDoc(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template config: %w", err)
	}
	return append(data, '\n'), nil
}

// EnvFileName returns the conventional .env file name for an environment.
func EnvFileName(env string) string {
	return ".env." + env
}

// Result reports what Init wrote.
type Result struct {
	ConfigPath       string   `json:"configPath"`
	CreatedEnvFiles  []string `json:"createdEnvFiles"`
	GitignoreUpdated bool     `json:"gitignoreUpdated"`
}

// Init writes the starter config to configPath, creates an empty .env file
// for every template environment that does not have one yet, and adds the
// env files and generated output to .gitignore. An existing config file is
// replaced; existing .env files are left untouched.
func Init(fs billy.Filesystem, configPath string) (Result, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	result := Result{ConfigPath: configPath, CreatedEnvFiles: []string{}}

	data, err := TemplateConfig()
	if err != nil {
		return result, err
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return result, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := util.WriteFile(fs, configPath, data, 0644); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	for _, env := range TemplateEnvironments {
		name := EnvFileName(env)
		created, err := createIfMissing(fs, name, []byte(envFilePlaceholder))
		if err != nil {
			return result, err
		}
		if created {
			result.CreatedEnvFiles = append(result.CreatedEnvFiles, name)
		}
	}

	updated, err := UpdateGitignore(fs, GitignorePath, gitignoreEntries...)
	if err != nil {
		return result, err
	}
	result.GitignoreUpdated = updated

	return result, nil
}

func createIfMissing(fs billy.Filesystem, path string, data []byte) (bool, error) {
	if _, err := fs.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := util.WriteFile(fs, path, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// UpdateGitignore appends every entry not already present in the file at
// path, creating the file if needed. It reports whether the file changed.
// Presence is a substring check, so "generated/ts" counts as "generated".
func UpdateGitignore(fs billy.Filesystem, path string, entries ...string) (bool, error) {
	content := ""
	data, err := util.ReadFile(fs, path)
	switch {
	case err == nil:
		content = string(data)
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated := content
	for _, entry := range entries {
		if !strings.Contains(updated, entry) {
			updated += "\n" + entry
		}
	}
	updated = strings.TrimSpace(updated) + "\n"

	if updated == content {
		return false, nil
	}
	if err := util.WriteFile(fs, path, []byte(updated), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
