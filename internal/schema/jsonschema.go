package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaID identifies the JSON Schema document describing config files.
const SchemaID = "https://envtypes.dev/envtypes.config.schema.json"

// JSONSchema returns the JSON Schema describing the config file format.
func JSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	s := r.Reflect(&configFile{})

	s.ID = SchemaID
	s.Title = "envtypes configuration"
	s.Description = "Environment variable declarations per environment and code generation targets"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
