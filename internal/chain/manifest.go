package chain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ManifestFileName is the chain manifest at the library root.
const ManifestFileName = "chains.yaml"

// Manifest is the parsed chains.yaml file.
type Manifest struct {
	Chains []Chain `yaml:"chains" json:"chains"`
}

// manifestSchema validates the structural shape of chains.yaml.
const manifestSchema = `{
	"type": "object",
	"required": ["chains"],
	"properties": {
		"chains": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "prompts"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"prompts": {
						"type": "array",
						"minItems": 1,
						"items": {"type": "string", "minLength": 1}
					}
				},
				"additionalProperties": false
			}
		}
	},
	"additionalProperties": false
}`

// LoadManifest reads and validates the chain manifest at a library root.
// A missing manifest is not an error: the built-in chains are returned.
func LoadManifest(root string) (*Manifest, error) {
	path := filepath.Join(root, ManifestFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Manifest{Chains: Builtin()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chain manifest: %w", err)
	}

	return ParseManifest(data)
}

// ParseManifest parses and schema-validates raw manifest content.
func ParseManifest(data []byte) (*Manifest, error) {
	// Validate shape first, against the generic document
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid chain manifest yaml: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("manifest schema validation failed: %w", err)
	}
	if !result.Valid() {
		msg := "invalid chain manifest:"
		for _, e := range result.Errors() {
			msg += "\n  - " + e.String()
		}
		return nil, fmt.Errorf("%s", msg)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid chain manifest yaml: %w", err)
	}

	return &m, nil
}

// Get returns a chain by name.
func (m *Manifest) Get(name string) (*Chain, error) {
	for i := range m.Chains {
		if m.Chains[i].Name == name {
			return &m.Chains[i], nil
		}
	}
	return nil, fmt.Errorf("chain not found: %s", name)
}

// WriteDefault writes the built-in chains as a starter chains.yaml.
// An existing manifest is preserved.
func WriteDefault(root string) error {
	path := filepath.Join(root, ManifestFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(Manifest{Chains: Builtin()})
	if err != nil {
		return fmt.Errorf("failed to marshal default chains: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write chain manifest: %w", err)
	}

	return nil
}
