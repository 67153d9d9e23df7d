package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed types.yaml
var builtinTypes []byte

//go:embed schema.json
var documentSchema string

const schemaURL = "lexdraft://registry/schema.json"

var compiledSchema = jsonschema.MustCompileString(schemaURL, documentSchema)

type document struct {
	Default string         `yaml:"default"`
	Types   []DocumentType `yaml:"types"`
}

// Builtin returns the registry compiled into the binary.
func Builtin() (*Registry, error) {
	return Parse(builtinTypes)
}

// Load reads a registry definition from path. An empty path yields the
// built-in registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Builtin()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSchemaMisconfiguration, path, err)
	}
	return Parse(data)
}

// Parse validates a YAML registry definition against the document schema and
// constructs a Registry from it.
func Parse(data []byte) (*Registry, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrSchemaMisconfiguration, err)
	}

	instance, err := toJSONValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMisconfiguration, err)
	}

	if err := compiledSchema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMisconfiguration, err)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSchemaMisconfiguration, err)
	}

	return New(doc.Default, doc.Types)
}

// toJSONValue round-trips a YAML value through encoding/json so the schema
// validator sees the same shapes it would for a JSON document.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	return out, nil
}
