// Package registry holds the immutable catalogue of supported legal document
// types: their classification keywords, ordered field schemas, and the
// template each one renders through.
package registry

import "fmt"

// Field is a single named blank in a document template together with the
// placeholder used when nothing better is known.
type Field struct {
	Name    string `json:"name" yaml:"name"`
	Default string `json:"default" yaml:"default"`
}

// DocumentType describes one supported category of legal document.
type DocumentType struct {
	ID          string   `json:"id" yaml:"id"`
	DisplayName string   `json:"display_name" yaml:"display_name"`
	Template    string   `json:"template" yaml:"template"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Fields      []Field  `json:"fields" yaml:"fields"`
}

// Defaults returns the field schema as a fresh name to placeholder map.
func (d DocumentType) Defaults() map[string]string {
	out := make(map[string]string, len(d.Fields))
	for _, f := range d.Fields {
		out[f.Name] = f.Default
	}
	return out
}

// FieldNames returns the schema field names in declaration order.
func (d DocumentType) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// HasField reports whether the schema declares the named field.
func (d DocumentType) HasField(name string) bool {
	for _, f := range d.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Placeholder returns the schema default for the named field.
func (d DocumentType) Placeholder(name string) (string, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Default, true
		}
	}
	return "", false
}

// Registry is a validated, ordered set of document types. It is built once
// at startup and is safe for concurrent reads.
type Registry struct {
	types       []DocumentType
	index       map[string]int
	defaultType string
}

// New validates the given types and returns a Registry preserving their
// declaration order. defaultType names the type returned when classification
// finds no evidence for any type. Failures wrap ErrSchemaMisconfiguration.
func New(defaultType string, types []DocumentType) (*Registry, error) {
	r := &Registry{
		types:       make([]DocumentType, 0, len(types)),
		index:       make(map[string]int, len(types)),
		defaultType: defaultType,
	}

	if len(types) == 0 {
		return nil, fmt.Errorf("%w: no document types declared", ErrSchemaMisconfiguration)
	}

	for _, t := range types {
		normalized, err := normalize(t)
		if err != nil {
			return nil, err
		}
		if _, dup := r.index[normalized.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate document type %q", ErrSchemaMisconfiguration, normalized.ID)
		}
		r.index[normalized.ID] = len(r.types)
		r.types = append(r.types, normalized)
	}

	if _, ok := r.index[defaultType]; !ok {
		return nil, fmt.Errorf("%w: default type %q is not declared", ErrSchemaMisconfiguration, defaultType)
	}

	return r, nil
}

// Types returns all document types in declaration order.
func (r *Registry) Types() []DocumentType {
	out := make([]DocumentType, len(r.types))
	for i, t := range r.types {
		out[i] = clone(t)
	}
	return out
}

// Get returns the document type with the given id.
func (r *Registry) Get(id string) (DocumentType, error) {
	i, ok := r.index[id]
	if !ok {
		return DocumentType{}, fmt.Errorf("%w: %q", ErrUnknownDocumentType, id)
	}
	return clone(r.types[i]), nil
}

// Schema returns the ordered field schema of the given type.
func (r *Registry) Schema(id string) ([]Field, error) {
	t, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return t.Fields, nil
}

// Has reports whether id is a registered document type.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Default returns the id of the fallback document type.
func (r *Registry) Default() string {
	return r.defaultType
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.types)
}

func clone(t DocumentType) DocumentType {
	t.Keywords = append([]string(nil), t.Keywords...)
	t.Fields = append([]Field(nil), t.Fields...)
	return t
}
