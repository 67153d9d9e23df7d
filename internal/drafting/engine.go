// Package drafting is the entry point for turning a query and response into
// a document type and a complete field set.
package drafting

import (
	"time"

	"github.com/JaimeStill/lexdraft/internal/classify"
	"github.com/JaimeStill/lexdraft/internal/extract"
	"github.com/JaimeStill/lexdraft/internal/registry"
)

// DateLayout formats the computed date field as DD/MM/YYYY.
const DateLayout = "02/01/2006"

// DefaultPlace fills the place field when no locality is configured.
const DefaultPlace = "New Delhi"

// FieldSet maps field names to values for a single document.
type FieldSet map[string]string

// Request describes a field generation call.
type Request struct {
	Query        string            `json:"query"`
	Response     string            `json:"response"`
	DocumentType string            `json:"document_type,omitempty"`
	Overrides    map[string]string `json:"overrides,omitempty"`
	DryRun       bool              `json:"dry_run"`
}

// Generation is the outcome of GenerateFields.
type Generation struct {
	DocumentType string   `json:"document_type"`
	Fields       FieldSet `json:"fields"`
	DryRun       bool     `json:"dry_run"`
}

// Engine holds the immutable collaborators needed to classify and assemble
// documents. It keeps no per-request state and is safe for concurrent use.
type Engine struct {
	registry   *registry.Registry
	classifier *classify.Classifier
	extractor  *extract.Extractor
	place      string
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithPlace sets the locality written into the place field.
func WithPlace(place string) Option {
	return func(e *Engine) {
		if place != "" {
			e.place = place
		}
	}
}

// WithClock replaces the time source used for the date field.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an Engine over reg.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:   reg,
		classifier: classify.New(reg),
		extractor:  extract.New(),
		place:      DefaultPlace,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine was built with.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// DetectType classifies the combined query and response.
func (e *Engine) DetectType(query, response string) classify.Result {
	return e.classifier.Classify(classify.Input{Query: query, Response: response})
}

// Assemble builds the field set for typeID. Layers apply in order: schema
// defaults, computed date and place, extracted values, then overrides.
// Override keys outside the schema are passed through.
func (e *Engine) Assemble(typeID string, in classify.Input, overrides map[string]string) (FieldSet, error) {
	doc, err := e.registry.Get(typeID)
	if err != nil {
		return nil, err
	}

	fields := FieldSet(doc.Defaults())

	if doc.HasField("date") {
		fields["date"] = e.now().Format(DateLayout)
	}
	if doc.HasField("place") {
		fields["place"] = e.place
	}

	for k, v := range e.extractor.Extract(in, doc) {
		fields[k] = v
	}

	for k, v := range overrides {
		fields[k] = v
	}

	return fields, nil
}

// GenerateFields resolves the document type, detecting it when the request
// names none, and assembles its field set. An explicit type that is not
// registered yields registry.ErrUnknownDocumentType.
func (e *Engine) GenerateFields(req Request) (*Generation, error) {
	typeID := req.DocumentType
	if typeID == "" {
		typeID = e.DetectType(req.Query, req.Response).DocumentType
	}

	fields, err := e.Assemble(typeID, classify.Input{Query: req.Query, Response: req.Response}, req.Overrides)
	if err != nil {
		return nil, err
	}

	return &Generation{
		DocumentType: typeID,
		Fields:       fields,
		DryRun:       req.DryRun,
	}, nil
}
