// Package documents implements the document generation domain: type
// discovery, classification, field assembly, PDF rendering, and the archive
// of generated artifacts.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lexdraft/internal/drafting"
	"github.com/JaimeStill/lexdraft/internal/passages"
)

// Document is an archived generated artifact and its blob storage reference.
type Document struct {
	ID           uuid.UUID `json:"id"`
	DocumentType string    `json:"document_type"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	PageCount    int       `json:"page_count"`
	StorageKey   string    `json:"storage_key"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// GenerateCommand requests a generated document. IncludePassages attaches
// the legal passages most relevant to the query.
type GenerateCommand struct {
	drafting.Request
	IncludePassages bool `json:"include_passages"`
}

// GenerateResult is the outcome of a generation. Rendering fields are empty
// for dry runs; Document is set only when the artifact was archived.
type GenerateResult struct {
	DocumentType string                  `json:"document_type"`
	Fields       drafting.FieldSet       `json:"fields"`
	DryRun       bool                    `json:"dry_run"`
	Filename     string                  `json:"filename,omitempty"`
	StorageKey   string                  `json:"storage_key,omitempty"`
	PageCount    int                     `json:"page_count,omitempty"`
	PDFContent   string                  `json:"pdf_content,omitempty"`
	Document     *Document               `json:"document,omitempty"`
	Passages     []passages.SearchResult `json:"passages,omitempty"`
}

// BatchResult reports the outcome of a single command within a batch.
// On success, Result is populated and Error is empty.
// On failure, Error describes the problem and Result is nil.
type BatchResult struct {
	Index  int             `json:"index"`
	Result *GenerateResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// DetectRequest is the body of a classification request.
type DetectRequest struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Options tunes generation and archiving.
type Options struct {
	Archive       bool
	RetryAttempts uint
	RetryDelay    time.Duration
	MaxBatchSize  int
	Concurrency   int
	PassageLimit  int
}
