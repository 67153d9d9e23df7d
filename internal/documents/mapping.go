package documents

import (
	"net/url"

	"github.com/JaimeStill/lexdraft/pkg/query"
	"github.com/JaimeStill/lexdraft/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("document_type", "DocumentType").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("generated_at", "GeneratedAt")

var defaultSort = query.SortField{
	Field:      "GeneratedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. DocumentType uses exact matching; Filename and
// StorageKey use case-insensitive contains matching.
type Filters struct {
	DocumentType *string `json:"document_type,omitempty"`
	Filename     *string `json:"filename,omitempty"`
	StorageKey   *string `json:"storage_key,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentType", f.DocumentType).
		WhereContains("Filename", f.Filename).
		WhereContains("StorageKey", f.StorageKey)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if dt := values.Get("document_type"); dt != "" {
		f.DocumentType = &dt
	}
	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}
	if sk := values.Get("storage_key"); sk != "" {
		f.StorageKey = &sk
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.DocumentType,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.GeneratedAt,
	)
	return d, err
}
