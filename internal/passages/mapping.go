package passages

import (
	"net/url"

	"github.com/JaimeStill/lexdraft/pkg/query"
	"github.com/JaimeStill/lexdraft/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "passages", "p").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("title", "Title").
	Project("section_number", "SectionNumber").
	Project("source_type", "SourceType").
	Project("legal_source", "LegalSource").
	Project("source_category", "SourceCategory").
	Project("content", "Content").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "DocumentID",
}

// rank scores a passage against the query bound to $1.
const rank = "ts_rank(p.search_vector, plainto_tsquery('english', $1))"

const match = "p.search_vector @@ plainto_tsquery('english', $1)"

// Filters narrows passage queries. Nil fields are ignored. DocumentID and
// Title use case-insensitive contains matching; the rest match exactly.
type Filters struct {
	DocumentID     *string `json:"document_id,omitempty"`
	Title          *string `json:"title,omitempty"`
	SourceType     *string `json:"source_type,omitempty"`
	LegalSource    *string `json:"legal_source,omitempty"`
	SourceCategory *string `json:"source_category,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("DocumentID", f.DocumentID).
		WhereContains("Title", f.Title).
		WhereEquals("SourceType", f.SourceType).
		WhereEquals("LegalSource", f.LegalSource).
		WhereEquals("SourceCategory", f.SourceCategory)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("document_id"); v != "" {
		f.DocumentID = &v
	}
	if v := values.Get("title"); v != "" {
		f.Title = &v
	}
	if v := values.Get("source_type"); v != "" {
		f.SourceType = &v
	}
	if v := values.Get("legal_source"); v != "" {
		f.LegalSource = &v
	}
	if v := values.Get("source_category"); v != "" {
		f.SourceCategory = &v
	}

	return f
}

func scanPassage(s repository.Scanner) (Passage, error) {
	var p Passage
	err := s.Scan(
		&p.ID,
		&p.DocumentID,
		&p.Title,
		&p.SectionNumber,
		&p.SourceType,
		&p.LegalSource,
		&p.SourceCategory,
		&p.Content,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func scanRanked(s repository.Scanner) (SearchResult, error) {
	var (
		p     Passage
		score float64
	)
	err := s.Scan(
		&p.ID,
		&p.DocumentID,
		&p.Title,
		&p.SectionNumber,
		&p.SourceType,
		&p.LegalSource,
		&p.SourceCategory,
		&p.Content,
		&p.CreatedAt,
		&p.UpdatedAt,
		&score,
	)
	return SearchResult{
		ID:              p.ID,
		Content:         p.Content,
		Metadata:        p.metadata(),
		SimilarityScore: score,
	}, err
}
