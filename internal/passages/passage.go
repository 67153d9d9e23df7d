// Package passages implements the legal passage corpus: indexed statute
// sections and guidance text that support generated documents.
package passages

import (
	"time"

	"github.com/google/uuid"
)

// Passage is one indexed excerpt of legal text with its source metadata.
type Passage struct {
	ID             uuid.UUID `json:"id"`
	DocumentID     string    `json:"document_id"`
	Title          string    `json:"title"`
	SectionNumber  *string   `json:"section_number"`
	SourceType     string    `json:"source_type"`
	LegalSource    string    `json:"legal_source"`
	SourceCategory string    `json:"source_category"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to index a new passage.
type CreateCommand struct {
	DocumentID     string  `json:"document_id"`
	Title          string  `json:"title"`
	SectionNumber  *string `json:"section_number,omitempty"`
	SourceType     string  `json:"source_type"`
	LegalSource    string  `json:"legal_source"`
	SourceCategory string  `json:"source_category"`
	Content        string  `json:"content"`
}

// Metadata describes where a search result came from.
type Metadata struct {
	DocumentID     string  `json:"document_id"`
	Title          string  `json:"title"`
	SectionNumber  *string `json:"section_number,omitempty"`
	SourceType     string  `json:"source_type"`
	LegalSource    string  `json:"legal_source"`
	SourceCategory string  `json:"source_category"`
}

// SearchRequest asks for the passages most relevant to Query.
// TopK defaults to 3.
type SearchRequest struct {
	Query   string  `json:"query"`
	TopK    int     `json:"top_k"`
	Filters Filters `json:"filters"`
}

// SearchResult is a ranked passage.
type SearchResult struct {
	ID              uuid.UUID `json:"id"`
	Content         string    `json:"content"`
	Metadata        Metadata  `json:"metadata"`
	SimilarityScore float64   `json:"similarity_score"`
}

// SearchResponse wraps ranked results with timing information.
// SearchTime is in seconds.
type SearchResponse struct {
	Results      []SearchResult `json:"results"`
	Query        string         `json:"query"`
	TotalResults int            `json:"total_results"`
	SearchTime   float64        `json:"search_time"`
}

// DefaultTopK is used when a search does not specify how many results to return.
const DefaultTopK = 3

// MaxTopK bounds the number of results a single search may return.
const MaxTopK = 20

// Normalize applies TopK defaults and bounds.
func (r *SearchRequest) Normalize() {
	if r.TopK < 1 {
		r.TopK = DefaultTopK
	}
	r.TopK = min(r.TopK, MaxTopK)
}

func (p Passage) metadata() Metadata {
	return Metadata{
		DocumentID:     p.DocumentID,
		Title:          p.Title,
		SectionNumber:  p.SectionNumber,
		SourceType:     p.SourceType,
		LegalSource:    p.LegalSource,
		SourceCategory: p.SourceCategory,
	}
}
