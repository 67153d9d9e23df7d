// Package extract pulls best-effort field values out of free text using
// fixed patterns and keyword tables. Rules never fail: a rule that finds
// nothing contributes nothing, and the caller falls back to schema defaults.
package extract

import (
	"github.com/JaimeStill/lexdraft/internal/classify"
	"github.com/JaimeStill/lexdraft/internal/registry"
)

// Extractor applies every rule to a single input. It is immutable after
// construction and safe for concurrent use.
type Extractor struct {
	names      []*labelPattern
	dates      []*labelPattern
	locations  []*labelPattern
	amounts    []*labelPattern
	categories []*categoryTable
	narratives []*narrative
}

// New compiles the extraction rules.
func New() *Extractor {
	return &Extractor{
		names:      initNamePatterns(),
		dates:      initDatePatterns(),
		locations:  initLocationPatterns(),
		amounts:    initAmountPatterns(),
		categories: initCategoryTables(),
		narratives: initNarratives(),
	}
}

// state tracks the values chosen so far for one document so later rules can
// tell whether a field still holds its placeholder.
type state struct {
	doc      registry.DocumentType
	original string
	lower    string
	query    string
	response string
	values   map[string]string
	filled   map[string]string
}

func (s *state) pristine(field string) bool {
	def, ok := s.doc.Placeholder(field)
	if !ok {
		return false
	}
	return s.values[field] == def
}

func (s *state) set(field, value string) {
	s.values[field] = value
	s.filled[field] = value
}

// Extract returns the fields of doc it could fill from in. Fields absent
// from the result were not confidently extracted.
func (e *Extractor) Extract(in classify.Input, doc registry.DocumentType) map[string]string {
	s := &state{
		doc:      doc,
		original: in.Combined(),
		lower:    in.Lower(),
		query:    in.Query,
		response: in.Response,
		values:   doc.Defaults(),
		filled:   make(map[string]string),
	}

	e.extractName(s)
	e.extractDate(s)
	e.extractLocation(s)
	if doc.ID == "rental_agreement" {
		e.extractAmount(s)
	}
	e.extractCategories(s)
	e.composeNarratives(s)

	return s.filled
}

func (e *Extractor) extractName(s *state) {
	name, ok := firstMatch(e.names, s.original, trimName)
	if !ok {
		return
	}
	name = titleCase(name)
	for _, f := range s.doc.Fields {
		if containsAll(f.Name, "name") && s.pristine(f.Name) {
			s.set(f.Name, name)
			return
		}
	}
}

func (e *Extractor) extractDate(s *state) {
	date, ok := firstMatch(e.dates, s.original, nil)
	if !ok {
		return
	}
	if field, ok := firstField(s.doc, "date", "incident"); ok {
		s.set(field, date)
	}
}

func (e *Extractor) extractLocation(s *state) {
	loc, ok := firstMatch(e.locations, s.original, trimLocation)
	if !ok {
		return
	}
	if field, ok := firstField(s.doc, "location"); ok {
		s.set(field, loc)
	}
}

func (e *Extractor) extractAmount(s *state) {
	const field = "rent_amount"
	if !s.pristine(field) {
		return
	}
	amount, ok := firstMatch(e.amounts, s.lower, nil)
	if !ok {
		return
	}
	digits := stripCommas(amount)
	if digits == "" {
		return
	}
	s.set(field, "Rs. "+digits)
}

func (e *Extractor) extractCategories(s *state) {
	for _, table := range e.categories {
		if !s.doc.HasField(table.field) {
			continue
		}
		if label, ok := table.lookup(s.lower); ok {
			s.set(table.field, label)
		}
	}
}

func (e *Extractor) composeNarratives(s *state) {
	for _, n := range e.narratives {
		if !s.doc.HasField(n.field) {
			continue
		}
		if text, ok := n.compose(s.query, s.response); ok {
			s.set(n.field, text)
		}
	}
}
