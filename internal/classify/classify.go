// Package classify scores free text against the registered document types
// and picks the best match.
package classify

import (
	"regexp"
	"strings"

	"github.com/JaimeStill/lexdraft/internal/registry"
)

const (
	occurrenceWeight = 2
	boundaryBonus    = 3
)

// Input is the text a classification or extraction runs against.
type Input struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Combined joins query and response with a single space.
func (in Input) Combined() string {
	return in.Query + " " + in.Response
}

// Lower returns the lower-cased combined text.
func (in Input) Lower() string {
	return strings.ToLower(in.Combined())
}

// Result is the outcome of a classification. DocumentType is always a key of
// Scores.
type Result struct {
	DocumentType string         `json:"document_type"`
	Scores       map[string]int `json:"scores"`
}

type keyword struct {
	text     string
	boundary *regexp.Regexp
}

type candidate struct {
	id       string
	keywords []keyword
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	candidates  []candidate
	defaultType string
}

// New compiles the keyword matchers for every type in reg.
func New(reg *registry.Registry) *Classifier {
	types := reg.Types()
	c := &Classifier{
		candidates:  make([]candidate, 0, len(types)),
		defaultType: reg.Default(),
	}

	for _, t := range types {
		cand := candidate{id: t.ID, keywords: make([]keyword, len(t.Keywords))}
		for i, kw := range t.Keywords {
			cand.keywords[i] = keyword{
				text:     kw,
				boundary: regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`),
			}
		}
		c.candidates = append(c.candidates, cand)
	}

	return c
}

// Classify scores every type against in. When nothing scores, the registry
// default wins with all scores at zero. Ties resolve to the type registered
// first.
func (c *Classifier) Classify(in Input) Result {
	text := in.Lower()
	scores := make(map[string]int, len(c.candidates))

	best, bestScore := "", 0
	for _, cand := range c.candidates {
		score := 0
		for _, kw := range cand.keywords {
			score += Score(text, kw.text, kw.boundary)
		}
		scores[cand.id] = score
		if score > bestScore {
			best, bestScore = cand.id, score
		}
	}

	if bestScore == 0 {
		best = c.defaultType
	}

	return Result{DocumentType: best, Scores: scores}
}

// Score computes the contribution of a single keyword to text: two points
// per substring occurrence and a flat bonus when it appears on word
// boundaries at least once. text must already be lower-cased.
func Score(text, kw string, boundary *regexp.Regexp) int {
	n := strings.Count(text, kw)
	if n == 0 {
		return 0
	}
	score := occurrenceWeight * n
	if boundary != nil && boundary.MatchString(text) {
		score += boundaryBonus
	}
	return score
}
