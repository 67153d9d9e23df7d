package extract

import (
	"regexp"
	"strings"

	"github.com/JaimeStill/lexdraft/internal/registry"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// labelPattern captures the value that follows a cue word. Group 1 of regex
// holds the value.
type labelPattern struct {
	name  string
	regex *regexp.Regexp
}

// nameWord matches a single word of a personal name: a title or initial
// with its period, or a word that may be hyphenated, apostrophised or a
// relation marker such as "s/o". Any other period ends the phrase, so a
// name never runs into the next sentence.
const nameWord = `(?:(?i:mr|mrs|ms|dr|smt|shri|sri)\.|[A-Za-z]\.|[A-Za-z][A-Za-z'/-]*)`

const namePhrase = `(` + nameWord + `(?:[ \t]+` + nameWord + `){0,3})`

func initNamePatterns() []*labelPattern {
	return []*labelPattern{
		{
			name:  "my name is",
			regex: regexp.MustCompile(`(?i:\bmy name is)\s+` + namePhrase),
		},
		{
			name:  "i am",
			regex: regexp.MustCompile(`(?i:\bi am)\s+` + namePhrase),
		},
		{
			name:  "name:",
			regex: regexp.MustCompile(`(?i:\bname:)\s*` + namePhrase),
		},
	}
}

func initDatePatterns() []*labelPattern {
	return []*labelPattern{
		{
			name:  "on",
			regex: regexp.MustCompile(`(?i:\bon)\s+(\d{1,2}/\d{1,2}/\d{4}|\d{1,2}-\d{1,2}-\d{4})\b`),
		},
		{
			name:  "date:",
			regex: regexp.MustCompile(`(?i:\bdate:)\s*(\d{1,2}/\d{1,2}/\d{4}|\d{1,2}-\d{1,2}-\d{4})\b`),
		},
	}
}

// placeWord matches a capitalised word of a place name. Street
// abbreviations such as "St." keep their period; any other period ends
// the phrase.
const placeWord = `(?:(?:St|Rd|Mt|Nr)\.|[A-Z][A-Za-z'-]*)`

func initLocationPatterns() []*labelPattern {
	return []*labelPattern{
		{
			name:  "at/in/near",
			regex: regexp.MustCompile(`\b(?:[Aa]t|[Ii]n|[Nn]ear)\s+(?:the\s+)?(` + placeWord + `(?:[ \t]+` + placeWord + `){0,3})`),
		},
	}
}

// Amount patterns run against lower-cased text.
func initAmountPatterns() []*labelPattern {
	return []*labelPattern{
		{
			name:  "rent/amount/rs.",
			regex: regexp.MustCompile(`\b(?:rent|amount|rs\.)\s*(?:of|is|:|=)?\s*(?:rs\.?\s*|₹\s*|inr\s*)?(\d[\d,]*)`),
		},
	}
}

// firstMatch returns the first capture, scanning patterns in list order
// and each pattern's matches left to right, that clean leaves non-empty.
func firstMatch(patterns []*labelPattern, text string, clean func(string) string) (string, bool) {
	if clean == nil {
		clean = strings.TrimSpace
	}
	for _, p := range patterns {
		for _, m := range p.regex.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			if v := clean(m[1]); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// Connectives that end a name phrase, e.g. "my name is asha rao and i live".
var nameStops = map[string]bool{
	"and": true, "from": true, "of": true, "i": true, "who": true,
	"residing": true, "living": true, "am": true, "my": true, "the": true,
	"at": true, "in": true, "s/o": true, "d/o": true, "w/o": true,
	"a": true, "an": true, "to": true, "with": true, "for": true,
	"is": true, "was": true, "have": true, "has": true, "had": true,
	"please": true, "want": true, "need": true, "would": true, "will": true,
	"can": true, "here": true, "this": true, "staying": true, "working": true,
}

// Words that follow "i am" without being a name: "i am not", "i am unable".
var notNames = map[string]bool{
	"not": true, "very": true, "unable": true, "also": true, "just": true,
	"currently": true, "really": true, "sure": true, "sorry": true,
	"afraid": true, "worried": true, "concerned": true, "still": true,
	"now": true, "being": true, "facing": true, "writing": true,
}

// trimName cuts a captured phrase down to the name it starts with. The
// phrase ends at a connective, and one opening with a non-name word
// yields "".
func trimName(s string) string {
	var kept []string
	for _, w := range strings.Fields(s) {
		lw := strings.ToLower(w)
		if nameStops[lw] {
			break
		}
		if len(kept) == 0 && notName(lw) {
			return ""
		}
		kept = append(kept, w)
	}
	return strings.TrimRight(strings.Join(kept, " "), "'-")
}

func notName(lw string) bool {
	return notNames[lw] || (len(lw) > 4 && strings.HasSuffix(lw, "ing"))
}

// Words a capitalised phrase after "in", "at" or "near" can start with
// that are not places: months, weekdays, pronouns and times of day.
var locationStops = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "sept": true, "oct": true,
	"nov": true, "dec": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"i": true, "me": true, "my": true, "mine": true, "we": true, "our": true,
	"us": true, "you": true, "your": true, "he": true, "him": true,
	"his": true, "she": true, "her": true, "they": true, "them": true,
	"their": true, "it": true, "its": true, "this": true, "that": true,
	"these": true, "those": true, "the": true, "a": true, "an": true,
	"morning": true, "afternoon": true, "evening": true, "night": true,
	"today": true, "yesterday": true, "tomorrow": true,
}

// trimLocation keeps the leading place words of a captured phrase.
func trimLocation(s string) string {
	var kept []string
	for _, w := range strings.Fields(s) {
		if locationStops[strings.ToLower(w)] {
			break
		}
		kept = append(kept, w)
	}
	return strings.TrimRight(strings.Join(kept, " "), "'-")
}

// Casers carry state, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// firstField returns the first schema field whose name contains every part.
func firstField(doc registry.DocumentType, parts ...string) (string, bool) {
	for _, f := range doc.Fields {
		if containsAll(f.Name, parts...) {
			return f.Name, true
		}
	}
	return "", false
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
