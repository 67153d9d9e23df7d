package extract

import (
	"fmt"
	"strings"
)

// narrative composes a fixed paragraph for a free-text field from excerpts
// of the query and, when responseLimit is non-zero, the response.
type narrative struct {
	field         string
	queryLimit    int
	responseLimit int
	format        func(query, response string) string
}

func (n *narrative) compose(query, response string) (string, bool) {
	q := excerpt(query, n.queryLimit)
	if q == "" {
		return "", false
	}
	r := ""
	if n.responseLimit > 0 {
		r = excerpt(response, n.responseLimit)
	}
	return n.format(q, r), true
}

// excerpt trims s and cuts it to at most limit runes. The cut may land
// mid-word.
func excerpt(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > limit {
		r = r[:limit]
	}
	return strings.TrimRight(strings.TrimSpace(string(r)), " .")
}

func initNarratives() []*narrative {
	return []*narrative{
		{
			field:         "notice_body",
			queryLimit:    300,
			responseLimit: 200,
			format: func(q, r string) string {
				var b strings.Builder
				fmt.Fprintf(&b, "That the grievance giving rise to this notice is as follows: %s.", q)
				if r != "" {
					fmt.Fprintf(&b, " Having sought advice on the matter, the position is: %s.", r)
				}
				b.WriteString(" You are hereby called upon to remedy the above within the period stated below, failing which appropriate legal proceedings shall be initiated at your risk as to costs. [Add relevant dates, amounts and supporting documents.]")
				return b.String()
			},
		},
		{
			field:         "incident_description",
			queryLimit:    300,
			responseLimit: 200,
			format: func(q, r string) string {
				var b strings.Builder
				fmt.Fprintf(&b, "The complainant reports the following incident: %s.", q)
				if r != "" {
					fmt.Fprintf(&b, " Additional details: %s.", r)
				}
				b.WriteString(" [Describe the sequence of events, the persons involved and any property lost or damaged.]")
				return b.String()
			},
		},
		{
			field:      "information_requested",
			queryLimit: 250,
			format: func(q, _ string) string {
				return fmt.Sprintf("The applicant seeks the following information under the Right to Information Act, 2005: %s. [Specify the period covered, the records sought and the format in which the information is required.]", q)
			},
		},
		{
			field:      "declaration_statement",
			queryLimit: 250,
			format: func(q, _ string) string {
				return fmt.Sprintf("That the facts stated herein are true to the best of my knowledge and belief and nothing material has been concealed: %s. [State each fact as a separately numbered paragraph.]", q)
			},
		},
	}
}
