package extract

import "strings"

type category struct {
	keyword string
	label   string
}

// categoryTable maps keywords to a canonical label for one schema field.
// Entries are scanned in order and the first keyword present wins.
type categoryTable struct {
	field   string
	entries []category
}

func (t *categoryTable) lookup(lower string) (string, bool) {
	for _, c := range t.entries {
		if strings.Contains(lower, c.keyword) {
			return c.label, true
		}
	}
	return "", false
}

func initCategoryTables() []*categoryTable {
	return []*categoryTable{
		{
			field: "incident_type",
			entries: []category{
				{"theft", "Theft"},
				{"stolen", "Theft"},
				{"robbery", "Robbery"},
				{"robbed", "Robbery"},
				{"assault", "Assault"},
				{"fraud", "Cheating and Fraud"},
				{"harassment", "Harassment"},
				{"missing", "Missing Person"},
				{"accident", "Road Accident"},
				{"cyber", "Cyber Crime"},
			},
		},
		{
			field: "notice_subject",
			entries: []category{
				{"deposit", "Refund of Security Deposit"},
				{"salary", "Non-payment of Salary"},
				{"cheque", "Dishonour of Cheque"},
				{"defective", "Defective Goods or Deficient Service"},
				{"property", "Property Dispute"},
			},
		},
		{
			field: "department",
			entries: []category{
				{"education", "Department of Education"},
				{"health", "Department of Health and Family Welfare"},
				{"police", "Police Department"},
				{"municipal", "Municipal Corporation"},
				{"tax", "Income Tax Department"},
				{"passport", "Regional Passport Office"},
				{"land record", "Revenue Department (Land Records)"},
			},
		},
	}
}
