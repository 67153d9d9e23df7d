package registry

import (
	"fmt"
	"strings"
)

func normalize(t DocumentType) (DocumentType, error) {
	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		return t, fmt.Errorf("%w: document type id required", ErrSchemaMisconfiguration)
	}
	if t.DisplayName == "" {
		t.DisplayName = t.ID
	}
	if t.Template == "" {
		t.Template = t.ID + ".tmpl"
	}

	if len(t.Keywords) == 0 {
		return t, fmt.Errorf("%w: %s: keyword list is empty", ErrSchemaMisconfiguration, t.ID)
	}

	keywords := make([]string, 0, len(t.Keywords))
	seen := make(map[string]bool, len(t.Keywords))
	for _, kw := range t.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			return t, fmt.Errorf("%w: %s: blank keyword", ErrSchemaMisconfiguration, t.ID)
		}
		if seen[kw] {
			continue
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}
	t.Keywords = keywords

	if len(t.Fields) == 0 {
		return t, fmt.Errorf("%w: %s: field schema is empty", ErrSchemaMisconfiguration, t.ID)
	}

	fields := make([]Field, 0, len(t.Fields))
	names := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			return t, fmt.Errorf("%w: %s: field name required", ErrSchemaMisconfiguration, t.ID)
		}
		if names[f.Name] {
			return t, fmt.Errorf("%w: %s: duplicate field %q", ErrSchemaMisconfiguration, t.ID, f.Name)
		}
		names[f.Name] = true
		fields = append(fields, f)
	}
	t.Fields = fields

	return t, nil
}
