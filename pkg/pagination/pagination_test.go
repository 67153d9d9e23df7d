package pagination_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/lexdraft/pkg/pagination"
	"github.com/JaimeStill/lexdraft/pkg/query"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "50")

	cfg := pagination.Config{}
	if err := cfg.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
}

func TestConfigFinalizeDefaultExceedsMax(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}

	err := cfg.Finalize(nil)
	if err == nil || !strings.Contains(err.Error(), "exceeds max_page_size") {
		t.Errorf("Finalize() = %v, want exceeds max_page_size", err)
	}
}

func TestConfigMerge(t *testing.T) {
	base := defaultConfig()
	base.Merge(&pagination.Config{MaxPageSize: 250})

	if base.DefaultPageSize != 20 || base.MaxPageSize != 250 {
		t.Errorf("merge: got %+v", base)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	blank := "   "

	tests := []struct {
		name     string
		req      pagination.PageRequest
		page     int
		pageSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20},
		{"negative page", pagination.PageRequest{Page: -4, PageSize: 10}, 1, 10},
		{"oversized page", pagination.PageRequest{Page: 2, PageSize: 500}, 2, 100},
		{"valid", pagination.PageRequest{Page: 3, PageSize: 25}, 3, 25},
		{"blank search", pagination.PageRequest{Search: &blank}, 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(defaultConfig())
			if tt.req.Page != tt.page || tt.req.PageSize != tt.pageSize {
				t.Errorf("got page %d size %d, want %d/%d", tt.req.Page, tt.req.PageSize, tt.page, tt.pageSize)
			}
			if tt.req.Search != nil {
				t.Errorf("blank search should be dropped, got %q", *tt.req.Search)
			}
			if got, want := tt.req.Offset(), (tt.page-1)*tt.pageSize; got != want {
				t.Errorf("Offset() = %d, want %d", got, want)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{
		"page":      {"2"},
		"page_size": {"15"},
		"search":    {"notice"},
		"sort":      {"DocumentType,-GeneratedAt"},
	}

	req := pagination.PageRequestFromQuery(values, defaultConfig())

	if req.Page != 2 || req.PageSize != 15 {
		t.Errorf("paging: got %d/%d", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "notice" {
		t.Errorf("Search = %v, want notice", req.Search)
	}

	want := []query.SortField{
		{Field: "DocumentType"},
		{Field: "GeneratedAt", Descending: true},
	}
	if len(req.Sort) != len(want) || req.Sort[0] != want[0] || req.Sort[1] != want[1] {
		t.Errorf("Sort = %v, want %v", req.Sort, want)
	}
}

func TestPageRequestFromQueryDefaults(t *testing.T) {
	req := pagination.PageRequestFromQuery(url.Values{"page": {"two"}}, defaultConfig())

	if req.Page != 1 || req.PageSize != 20 || req.Search != nil {
		t.Errorf("defaults: got %+v", req)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		totalPages int
		hasNext    bool
	}{
		{"exact division", 100, 1, 5, true},
		{"remainder", 101, 6, 6, false},
		{"single page", 5, 1, 1, false},
		{"empty", 0, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{"fir"}, tt.total, tt.page, 20)
			if result.TotalPages != tt.totalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.totalPages)
			}
			if result.HasNext != tt.hasNext {
				t.Errorf("HasNext = %v, want %v", result.HasNext, tt.hasNext)
			}
		})
	}
}

func TestNewPageResultNilData(t *testing.T) {
	result := pagination.NewPageResult[string](nil, 0, 1, 20)

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"data":[]`) {
		t.Errorf("nil data should encode as [], got %s", data)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	want := []query.SortField{
		{Field: "Title"},
		{Field: "CreatedAt", Descending: true},
	}

	tests := []struct {
		name  string
		input string
	}{
		{"string", `"Title,-CreatedAt"`},
		{"array", `[{"Field":"Title","Descending":false},{"Field":"CreatedAt","Descending":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sf pagination.SortFields
			if err := json.Unmarshal([]byte(tt.input), &sf); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if len(sf) != 2 || sf[0] != want[0] || sf[1] != want[1] {
				t.Errorf("got %v, want %v", sf, want)
			}
		})
	}
}
