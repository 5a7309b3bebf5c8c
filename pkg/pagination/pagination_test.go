package pagination_test

import (
	"net/url"
	"slices"
	"testing"

	"github.com/JaimeStill/empath/pkg/pagination"
	"github.com/JaimeStill/empath/pkg/query"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := pagination.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg != defaultConfig() {
			t.Errorf("config = %+v, want %+v", cfg, defaultConfig())
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_PAGE_SIZE", "50")
		t.Setenv("TEST_MAX_PAGE", "200")

		cfg := pagination.Config{}
		err := cfg.Finalize(&pagination.Env{DefaultPageSize: "TEST_PAGE_SIZE", MaxPageSize: "TEST_MAX_PAGE"})
		if err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.DefaultPageSize != 50 || cfg.MaxPageSize != 200 {
			t.Errorf("config = %+v", cfg)
		}
	})

	t.Run("default exceeds max", func(t *testing.T) {
		cfg := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestConfigMerge(t *testing.T) {
	base := defaultConfig()
	base.Merge(&pagination.Config{MaxPageSize: 50})

	if base.DefaultPageSize != 20 || base.MaxPageSize != 50 {
		t.Errorf("merged = %+v", base)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		req      pagination.PageRequest
		wantPage int
		wantSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20},
		{"negative page", pagination.PageRequest{Page: -3, PageSize: 10}, 1, 10},
		{"size over max", pagination.PageRequest{Page: 2, PageSize: 500}, 2, 100},
		{"valid", pagination.PageRequest{Page: 4, PageSize: 25}, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Normalize(defaultConfig())
			if req.Page != tt.wantPage || req.PageSize != tt.wantSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", req.Page, req.PageSize, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestPageRequestWindow(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		total     int
		wantStart int
		wantEnd   int
	}{
		{"first page", 1, 25, 0, 10},
		{"partial last page", 3, 25, 20, 25},
		{"past the end", 5, 25, 25, 25},
		{"empty", 1, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: 10}
			start, end := req.Window(tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Window(%d) = [%d, %d), want [%d, %d)", tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantSize   int
		wantSearch string
		wantSort   []query.SortField
	}{
		{"empty", "", 1, 20, "", nil},
		{"all params", "page=2&page_size=5&search=work&sort=-RecordedAt", 2, 5, "work", []query.SortField{{Field: "RecordedAt", Descending: true}}},
		{"limit alias", "limit=7", 1, 7, "", nil},
		{"invalid numbers", "page=abc&page_size=xyz", 1, 20, "", nil},
		{"blank search", "search=%20%20", 1, 20, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req := pagination.PageRequestFromQuery(values, defaultConfig())

			if req.Page != tt.wantPage || req.PageSize != tt.wantSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", req.Page, req.PageSize, tt.wantPage, tt.wantSize)
			}

			search := ""
			if req.Search != nil {
				search = *req.Search
			}
			if search != tt.wantSearch {
				t.Errorf("search = %q, want %q", search, tt.wantSearch)
			}
			if !slices.Equal(req.Sort, tt.wantSort) {
				t.Errorf("sort = %v, want %v", req.Sort, tt.wantSort)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		data      []string
		total     int
		pageSize  int
		wantPages int
	}{
		{"exact pages", []string{"a"}, 20, 10, 2},
		{"remainder", []string{"a"}, 21, 10, 3},
		{"empty", nil, 0, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult(tt.data, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantPages)
			}
			if result.Data == nil {
				t.Error("Data should never be nil")
			}
		})
	}
}
