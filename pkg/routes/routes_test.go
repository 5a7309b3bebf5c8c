package routes_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/empath/pkg/openapi"
	"github.com/JaimeStill/empath/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/emotions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/history", Handler: ok},
			{Method: "GET", Pattern: "/{id}", Handler: ok},
		},
		Children: []routes.Group{
			{
				Prefix: "/lexicons",
				Routes: []routes.Route{{Method: "GET", Pattern: "/{key...}", Handler: ok}},
			},
		},
	})

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"history", "GET", "/emotions/history", 200},
		{"by id", "GET", "/emotions/0b4a", 200},
		{"nested wildcard", "GET", "/emotions/lexicons/v2/base.yaml", 200},
		{"wrong method", "POST", "/emotions/history", 405},
		{"unregistered", "GET", "/other", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	cfg := &openapi.Config{}
	cfg.Finalize(nil)
	spec := openapi.NewSpec(cfg, "test")

	tagged := &openapi.Operation{Summary: "Tagged", Tags: []string{"Custom"}}
	inherited := &openapi.Operation{Summary: "Inherited"}
	nested := &openapi.Operation{Summary: "Nested"}

	routes.Describe(spec, routes.Group{
		Prefix:  "/emotions",
		Tags:    []string{"Entries"},
		Schemas: map[string]*openapi.Schema{"Entry": {Type: "object"}},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/history", Handler: ok, OpenAPI: inherited},
			{Method: "POST", Pattern: "/history", Handler: ok, OpenAPI: tagged},
			{Method: "GET", Pattern: "/hidden", Handler: ok},
		},
		Children: []routes.Group{
			{
				Prefix: "/blobs",
				Tags:   []string{"Blobs"},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{key...}", Handler: ok, OpenAPI: nested},
					{Method: "GET", Pattern: "/{$}", Handler: ok, OpenAPI: nested},
				},
			},
		},
	})

	history, found := spec.Paths["/emotions/history"]
	if !found {
		t.Fatal("missing /emotions/history")
	}
	if !slices.Equal(history.Get.Tags, []string{"Entries"}) {
		t.Errorf("inherited tags: got %v", history.Get.Tags)
	}
	if !slices.Equal(history.Post.Tags, []string{"Custom"}) {
		t.Errorf("explicit tags: got %v", history.Post.Tags)
	}
	if inherited.Tags != nil {
		t.Error("route operation should not be mutated")
	}

	if _, found := spec.Paths["/emotions/hidden"]; found {
		t.Error("undocumented route should be skipped")
	}

	blob, found := spec.Paths["/emotions/blobs/{key}"]
	if !found {
		t.Fatalf("wildcard path not converted: %v", keys(spec.Paths))
	}
	if !slices.Equal(blob.Get.Tags, []string{"Blobs"}) {
		t.Errorf("nested tags: got %v", blob.Get.Tags)
	}
	if _, found := spec.Paths["/emotions/blobs/"]; !found {
		t.Errorf("exact-match marker not stripped: %v", keys(spec.Paths))
	}

	if _, found := spec.Components.Schemas["Entry"]; !found {
		t.Error("group schemas should be merged into components")
	}
}

func keys(m map[string]*openapi.PathItem) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
