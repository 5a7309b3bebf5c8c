package api

import (
	"net/http"

	"github.com/JaimeStill/empath/internal/config"
	"github.com/JaimeStill/empath/pkg/openapi"
	"github.com/JaimeStill/empath/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	cfg *config.Config,
	domain *Domain,
	runtime *Runtime,
) error {
	groups := []routes.Group{
		domain.Classifier.Handler().Routes(),
		domain.Entries.Handler().Routes(),
		domain.Recommendations.Handler().Routes(),
		domain.Chat.Handler().Routes(),
	}

	if runtime.Storage != nil {
		lexicons := newLexiconHandler(
			runtime.Storage,
			runtime.Logger,
			runtime.MaxRequestSize,
			runtime.MaxListSize,
		)
		groups = append(groups, lexicons.routes())
	}

	spec, err := buildSpec(cfg, groups)
	if err != nil {
		return err
	}

	routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
	return nil
}

// buildSpec renders the OpenAPI document for groups once at startup.
func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)
	routes.Describe(spec, groups...)
	return openapi.MarshalJSON(spec)
}
