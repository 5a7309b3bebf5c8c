package recommendations

import (
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/pkg/openapi"
)

var schemas = map[string]*openapi.Schema{
	"Recommendation": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":          {Type: "string"},
			"type":        openapi.Enum("Category", types...),
			"title":       {Type: "string"},
			"description": {Type: "string"},
			"emotion":     {Type: "string"},
			"url":         {Type: "string", Format: "uri"},
			"tags":        {Type: "array", Items: &openapi.Schema{Type: "string"}},
		},
	},
	"RecommendationList": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data": {Type: "array", Items: openapi.SchemaRef("Recommendation")},
		},
	},
}

var findOp = &openapi.Operation{
	Summary: "Recommendations for an emotion",
	Parameters: []*openapi.Parameter{
		{Name: "emotion", In: "query", Required: true, Schema: openapi.Enum("Emotion", emotions.Labels()...)},
		openapi.QueryParam("types", "string", "Comma-separated categories", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Recommendations", "RecommendationList"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
	},
}

var randomOp = &openapi.Operation{
	Summary: "Random recommendations",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("count", "integer", "Number of items", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Recommendations", "RecommendationList"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
	},
}
