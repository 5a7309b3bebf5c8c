package classifier

import (
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/pkg/openapi"
)

var schemas = map[string]*openapi.Schema{
	"AnalyzeRequest": {
		Type:     "object",
		Required: []string{"text"},
		Properties: map[string]*openapi.Schema{
			"text": {Type: "string", MaxLength: intPtr(emotions.MaxTextLength)},
		},
	},
	"Score": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"label": openapi.Enum("Emotion label", emotions.Labels()...),
			"score": {Type: "number", Minimum: openapi.Bound(0), Maximum: openapi.Bound(1)},
		},
	},
	"Prediction": {
		Type:     "object",
		Required: []string{"emotion", "confidence", "scores"},
		Properties: map[string]*openapi.Schema{
			"emotion":    openapi.Enum("Highest scoring label", emotions.Labels()...),
			"confidence": {Type: "number", Minimum: openapi.Bound(0), Maximum: openapi.Bound(1)},
			"scores":     {Type: "array", Items: openapi.SchemaRef("Score")},
		},
	},
}

var analyzeOp = &openapi.Operation{
	Summary:     "Classify text",
	Description: "Returns the raw prediction for the text. Failures use the status codes a remote classifier client maps back to the same failure kind.",
	RequestBody: openapi.RequestBodyJSON("AnalyzeRequest", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Prediction", "Prediction"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
		429: {Description: "Rate limited"},
		500: {Description: "Classification failed or the model is loading"},
		503: {Description: "Model or network unavailable"},
		504: {Description: "Classification timed out"},
	},
}

func intPtr(n int) *int {
	return &n
}
