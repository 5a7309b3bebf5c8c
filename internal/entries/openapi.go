package entries

import (
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/pkg/openapi"
)

var schemas = map[string]*openapi.Schema{
	"AddEntry": {
		Type:     "object",
		Required: []string{"emotion", "intensity"},
		Properties: map[string]*openapi.Schema{
			"emotion":   openapi.Enum("Recorded emotion", emotions.Labels()...),
			"intensity": {Type: "number", Minimum: openapi.Bound(0), Maximum: openapi.Bound(1)},
			"context":   {Type: "string", Description: "Message that produced the entry"},
		},
	},
	"Entry": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":          {Type: "string", Format: "uuid"},
			"user_id":     {Type: "string"},
			"emotion":     openapi.Enum("Recorded emotion", emotions.Labels()...),
			"intensity":   {Type: "number"},
			"context":     {Type: "string"},
			"recorded_at": {Type: "string", Format: "date-time"},
		},
	},
	"EntryEnvelope": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{"data": openapi.SchemaRef("Entry")},
	},
	"EntryPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef("Entry")},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	},
	"Summary": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"total": {Type: "integer"},
			"counts": {Type: "array", Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"emotion":    {Type: "string"},
					"count":      {Type: "integer"},
					"percentage": {Type: "number"},
				},
			}},
			"dominant": {Type: "string"},
		},
	},
}

var filterParams = []*openapi.Parameter{
	openapi.QueryParam("emotion", "string", "Only entries with this emotion", false),
	openapi.QueryParam("start_date", "string", "Inclusive start, RFC 3339 or YYYY-MM-DD", false),
	openapi.QueryParam("end_date", "string", "Inclusive end, RFC 3339 or YYYY-MM-DD", false),
}

var addOp = &openapi.Operation{
	Summary:     "Record an emotion entry",
	RequestBody: openapi.RequestBodyJSON("AddEntry", true),
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Recorded entry", "EntryEnvelope"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
	},
}

var historyOp = &openapi.Operation{
	Summary: "List the caller's entries, newest first",
	Parameters: append([]*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("sort", "string", "Sort fields, prefix - for descending", false),
	}, filterParams...),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Page of entries", "EntryPage"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
	},
}

var summaryOp = &openapi.Operation{
	Summary:    "Summarize the caller's entries by emotion",
	Parameters: filterParams,
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Per-emotion counts", "Summary"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
	},
}
