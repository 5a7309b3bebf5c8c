package chat

import (
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
	"github.com/JaimeStill/empath/pkg/openapi"
)

var schemas = map[string]*openapi.Schema{
	"EmotionResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"emotion":    openapi.Enum("Classified emotion", emotions.Labels()...),
			"confidence": {Type: "number", Minimum: openapi.Bound(0), Maximum: openapi.Bound(1)},
			"all_scores": {Type: "array", Items: openapi.SchemaRef("Score")},
		},
	},
	"Message": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":        {Type: "string", Format: "uuid"},
			"role":      openapi.Enum("Author", RoleUser, RoleBot),
			"content":   {Type: "string"},
			"emotion":   openapi.SchemaRef("EmotionResult"),
			"timestamp": {Type: "string", Format: "date-time"},
		},
	},
	"Conversation": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string", Format: "uuid"},
			"created_at": {Type: "string", Format: "date-time"},
			"pending":    {Type: "boolean", Description: "A submission is in flight"},
			"messages":   {Type: "array", Items: openapi.SchemaRef("Message")},
		},
	},
	"SubmitMessage": {
		Type:     "object",
		Required: []string{"content"},
		Properties: map[string]*openapi.Schema{
			"content": {Type: "string", Description: "Message text, trimmed before validation"},
		},
	},
	"Failure": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"kind": openapi.Enum("Failure kind",
				failures.EmptyInput, failures.TooLong, failures.Timeout,
				failures.NetworkUnavailable, failures.InvalidInput, failures.Unauthorized,
				failures.ServiceUnavailable, failures.RateLimited, failures.ModelWarmingUp,
				failures.ServerError, failures.MissingEmotionField, failures.MissingConfidence,
				failures.MalformedScores,
			),
			"stage":          {Type: "string"},
			"message":        {Type: "string"},
			"message_id":     {Type: "string", Format: "uuid", Description: "User message to offer a retry on"},
			"reauthenticate": {Type: "boolean"},
		},
	},
	"Turn": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"user_message":              openapi.SchemaRef("Message"),
			"bot_message":               openapi.SchemaRef("Message"),
			"emotion":                   openapi.SchemaRef("EmotionResult"),
			"recommendations_triggered": {Type: "boolean"},
			"decision":                  {Type: "string", Enum: []any{"rejected", "degraded", "persist", "persist_and_recommend"}},
			"failure":                   openapi.SchemaRef("Failure"),
		},
	},
}

var conversationParam = openapi.PathParam("id", "Conversation ID")

var startOp = &openapi.Operation{
	Summary: "Start a conversation",
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Conversation with greeting", "Conversation"),
		401: openapi.ResponseRef("Unauthorized"),
	},
}

var findOp = &openapi.Operation{
	Summary:    "Get a conversation transcript",
	Parameters: []*openapi.Parameter{conversationParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Conversation", "Conversation"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var submitOp = &openapi.Operation{
	Summary:     "Submit a message",
	Description: "Classifies the message, dispatches persistence and recommendations by confidence, and returns the bot reply. Degraded turns still respond 200 with a failure.",
	Parameters:  []*openapi.Parameter{conversationParam},
	RequestBody: openapi.RequestBodyJSON("SubmitMessage", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Completed or degraded turn", "Turn"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
		404: openapi.ResponseRef("NotFound"),
		409: openapi.ResponseRef("Conflict"),
		422: openapi.ResponseJSON("Rejected turn", "Turn"),
	},
}
