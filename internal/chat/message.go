// Package chat runs the companion conversation: each submission flows through
// validation, classification, normalization, and dispatch, and the transcript
// records the exchange.
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/empath/internal/dispatch"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
)

// Role identifies a message's author.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one transcript entry. Emotion is set on user messages that were
// classified successfully.
type Message struct {
	ID        uuid.UUID        `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Emotion   *emotions.Result `json:"emotion,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

func newMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// Failure describes why a turn did not produce a classification.
// MessageID names the user message the failure belongs to; it is nil for
// rejected submissions, which never enter the transcript.
type Failure struct {
	Kind           failures.Kind `json:"kind"`
	Stage          string        `json:"stage"`
	Message        string        `json:"message"`
	MessageID      uuid.UUID     `json:"message_id,omitzero"`
	Reauthenticate bool          `json:"reauthenticate,omitempty"`
}

// Turn is the outcome of one submission.
type Turn struct {
	UserMessage              Message           `json:"user_message"`
	BotMessage               *Message          `json:"bot_message,omitempty"`
	Emotion                  *emotions.Result  `json:"emotion,omitempty"`
	RecommendationsTriggered bool              `json:"recommendations_triggered"`
	Decision                 dispatch.Decision `json:"decision"`
	Failure                  *Failure          `json:"failure,omitempty"`
}
