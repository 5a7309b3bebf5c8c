// Package responses selects the companion's conversational replies: one
// templated utterance per detected emotion, and an apology per failure kind.
package responses

import (
	"math/rand/v2"

	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
)

// Greeting opens every conversation.
const Greeting = "Hello! I'm your emotional wellness companion. Share what's on your mind, and I'll help you understand your emotions better. 💙"

// Source picks an index in [0, n).
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource draws from math/rand/v2's global generator.
var DefaultSource Source = globalSource{}

var templates = map[emotions.Label][]string{
	emotions.Joy: {
		"I can sense your happiness! That's wonderful. What's bringing you such joy today?",
		"Your positive energy is contagious! It sounds like you're having a great time.",
		"I love hearing about moments of joy. Would you like some recommendations to keep this feeling going?",
	},
	emotions.Love: {
		"There's so much warmth in your message. Love is a beautiful emotion to experience.",
		"I can feel the affection in your words. Love in all its forms is truly special.",
		"Your heart seems full right now. That's a precious feeling to cherish.",
	},
	emotions.Sadness: {
		"I hear that you're going through a difficult time. It's okay to feel sad - your emotions are valid.",
		"Sometimes sadness helps us process important experiences. I'm here to listen.",
		"Thank you for sharing something so personal. Would you like to talk more about what you're feeling?",
	},
	emotions.Anger: {
		"I can sense some frustration in your words. Anger often signals that something important to you has been affected.",
		"It sounds like you're dealing with something challenging. Your feelings are completely understandable.",
		"Sometimes anger is a sign that we need to set boundaries or make changes. What do you think might help?",
	},
	emotions.Fear: {
		"I notice some worry or concern in your message. It takes courage to share when we're feeling afraid.",
		"Fear can be overwhelming, but you're not alone. What's been on your mind lately?",
		"It's natural to feel uncertain sometimes. Would it help to talk through what's worrying you?",
	},
	emotions.Surprise: {
		"Something unexpected seems to have happened! I'd love to hear more about it.",
		"Life has a way of surprising us, doesn't it? How are you processing this new development?",
		"Surprises can bring such interesting emotions. What's been the most surprising part?",
	},
	emotions.Neutral: {
		"Thanks for sharing. How has the rest of your day been going?",
		"I'm here and listening. Is there anything in particular on your mind?",
		"Sometimes a calm, steady day is exactly what we need. Want to tell me more?",
	},
}

var apologies = map[failures.Kind]string{
	failures.Timeout:             "The service is busy right now. Please try again in a moment.",
	failures.NetworkUnavailable:  "I couldn't reach the service. Please check your connection and try again.",
	failures.InvalidInput:        "I couldn't process that message. Could you try phrasing it differently?",
	failures.Unauthorized:        "Your session has expired. Please sign in again.",
	failures.RateLimited:         "You're sending messages a little quickly. Please wait a moment before trying again.",
	failures.ModelWarmingUp:      "I'm still starting up. Please try again in a moment.",
	failures.ServiceUnavailable:  "Emotion analysis isn't available right now. Please try again later.",
	failures.ServerError:         "Sorry, I couldn't process your message. Please try again.",
	failures.MissingEmotionField: "Sorry, I couldn't process your message. Please try again.",
	failures.MissingConfidence:   "Sorry, I couldn't process your message. Please try again.",
	failures.MalformedScores:     "Sorry, I couldn't process your message. Please try again.",
	failures.EmptyInput:          "Please enter a message first.",
	failures.TooLong:             "That message is a bit long. Please keep it under 3000 characters.",
}

// Selector picks replies using an injected Source.
type Selector struct {
	src Source
}

// NewSelector creates a Selector. A nil src uses DefaultSource.
func NewSelector(src Source) *Selector {
	if src == nil {
		src = DefaultSource
	}
	return &Selector{src: src}
}

// Candidates returns the ordered utterances for label. Labels without a
// template set use the joy set.
func Candidates(label emotions.Label) []string {
	set, ok := templates[label]
	if !ok {
		set = templates[emotions.Joy]
	}
	out := make([]string, len(set))
	copy(out, set)
	return out
}

// Select returns one utterance for label, chosen uniformly by the Source.
func (s *Selector) Select(label emotions.Label) string {
	set, ok := templates[label]
	if !ok {
		set = templates[emotions.Joy]
	}
	return set[s.src.IntN(len(set))]
}

// Apology returns the reply for a failed submission of the given kind.
func (s *Selector) Apology(kind failures.Kind) string {
	if msg, ok := apologies[kind]; ok {
		return msg
	}
	return apologies[failures.ServerError]
}
