// Package classifier performs the emotion classification call, either against
// the remote backend or an embedded lexicon model, and maps every failure onto
// the failures taxonomy. It returns the raw payload; validation happens in the
// emotions package.
package classifier

import (
	"context"
	"time"

	"github.com/JaimeStill/empath/internal/emotions"
)

// Timeout bounds a single classification call.
const Timeout = 30 * time.Second

// Request is one classification attempt for validated text.
type Request struct {
	Text     string
	IssuedAt time.Time
}

// NewRequest creates a Request stamped with the current time.
func NewRequest(text string) Request {
	return Request{Text: text, IssuedAt: time.Now().UTC()}
}

// Classifier produces a raw emotion payload for validated text.
// Errors are *failures.Error values from the classifier stage.
type Classifier interface {
	Classify(ctx context.Context, req Request, token string) (emotions.Raw, error)
}

// Prediction is the wire shape shared by the backend and the embedded model.
type Prediction struct {
	Emotion    string           `json:"emotion"`
	Confidence float64          `json:"confidence"`
	Scores     []emotions.Score `json:"scores"`
}
