// Package emotions holds the emotion vocabulary and the two pure stages of the
// classification pipeline: input validation before the classifier call and
// normalization of the classifier's raw payload afterwards.
package emotions

import (
	"encoding/json"
	"strings"
)

// Label is an emotion from the closed vocabulary.
type Label string

const (
	Joy      Label = "joy"
	Sadness  Label = "sadness"
	Anger    Label = "anger"
	Fear     Label = "fear"
	Love     Label = "love"
	Surprise Label = "surprise"
	Neutral  Label = "neutral"
)

var labels = []Label{Joy, Sadness, Anger, Fear, Love, Surprise, Neutral}

// Labels returns the vocabulary in canonical order.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}

// Valid reports whether l belongs to the vocabulary.
func (l Label) Valid() bool {
	for _, v := range labels {
		if v == l {
			return true
		}
	}
	return false
}

func (l Label) String() string {
	return string(l)
}

// ParseLabel case-folds raw and matches it against the vocabulary.
// Unknown labels yield Neutral and ok == false.
func ParseLabel(raw string) (Label, bool) {
	l := Label(fold(raw))
	if l.Valid() {
		return l, true
	}
	return Neutral, false
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Score is one entry of a classifier's score distribution.
type Score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Result is a validated classification verdict. Confidence is the score the
// classifier reported for Emotion, and AllScores contains Emotion.
type Result struct {
	Emotion    Label   `json:"emotion"`
	Confidence float64 `json:"confidence"`
	AllScores  []Score `json:"all_scores"`
}

// Top returns the highest-scoring entry of AllScores. Ties resolve to the
// earliest entry. ok is false for an empty distribution.
func (r *Result) Top() (Score, bool) {
	if len(r.AllScores) == 0 {
		return Score{}, false
	}
	top := r.AllScores[0]
	for _, s := range r.AllScores[1:] {
		if s.Score > top.Score {
			top = s
		}
	}
	return top, true
}

// Raw is an unvalidated classifier payload as received from the backend.
type Raw = json.RawMessage
