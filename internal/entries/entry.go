package entries

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/empath/internal/emotions"
)

// Entry is one persisted emotion record. Intensity carries the classifier's
// confidence and Context the text that produced it.
type Entry struct {
	ID         uuid.UUID      `json:"id"`
	UserID     string         `json:"user_id"`
	Emotion    emotions.Label `json:"emotion"`
	Intensity  float64        `json:"intensity"`
	Context    string         `json:"context,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// AddCommand is the payload for recording a new entry.
type AddCommand struct {
	Emotion   emotions.Label `json:"emotion"`
	Intensity float64        `json:"intensity"`
	Context   string         `json:"context,omitempty"`
}

// Validate checks the command against the vocabulary and the unit interval.
func (c AddCommand) Validate() error {
	if !c.Emotion.Valid() {
		return ErrInvalidEmotion
	}
	if c.Intensity < 0 || c.Intensity > 1 {
		return ErrInvalidIntensity
	}
	return nil
}

// Count is the number of entries recorded for one emotion.
type Count struct {
	Emotion    emotions.Label `json:"emotion"`
	Count      int            `json:"count"`
	Percentage float64        `json:"percentage"`
}

// Summary aggregates entries per emotion. Dominant is empty when Total is zero.
type Summary struct {
	Total    int            `json:"total"`
	Counts   []Count        `json:"counts"`
	Dominant emotions.Label `json:"dominant,omitempty"`
}

// Summarize builds a Summary from per-emotion counts. Counts are ordered by
// count descending, ties in vocabulary order; the first is dominant.
func Summarize(counts map[emotions.Label]int) Summary {
	s := Summary{Counts: []Count{}}

	for _, label := range emotions.Labels() {
		n := counts[label]
		if n <= 0 {
			continue
		}
		s.Total += n
		s.Counts = append(s.Counts, Count{Emotion: label, Count: n})
	}

	if s.Total == 0 {
		return s
	}

	for i := range s.Counts {
		s.Counts[i].Percentage = float64(s.Counts[i].Count) * 100 / float64(s.Total)
	}

	slices.SortStableFunc(s.Counts, func(a, b Count) int {
		return cmp.Compare(b.Count, a.Count)
	})

	s.Dominant = s.Counts[0].Emotion
	return s
}
