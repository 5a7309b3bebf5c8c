package emotions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/JaimeStill/empath/internal/failures"
)

type payload struct {
	Emotion    json.RawMessage `json:"emotion"`
	Confidence json.RawMessage `json:"confidence"`
	Scores     json.RawMessage `json:"scores"`
}

type scorePayload struct {
	Label json.RawMessage `json:"label"`
	Score json.RawMessage `json:"score"`
}

// Normalize validates a raw classifier payload of the shape
// {"emotion": string, "confidence": number, "scores": [{"label": string, "score": number}]}
// and canonicalizes it into a Result.
//
// Labels are case-folded. Labels outside the vocabulary become Neutral; the
// raw labels that were replaced are returned for logging only. Score entries
// that canonicalize to the same label merge into the first occurrence, keeping
// the highest score. The canonical emotion must be among the canonical score
// labels, and its entry carries the reported confidence.
func Normalize(raw Raw) (*Result, []string, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, nil, failures.New(failures.MissingEmotionField, fmt.Errorf("decode payload: %w", err))
	}

	emotion, err := parseEmotion(p.Emotion)
	if err != nil {
		return nil, nil, err
	}

	confidence, err := parseConfidence(p.Confidence)
	if err != nil {
		return nil, nil, err
	}

	entries, err := parseScores(p.Scores)
	if err != nil {
		return nil, nil, err
	}

	var coerced []string
	record := func(rawLabel string) {
		if !slices.Contains(coerced, rawLabel) {
			coerced = append(coerced, rawLabel)
		}
	}

	label, ok := ParseLabel(emotion)
	if !ok {
		record(emotion)
	}

	scores := make([]Score, 0, len(entries))
	index := make(map[Label]int, len(entries))

	for _, e := range entries {
		l, ok := ParseLabel(e.Label)
		if !ok {
			record(e.Label)
		}

		if i, seen := index[l]; seen {
			scores[i].Score = max(scores[i].Score, e.Score)
			continue
		}

		index[l] = len(scores)
		scores = append(scores, Score{Label: string(l), Score: e.Score})
	}

	i, ok := index[label]
	if !ok {
		return nil, nil, failures.Newf(failures.MalformedScores, "emotion %q not present in scores", label)
	}
	scores[i].Score = confidence

	return &Result{
		Emotion:    label,
		Confidence: confidence,
		AllScores:  scores,
	}, coerced, nil
}

func parseEmotion(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", ErrMissingEmotionField
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", failures.New(failures.MissingEmotionField, fmt.Errorf("emotion is not a string: %w", err))
	}

	s = fold(s)
	if s == "" {
		return "", ErrMissingEmotionField
	}

	return s, nil
}

func parseConfidence(raw json.RawMessage) (float64, error) {
	if isNull(raw) {
		return 0, ErrMissingConfidence
	}

	f, err := parseUnit(raw)
	if err != nil {
		return 0, failures.New(failures.MissingConfidence, err)
	}

	return f, nil
}

func parseScores(raw json.RawMessage) ([]Score, error) {
	if isNull(raw) {
		return nil, failures.Newf(failures.MalformedScores, "scores missing")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, failures.New(failures.MalformedScores, fmt.Errorf("scores is not a list: %w", err))
	}

	out := make([]Score, 0, len(items))
	for i, item := range items {
		var sp scorePayload
		if isNull(item) {
			return nil, failures.Newf(failures.MalformedScores, "score %d is null", i)
		}
		if err := json.Unmarshal(item, &sp); err != nil {
			return nil, failures.New(failures.MalformedScores, fmt.Errorf("score %d: %w", i, err))
		}

		var label string
		if isNull(sp.Label) {
			return nil, failures.Newf(failures.MalformedScores, "score %d: label missing", i)
		}
		if err := json.Unmarshal(sp.Label, &label); err != nil {
			return nil, failures.New(failures.MalformedScores, fmt.Errorf("score %d: label is not a string: %w", i, err))
		}
		if label = fold(label); label == "" {
			return nil, failures.Newf(failures.MalformedScores, "score %d: label is empty", i)
		}

		if isNull(sp.Score) {
			return nil, failures.Newf(failures.MalformedScores, "score %d: score missing", i)
		}
		value, err := parseUnit(sp.Score)
		if err != nil {
			return nil, failures.New(failures.MalformedScores, fmt.Errorf("score %d: %w", i, err))
		}

		out = append(out, Score{Label: label, Score: value})
	}

	return out, nil
}

func parseUnit(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("not a number: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %v", f)
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("out of range [0,1]: %v", f)
	}
	return f, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
