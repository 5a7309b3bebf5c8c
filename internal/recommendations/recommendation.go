package recommendations

import (
	"strings"

	"github.com/JaimeStill/empath/internal/emotions"
)

// Type is a recommendation category.
type Type string

const (
	Movie    Type = "movie"
	Book     Type = "book"
	Music    Type = "music"
	Activity Type = "activity"
	Exercise Type = "exercise"
	Resource Type = "resource"
)

var types = []Type{Movie, Book, Music, Activity, Exercise, Resource}

// DefaultTypes are requested when a chat turn triggers recommendations.
var DefaultTypes = []Type{Music, Book, Movie}

// Valid reports whether t is a known category.
func (t Type) Valid() bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

// Recommendation is one catalog item suggested for an emotion.
type Recommendation struct {
	ID          string   `json:"id"`
	Type        Type     `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Emotion     string   `json:"emotion"`
	URL         string   `json:"url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Query selects recommendations for one emotion, optionally narrowed to types.
type Query struct {
	Emotion emotions.Label
	Types   []Type
}

// Validate checks the emotion and every type.
func (q Query) Validate() error {
	if !q.Emotion.Valid() {
		return ErrInvalidEmotion
	}
	for _, t := range q.Types {
		if !t.Valid() {
			return ErrInvalidType
		}
	}
	return nil
}

// TypesParam renders Types as the comma-separated query parameter value.
func (q Query) TypesParam() string {
	parts := make([]string, len(q.Types))
	for i, t := range q.Types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// ParseTypes splits a comma-separated list, case-folding and skipping blanks.
func ParseTypes(csv string) ([]Type, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}

	var out []Type
	for part := range strings.SplitSeq(csv, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		t := Type(part)
		if !t.Valid() {
			return nil, ErrInvalidType
		}
		out = append(out, t)
	}
	return out, nil
}
