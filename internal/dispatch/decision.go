// Package dispatch applies the confidence gate to a classification outcome and
// runs the resulting side effects, entry persistence and recommendation
// prefetch, as tracked background tasks.
package dispatch

import (
	"fmt"

	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
)

// RecommendThreshold is the confidence a result must strictly exceed to
// trigger recommendations.
const RecommendThreshold = 0.7

// Decision is the dispatcher's verdict for one submission.
type Decision int

const (
	// Rejected means validation blocked the submission before any call.
	Rejected Decision = iota
	// Degraded means classification or normalization failed; nothing is persisted.
	Degraded
	// Persist records the entry only.
	Persist
	// PersistAndRecommend records the entry and triggers recommendations.
	PersistAndRecommend
)

var decisionNames = map[Decision]string{
	Rejected:            "rejected",
	Degraded:            "degraded",
	Persist:             "persist",
	PersistAndRecommend: "persist_and_recommend",
}

func (d Decision) String() string {
	if s, ok := decisionNames[d]; ok {
		return s
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// MarshalText encodes the decision by name.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a decision name.
func (d *Decision) UnmarshalText(text []byte) error {
	for k, v := range decisionNames {
		if v == string(text) {
			*d = k
			return nil
		}
	}
	return fmt.Errorf("unknown decision %q", text)
}

// Persists reports whether the decision records an entry.
func (d Decision) Persists() bool {
	return d == Persist || d == PersistAndRecommend
}

// Recommends reports whether the decision triggers recommendations.
func (d Decision) Recommends() bool {
	return d == PersistAndRecommend
}

// Decide maps a pipeline outcome to a Decision. Validator failures reject,
// any other failure degrades, and a result recommends only when its
// confidence is strictly greater than RecommendThreshold.
func Decide(result *emotions.Result, err error) Decision {
	if err != nil {
		if failures.KindOf(err).Rejected() {
			return Rejected
		}
		return Degraded
	}
	if result == nil {
		return Degraded
	}
	if result.Confidence > RecommendThreshold {
		return PersistAndRecommend
	}
	return Persist
}
