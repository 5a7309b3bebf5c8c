package entries_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/entries"
)

func TestSummarize(t *testing.T) {
	s := entries.Summarize(map[emotions.Label]int{
		emotions.Sadness: 2,
		emotions.Joy:     2,
		emotions.Fear:    1,
		emotions.Anger:   0,
	})

	if s.Total != 5 {
		t.Errorf("total = %d, want 5", s.Total)
	}
	if s.Dominant != emotions.Joy {
		t.Errorf("dominant = %q, want joy (tie resolved in vocabulary order)", s.Dominant)
	}

	want := []entries.Count{
		{Emotion: emotions.Joy, Count: 2, Percentage: 40},
		{Emotion: emotions.Sadness, Count: 2, Percentage: 40},
		{Emotion: emotions.Fear, Count: 1, Percentage: 20},
	}
	if len(s.Counts) != len(want) {
		t.Fatalf("counts = %+v, want %+v", s.Counts, want)
	}
	for i := range want {
		if s.Counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, s.Counts[i], want[i])
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := entries.Summarize(nil)
	if s.Total != 0 || s.Dominant != "" || len(s.Counts) != 0 {
		t.Errorf("Summarize(nil) = %+v, want empty", s)
	}
	if s.Counts == nil {
		t.Error("counts should be an empty slice, not nil")
	}
}

func TestAddCommandValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  entries.AddCommand
		want error
	}{
		{"valid", entries.AddCommand{Emotion: emotions.Love, Intensity: 0.8}, nil},
		{"unknown emotion", entries.AddCommand{Emotion: "ecstasy", Intensity: 0.8}, entries.ErrInvalidEmotion},
		{"negative intensity", entries.AddCommand{Emotion: emotions.Joy, Intensity: -0.1}, entries.ErrInvalidIntensity},
		{"intensity above one", entries.AddCommand{Emotion: emotions.Joy, Intensity: 1.01}, entries.ErrInvalidIntensity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("date only bounds", func(t *testing.T) {
		f, err := entries.FiltersFromQuery(url.Values{
			"start_date": {"2026-03-01"},
			"end_date":   {"2026-03-31"},
			"emotion":    {"Fear"},
		})
		if err != nil {
			t.Fatalf("FiltersFromQuery: %v", err)
		}
		if f.Emotion == nil || *f.Emotion != emotions.Fear {
			t.Errorf("emotion = %v, want fear", f.Emotion)
		}
		if got := f.Since.Format(time.RFC3339); got != "2026-03-01T00:00:00Z" {
			t.Errorf("since = %s", got)
		}
		if f.Until.Hour() != 23 || f.Until.Day() != 31 {
			t.Errorf("until = %s, want end of day", f.Until)
		}
	})

	t.Run("backend spellings", func(t *testing.T) {
		f, err := entries.FiltersFromQuery(url.Values{"startDate": {"2026-03-01T10:00:00Z"}})
		if err != nil {
			t.Fatalf("FiltersFromQuery: %v", err)
		}
		if f.Since == nil || f.Since.Hour() != 10 {
			t.Errorf("since = %v", f.Since)
		}
	})

	errTests := []struct {
		name   string
		values url.Values
	}{
		{"bad date", url.Values{"start_date": {"yesterday"}}},
		{"inverted range", url.Values{"start_date": {"2026-04-01"}, "end_date": {"2026-03-01"}}},
		{"unknown emotion", url.Values{"emotion": {"ecstasy"}}},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := entries.FiltersFromQuery(tt.values); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFiltersMatches(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	joy := emotions.Joy
	f := entries.Filters{Emotion: &joy, Since: &since, Until: &until}

	tests := []struct {
		name string
		e    entries.Entry
		want bool
	}{
		{"inside", entries.Entry{Emotion: emotions.Joy, RecordedAt: since.Add(time.Hour)}, true},
		{"on lower bound", entries.Entry{Emotion: emotions.Joy, RecordedAt: since}, true},
		{"before range", entries.Entry{Emotion: emotions.Joy, RecordedAt: since.Add(-time.Second)}, false},
		{"after range", entries.Entry{Emotion: emotions.Joy, RecordedAt: until.Add(time.Second)}, false},
		{"other emotion", entries.Entry{Emotion: emotions.Anger, RecordedAt: since.Add(time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Matches(tt.e); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}
