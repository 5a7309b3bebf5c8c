package entries

import (
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/pkg/query"
	"github.com/JaimeStill/empath/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "emotion_entries", "e").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("emotion", "Emotion").
	Project("intensity", "Intensity").
	Project("context", "Context").
	Project("recorded_at", "RecordedAt")

var defaultSort = query.SortField{
	Field:      "RecordedAt",
	Descending: true,
}

// Filters narrows history and summary queries. Nil fields are ignored; Since
// and Until are inclusive.
type Filters struct {
	Emotion *emotions.Label `json:"emotion,omitempty"`
	Since   *time.Time      `json:"start_date,omitempty"`
	Until   *time.Time      `json:"end_date,omitempty"`
}

// Validate rejects unknown emotions and inverted ranges.
func (f Filters) Validate() error {
	if f.Emotion != nil && !f.Emotion.Valid() {
		return ErrInvalidEmotion
	}
	if f.Since != nil && f.Until != nil && f.Since.After(*f.Until) {
		return ErrInvalidRange
	}
	return nil
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var emotion *string
	if f.Emotion != nil {
		s := f.Emotion.String()
		emotion = &s
	}
	return b.
		WhereEquals("Emotion", emotion).
		WhereRange("RecordedAt", f.Since, f.Until)
}

// Matches reports whether e passes the filters.
func (f Filters) Matches(e Entry) bool {
	if f.Emotion != nil && e.Emotion != *f.Emotion {
		return false
	}
	if f.Since != nil && e.RecordedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && e.RecordedAt.After(*f.Until) {
		return false
	}
	return true
}

// FiltersFromQuery extracts filter values from URL query parameters. Dates
// accept RFC 3339 timestamps or YYYY-MM-DD; a bare end date covers the whole day.
// The backend's startDate/endDate spellings are accepted too.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if e := values.Get("emotion"); e != "" {
		label := emotions.Label(e)
		if parsed, ok := emotions.ParseLabel(e); ok {
			label = parsed
		}
		f.Emotion = &label
	}

	since, err := parseDate(first(values, "start_date", "startDate"), false)
	if err != nil {
		return f, fmt.Errorf("start_date: %w", err)
	}
	f.Since = since

	until, err := parseDate(first(values, "end_date", "endDate"), true)
	if err != nil {
		return f, fmt.Errorf("end_date: %w", err)
	}
	f.Until = until

	return f, f.Validate()
}

func first(values url.Values, keys ...string) string {
	for _, k := range keys {
		if v := values.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	var emotion string
	var context *string

	err := s.Scan(
		&e.ID,
		&e.UserID,
		&emotion,
		&e.Intensity,
		&context,
		&e.RecordedAt,
	)
	if err != nil {
		return e, err
	}

	e.Emotion = emotions.Label(emotion)
	if context != nil {
		e.Context = *context
	}
	return e, nil
}

func scanCount(s repository.Scanner) (Count, error) {
	var c Count
	var emotion string
	if err := s.Scan(&emotion, &c.Count); err != nil {
		return c, err
	}
	c.Emotion = emotions.Label(emotion)
	return c, nil
}
