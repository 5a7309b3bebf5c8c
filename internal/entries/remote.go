package entries

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/pkg/backend"
	"github.com/JaimeStill/empath/pkg/pagination"
)

const (
	addPath     = "/emotions/add"
	historyPath = "/emotions/history"
)

// remoteEntry is the backend's representation of an entry.
type remoteEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Emotion   string    `json:"emotion"`
	Intensity float64   `json:"intensity"`
	Timestamp time.Time `json:"timestamp"`
	Context   string    `json:"context,omitempty"`
}

func (re remoteEntry) entry() Entry {
	id, err := uuid.Parse(re.ID)
	if err != nil {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(re.ID))
	}
	label, _ := emotions.ParseLabel(re.Emotion)
	return Entry{
		ID:         id,
		UserID:     re.UserID,
		Emotion:    label,
		Intensity:  re.Intensity,
		Context:    re.Context,
		RecordedAt: re.Timestamp,
	}
}

type remote struct {
	client     *backend.Client
	logger     *slog.Logger
	pagination pagination.Config
}

// NewRemote creates an entry system backed by the wellness backend's
// /emotions endpoints. The backend scopes entries by the forwarded token.
func NewRemote(client *backend.Client, logger *slog.Logger, pagination pagination.Config) System {
	return &remote{
		client:     client,
		logger:     logger.With("system", "entries", "store", "remote"),
		pagination: pagination,
	}
}

func (r *remote) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *remote) Append(ctx context.Context, id auth.Identity, cmd AddCommand) (*Entry, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.client.RequestTimeout())
	defer cancel()

	resp, err := r.client.Do(ctx, http.MethodPost, addPath, nil, cmd, id.Token)
	if err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}
	if err := statusError(resp); err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}

	var re remoteEntry
	if err := decodeFlexible(resp.Body, &re); err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}

	e := re.entry()
	if e.UserID == "" {
		e.UserID = id.Subject
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	return &e, nil
}

func (r *remote) History(
	ctx context.Context,
	id auth.Identity,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entry], error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	page.Normalize(r.pagination)

	all, err := r.fetch(ctx, id, filters)
	if err != nil {
		return nil, err
	}

	if page.Search != nil && *page.Search != "" {
		needle := strings.ToLower(*page.Search)
		all = slices.DeleteFunc(all, func(e Entry) bool {
			return !strings.Contains(strings.ToLower(e.Context), needle)
		})
	}

	start, end := page.Window(len(all))
	result := pagination.NewPageResult(all[start:end], len(all), page.Page, page.PageSize)
	return &result, nil
}

func (r *remote) Summary(ctx context.Context, id auth.Identity, filters Filters) (*Summary, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	all, err := r.fetch(ctx, id, filters)
	if err != nil {
		return nil, err
	}

	counts := make(map[emotions.Label]int)
	for _, e := range all {
		counts[e.Emotion]++
	}

	s := Summarize(counts)
	return &s, nil
}

// fetch returns the caller's entries matching filters, newest first. The
// backend answers 404 when there is no history; that is an empty result.
func (r *remote) fetch(ctx context.Context, id auth.Identity, filters Filters) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.RequestTimeout())
	defer cancel()

	params := url.Values{}
	if filters.Since != nil {
		params.Set("startDate", filters.Since.Format(time.RFC3339))
	}
	if filters.Until != nil {
		params.Set("endDate", filters.Until.Format(time.RFC3339))
	}

	resp, err := r.client.Do(ctx, http.MethodGet, historyPath, params, nil, id.Token)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if resp.Status == http.StatusNotFound {
		return []Entry{}, nil
	}
	if err := statusError(resp); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	var raw []remoteEntry
	if err := decodeFlexible(resp.Body, &raw); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	out := make([]Entry, 0, len(raw))
	for _, re := range raw {
		if re.Emotion == "" {
			continue
		}
		if e := re.entry(); filters.Matches(e) {
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, func(a, b Entry) int {
		return b.RecordedAt.Compare(a.RecordedAt)
	})

	r.logger.DebugContext(ctx, "history fetched", "received", len(raw), "kept", len(out))
	return out, nil
}

func statusError(resp *backend.Response) error {
	switch {
	case resp.OK():
		return nil
	case resp.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.Status == http.StatusBadRequest:
		return fmt.Errorf("backend rejected request (status %d)", resp.Status)
	default:
		return fmt.Errorf("backend responded %d", resp.Status)
	}
}

// decodeFlexible accepts both {"data": ...} envelopes and bare bodies.
func decodeFlexible(body []byte, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		body = env.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
