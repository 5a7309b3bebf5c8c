package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/pkg/backend"
)

const (
	findPath   = "/recommendations"
	randomPath = "/recommendations/random"
)

type remote struct {
	client *backend.Client
	cfg    *Config
	logger *slog.Logger
}

// NewRemote creates a recommendation system backed by the wellness backend's catalog.
func NewRemote(client *backend.Client, cfg *Config, logger *slog.Logger) System {
	return &remote{
		client: client,
		cfg:    cfg,
		logger: logger.With("system", "recommendations"),
	}
}

func (r *remote) Handler() *Handler {
	return NewHandler(r, r.cfg, r.logger)
}

func (r *remote) Find(ctx context.Context, id auth.Identity, q Query) ([]Recommendation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("emotion", q.Emotion.String())
	if len(q.Types) > 0 {
		params.Set("types", q.TypesParam())
	}

	return r.get(ctx, findPath, params, id.Token)
}

func (r *remote) Random(ctx context.Context, id auth.Identity, count int) ([]Recommendation, error) {
	if count == 0 {
		count = r.cfg.RandomCount
	}
	if count < 1 || count > MaxCount {
		return nil, ErrInvalidCount
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(count))

	return r.get(ctx, randomPath, params, id.Token)
}

func (r *remote) get(ctx context.Context, path string, params url.Values, token string) ([]Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.RequestTimeout())
	defer cancel()

	resp, err := r.client.Do(ctx, http.MethodGet, path, params, nil, token)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.Status == http.StatusNotFound:
		return []Recommendation{}, nil
	case !resp.OK():
		return nil, fmt.Errorf("fetch %s: backend responded %d", path, resp.Status)
	}

	items, err := decodeList(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	r.logger.DebugContext(ctx, "recommendations fetched", "path", path, "count", len(items))
	return items, nil
}

// decodeList accepts a {"data": [...]} envelope or a bare array.
func decodeList(body []byte) ([]Recommendation, error) {
	var env struct {
		Data []Recommendation `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}

	var items []Recommendation
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if items == nil {
		items = []Recommendation{}
	}
	return items, nil
}
