package entries

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/pkg/pagination"
	"github.com/JaimeStill/empath/pkg/query"
	"github.com/JaimeStill/empath/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a Postgres-backed entry repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "entries"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Append(ctx context.Context, id auth.Identity, cmd AddCommand) (*Entry, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO emotion_entries(id, user_id, emotion, intensity, context, recorded_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id, user_id, emotion, intensity, context, recorded_at`

	args := []any{
		uuid.New(),
		id.Subject,
		cmd.Emotion.String(),
		cmd.Intensity,
		cmd.Context,
		time.Now().UTC(),
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entry, error) {
		return repository.QueryOne(ctx, tx, q, args, scanEntry)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("entry recorded", "id", e.ID, "emotion", e.Emotion)
	return &e, nil
}

func (r *repo) History(
	ctx context.Context,
	id auth.Identity,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entry], error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	page.Normalize(r.pagination)

	qb := r.scoped(id, filters).WhereSearch(page.Search, "Context")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)

	type pageData struct {
		total int
		items []Entry
	}

	data, err := repository.WithSnapshot(ctx, r.db, func(tx *sql.Tx) (pageData, error) {
		total, err := repository.QueryCount(ctx, tx, countSQL, countArgs)
		if err != nil {
			return pageData{}, fmt.Errorf("count entries: %w", err)
		}
		items, err := repository.QueryMany(ctx, tx, pageSQL, pageArgs, scanEntry)
		if err != nil {
			return pageData{}, fmt.Errorf("query entries: %w", err)
		}
		return pageData{total: total, items: items}, nil
	})
	if err != nil {
		return nil, err
	}
	result := pagination.NewPageResult(data.items, data.total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Summary(ctx context.Context, id auth.Identity, filters Filters) (*Summary, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	q, args := r.scoped(id, filters).BuildGroupCount("Emotion")
	rows, err := repository.QueryMany(ctx, r.db, q, args, scanCount)
	if err != nil {
		return nil, fmt.Errorf("summarize entries: %w", err)
	}

	counts := make(map[emotions.Label]int, len(rows))
	for _, c := range rows {
		counts[c.Emotion] += c.Count
	}

	s := Summarize(counts)
	return &s, nil
}

func (r *repo) scoped(id auth.Identity, filters Filters) *query.Builder {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", id.Subject)
	return filters.Apply(qb)
}
