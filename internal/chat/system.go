package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/empath/internal/auth"
)

// System manages conversations for authenticated users.
type System interface {
	Handler() *Handler

	Start(ctx context.Context, id auth.Identity) (*Conversation, error)
	Find(ctx context.Context, id auth.Identity, conversationID uuid.UUID) (*Conversation, error)
	Submit(ctx context.Context, id auth.Identity, conversationID uuid.UUID, text string) (*Turn, error)
}

type registry struct {
	pipeline *Pipeline
	max      int
	logger   *slog.Logger

	mu            sync.Mutex
	conversations map[uuid.UUID]*Conversation
}

// New creates an in-memory conversation registry. When the registry is full,
// starting a conversation evicts the least recently active idle one.
func New(pipeline *Pipeline, cfg *Config, logger *slog.Logger) System {
	return &registry{
		pipeline:      pipeline,
		max:           cfg.MaxConversations,
		logger:        logger.With("system", "chat"),
		conversations: make(map[uuid.UUID]*Conversation),
	}
}

func (r *registry) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *registry) Start(ctx context.Context, id auth.Identity) (*Conversation, error) {
	c := NewConversation(id.Subject, r.pipeline)

	r.mu.Lock()
	if len(r.conversations) >= r.max {
		r.evict(ctx)
	}
	r.conversations[c.ID()] = c
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "conversation started", "id", c.ID(), "subject", id.Subject)
	return c, nil
}

func (r *registry) Find(_ context.Context, id auth.Identity, conversationID uuid.UUID) (*Conversation, error) {
	r.mu.Lock()
	c, ok := r.conversations[conversationID]
	r.mu.Unlock()

	if !ok || c.Owner() != id.Subject {
		return nil, ErrNotFound
	}
	return c, nil
}

func (r *registry) Submit(ctx context.Context, id auth.Identity, conversationID uuid.UUID, text string) (*Turn, error) {
	c, err := r.Find(ctx, id, conversationID)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, id, text)
}

// evict removes the least recently active conversation without a submission
// in flight. Caller holds r.mu.
func (r *registry) evict(ctx context.Context) {
	var oldest *Conversation
	for _, c := range r.conversations {
		if c.Pending() {
			continue
		}
		if oldest == nil || c.LastActive().Before(oldest.LastActive()) {
			oldest = c
		}
	}
	if oldest == nil {
		return
	}
	delete(r.conversations, oldest.ID())
	r.logger.DebugContext(ctx, "conversation evicted", "id", oldest.ID())
}
