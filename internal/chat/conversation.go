package chat

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
	"github.com/JaimeStill/empath/internal/responses"
)

// Conversation holds one user's transcript. At most one submission is in
// flight at a time; a concurrent Submit fails with ErrBusy.
type Conversation struct {
	id       uuid.UUID
	owner    string
	created  time.Time
	pipeline *Pipeline

	inFlight atomic.Bool

	mu       sync.RWMutex
	messages []Message
	active   time.Time
}

// View is a read-only snapshot of a conversation.
type View struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Pending   bool      `json:"pending"`
	Messages  []Message `json:"messages"`
}

// NewConversation starts a transcript owned by subject, seeded with the
// companion's greeting.
func NewConversation(owner string, pipeline *Pipeline) *Conversation {
	now := time.Now().UTC()
	greeting := newMessage(RoleBot, responses.Greeting)
	greeting.Timestamp = now

	return &Conversation{
		id:       uuid.New(),
		owner:    owner,
		created:  now,
		pipeline: pipeline,
		messages: []Message{greeting},
		active:   now,
	}
}

func (c *Conversation) ID() uuid.UUID { return c.id }

func (c *Conversation) Owner() string { return c.owner }

// Pending reports whether a submission is in flight.
func (c *Conversation) Pending() bool {
	return c.inFlight.Load()
}

// LastActive returns the time of the most recent transcript change.
func (c *Conversation) LastActive() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.messages)
}

// View returns a snapshot of the conversation.
func (c *Conversation) View() View {
	return View{
		ID:        c.id,
		CreatedAt: c.created,
		Pending:   c.Pending(),
		Messages:  c.Messages(),
	}
}

// Submit runs text through the pipeline and records the exchange.
//
// Text the validator rejects yields a Rejected turn with ErrRejected; nothing
// is classified or recorded. A classification failure yields a Degraded turn
// and a nil error: the user message and an apology are both recorded.
func (c *Conversation) Submit(ctx context.Context, id auth.Identity, text string) (*Turn, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.inFlight.Store(false)

	clean, err := emotions.Validate(text)
	if err != nil {
		out := c.pipeline.Reject(err)
		kind := out.Kind()
		return &Turn{
			UserMessage: newMessage(RoleUser, text),
			Decision:    out.Decision,
			Failure: &Failure{
				Kind:    kind,
				Stage:   kind.Stage(),
				Message: out.Reply,
			},
		}, ErrRejected
	}

	user := newMessage(RoleUser, clean)
	out := c.pipeline.Run(ctx, id, clean)
	user.Emotion = out.Result

	bot := newMessage(RoleBot, out.Reply)

	turn := &Turn{
		UserMessage:              user,
		BotMessage:               &bot,
		Emotion:                  out.Result,
		RecommendationsTriggered: out.Decision.Recommends(),
		Decision:                 out.Decision,
	}

	if out.Err != nil {
		kind := out.Kind()
		turn.Failure = &Failure{
			Kind:           kind,
			Stage:          kind.Stage(),
			Message:        out.Reply,
			MessageID:      user.ID,
			Reauthenticate: kind == failures.Unauthorized,
		}
	}

	c.mu.Lock()
	c.messages = append(c.messages, user, bot)
	c.active = bot.Timestamp
	c.mu.Unlock()

	return turn, nil
}
