package recommendations

import (
	"context"

	"github.com/JaimeStill/empath/internal/auth"
)

// System defines the public contract for recommendation lookups.
type System interface {
	Handler() *Handler

	// Find returns catalog items for the query's emotion and types.
	Find(ctx context.Context, id auth.Identity, q Query) ([]Recommendation, error)

	// Random returns count items regardless of emotion.
	Random(ctx context.Context, id auth.Identity, count int) ([]Recommendation, error)
}
