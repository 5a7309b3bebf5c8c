package entries

import (
	"context"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/pkg/pagination"
)

// System defines the public contract for emotion entry operations. Every
// operation is scoped to the given identity.
type System interface {
	Handler() *Handler

	Append(ctx context.Context, id auth.Identity, cmd AddCommand) (*Entry, error)

	History(
		ctx context.Context,
		id auth.Identity,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Entry], error)

	Summary(ctx context.Context, id auth.Identity, filters Filters) (*Summary, error)
}
