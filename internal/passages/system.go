package passages

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lexdraft/pkg/pagination"
)

// System defines the public contract for passage domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Passage], error)

	Find(ctx context.Context, id uuid.UUID) (*Passage, error)
	Create(ctx context.Context, cmd CreateCommand) (*Passage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}
