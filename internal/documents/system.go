package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lexdraft/internal/classify"
	"github.com/JaimeStill/lexdraft/internal/drafting"
	"github.com/JaimeStill/lexdraft/internal/registry"
	"github.com/JaimeStill/lexdraft/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	Types() []registry.DocumentType
	Type(id string) (*registry.DocumentType, error)
	Detect(query, response string) classify.Result
	Fields(req drafting.Request) (*drafting.Generation, error)

	Generate(ctx context.Context, cmd GenerateCommand) (*GenerateResult, error)
	GenerateBatch(ctx context.Context, cmds []GenerateCommand) ([]BatchResult, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
