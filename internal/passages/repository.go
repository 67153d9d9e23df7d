package passages

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lexdraft/pkg/pagination"
	"github.com/JaimeStill/lexdraft/pkg/query"
	"github.com/JaimeStill/lexdraft/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a passage repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "passages"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Passage], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "DocumentID", "Title", "Content")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanPassage)
	if err != nil {
		return nil, fmt.Errorf("list passages: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Passage, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPassage)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Passage, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO passages(id, document_id, title, section_number, source_type, legal_source, source_category, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, document_id, title, section_number, source_type, legal_source, source_category, content, created_at, updated_at`

	args := []any{
		uuid.New(),
		cmd.DocumentID,
		cmd.Title,
		cmd.SectionNumber,
		cmd.SourceType,
		cmd.LegalSource,
		cmd.SourceCategory,
		cmd.Content,
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Passage, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPassage)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("passage created", "id", p.ID, "document_id", p.DocumentID)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM passages WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("passage deleted", "id", id)
	return nil
}

func (r *repo) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, ErrEmptyQuery
	}
	req.Normalize()

	start := time.Now()

	qb := query.NewBuilder(projection).WhereClause(match)
	req.Filters.Apply(qb)

	q, args := qb.BuildRanked(rank, req.Query, req.TopK)
	results, err := repository.QueryMany(ctx, r.db, q, args, scanRanked)
	if err != nil {
		return nil, fmt.Errorf("search passages: %w", err)
	}

	elapsed := time.Since(start)
	r.logger.Debug("passage search", "query", req.Query, "results", len(results), "duration", elapsed)

	return &SearchResponse{
		Results:      results,
		Query:        req.Query,
		TotalResults: len(results),
		SearchTime:   elapsed.Seconds(),
	}, nil
}

func (c CreateCommand) validate() error {
	switch {
	case strings.TrimSpace(c.DocumentID) == "":
		return fmt.Errorf("%w: document_id required", ErrInvalidInput)
	case strings.TrimSpace(c.Title) == "":
		return fmt.Errorf("%w: title required", ErrInvalidInput)
	case strings.TrimSpace(c.Content) == "":
		return fmt.Errorf("%w: content required", ErrInvalidInput)
	}
	return nil
}
