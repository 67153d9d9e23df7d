package documents

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/lexdraft/internal/classify"
	"github.com/JaimeStill/lexdraft/internal/drafting"
	"github.com/JaimeStill/lexdraft/internal/passages"
	"github.com/JaimeStill/lexdraft/internal/registry"
	"github.com/JaimeStill/lexdraft/internal/templates"
	"github.com/JaimeStill/lexdraft/pkg/formatting"
	"github.com/JaimeStill/lexdraft/pkg/pagination"
	"github.com/JaimeStill/lexdraft/pkg/pdf"
	"github.com/JaimeStill/lexdraft/pkg/query"
	"github.com/JaimeStill/lexdraft/pkg/repository"
	"github.com/JaimeStill/lexdraft/pkg/storage"
)

const filenameLayout = "20060102_150405"

type repo struct {
	db         *sql.DB
	storage    storage.System
	engine     *drafting.Engine
	templates  *templates.Set
	passages   passages.System
	logger     *slog.Logger
	pagination pagination.Config
	opts       Options
	now        func() time.Time
}

// New creates a document repository implementing the System interface.
// search may be nil, in which case include_passages is ignored.
func New(
	db *sql.DB,
	store storage.System,
	engine *drafting.Engine,
	tmpl *templates.Set,
	search passages.System,
	logger *slog.Logger,
	pagination pagination.Config,
	opts Options,
) System {
	return &repo{
		db:         db,
		storage:    store,
		engine:     engine,
		templates:  tmpl,
		passages:   search,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
		opts:       opts,
		now:        time.Now,
	}
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxBodySize)
}

func (r *repo) Types() []registry.DocumentType {
	return r.engine.Registry().Types()
}

func (r *repo) Type(id string) (*registry.DocumentType, error) {
	dt, err := r.engine.Registry().Get(id)
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *repo) Detect(query, response string) classify.Result {
	return r.engine.DetectType(query, response)
}

func (r *repo) Fields(req drafting.Request) (*drafting.Generation, error) {
	req.DryRun = true
	return r.engine.GenerateFields(req)
}

func (r *repo) Generate(ctx context.Context, cmd GenerateCommand) (*GenerateResult, error) {
	gen, err := r.engine.GenerateFields(cmd.Request)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		DocumentType: gen.DocumentType,
		Fields:       gen.Fields,
		DryRun:       gen.DryRun,
	}

	if cmd.IncludePassages {
		result.Passages = r.supportingPassages(ctx, cmd.Query)
	}

	if gen.DryRun {
		r.logger.Info(
			"fields generated",
			"document_type", gen.DocumentType,
			"fields", len(gen.Fields),
			"dry_run", true,
		)
		return result, nil
	}

	dt, err := r.engine.Registry().Get(gen.DocumentType)
	if err != nil {
		return nil, err
	}

	text, err := r.templates.Render(dt.Template, gen.Fields)
	if err != nil {
		return nil, err
	}

	title, body := splitTitle(text)
	rendered, err := pdf.Render(pdf.Document{Title: title, Body: body})
	if err != nil {
		return nil, err
	}

	generatedAt := r.now()
	result.Filename = buildFilename(gen.DocumentType, generatedAt)
	result.PageCount = rendered.PageCount
	result.PDFContent = base64.StdEncoding.EncodeToString(rendered.Content)

	if r.opts.Archive {
		doc, err := r.archive(ctx, gen.DocumentType, result.Filename, rendered, generatedAt)
		if err != nil {
			return nil, err
		}
		result.Document = doc
		result.StorageKey = doc.StorageKey
	}

	r.logger.Info(
		"document generated",
		"document_type", gen.DocumentType,
		"filename", result.Filename,
		"pages", rendered.PageCount,
		"size", formatting.FormatBytes(int64(len(rendered.Content)), 1),
		"archived", r.opts.Archive,
	)

	return result, nil
}

func (r *repo) GenerateBatch(ctx context.Context, cmds []GenerateCommand) ([]BatchResult, error) {
	if len(cmds) == 0 {
		return nil, fmt.Errorf("%w: batch is empty", ErrInvalidRequest)
	}
	if r.opts.MaxBatchSize > 0 && len(cmds) > r.opts.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d requests, limit %d", ErrBatchTooLarge, len(cmds), r.opts.MaxBatchSize)
	}

	results := make([]BatchResult, len(cmds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(r.opts.Concurrency, len(cmds)))

	for i, cmd := range cmds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i].Index = i
			res, err := r.Generate(gctx, cmd)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch generation: %w", err)
	}

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}

	r.logger.Info("batch generated", "total", len(cmds), "failed", failed)
	return results, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "DocumentType", "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

// archive uploads the rendered artifact and records it. The blob is removed
// again when the record cannot be written.
func (r *repo) archive(
	ctx context.Context,
	docType, filename string,
	rendered *pdf.Result,
	generatedAt time.Time,
) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(docType, id, filename)

	err := retry.Do(
		func() error {
			return r.storage.Upload(ctx, key, bytes.NewReader(rendered.Content), pdf.ContentType)
		},
		retry.Context(ctx),
		retry.Attempts(max(r.opts.RetryAttempts, 1)),
		retry.Delay(r.opts.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warn("artifact upload failed, retrying", "key", key, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("upload artifact: %w", err)
	}

	q := `
		INSERT INTO documents(id, document_type, filename, content_type, size_bytes, page_count, storage_key, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, document_type, filename, content_type, size_bytes, page_count, storage_key, generated_at`

	args := []any{
		id,
		docType,
		filename,
		pdf.ContentType,
		int64(len(rendered.Content)),
		rendered.PageCount,
		key,
		generatedAt,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, args, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &d, nil
}

// supportingPassages is best effort: a failed search leaves the document
// without passages.
func (r *repo) supportingPassages(ctx context.Context, q string) []passages.SearchResult {
	if r.passages == nil || strings.TrimSpace(q) == "" {
		return nil
	}

	resp, err := r.passages.Search(ctx, passages.SearchRequest{
		Query: q,
		TopK:  r.opts.PassageLimit,
	})
	if err != nil {
		r.logger.Warn("passage search failed", "error", err)
		return nil
	}
	return resp.Results
}

func splitTitle(text string) (string, string) {
	text = strings.TrimLeft(text, "\n")
	title, body, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(title), strings.TrimLeft(body, "\n")
}

func workerCount(limit, n int) int {
	return max(min(limit, n), 1)
}

func buildFilename(docType string, at time.Time) string {
	return fmt.Sprintf("%s_%s.pdf", docType, at.Format(filenameLayout))
}

func buildStorageKey(docType string, id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s/%s", docType, id, filename)
}
