package documents_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lexdraft/internal/documents"
	"github.com/JaimeStill/lexdraft/internal/drafting"
	"github.com/JaimeStill/lexdraft/internal/passages"
	"github.com/JaimeStill/lexdraft/internal/registry"
	"github.com/JaimeStill/lexdraft/internal/templates"
	"github.com/JaimeStill/lexdraft/pkg/pagination"
	"github.com/JaimeStill/lexdraft/pkg/storage"
)

type mockPassages struct {
	mu       sync.Mutex
	requests []passages.SearchRequest
	searchFn func(ctx context.Context, req passages.SearchRequest) (*passages.SearchResponse, error)
}

func (m *mockPassages) Handler() *passages.Handler { return nil }

func (m *mockPassages) List(context.Context, pagination.PageRequest, passages.Filters) (*pagination.PageResult[passages.Passage], error) {
	return nil, errors.New("not implemented")
}

func (m *mockPassages) Find(context.Context, uuid.UUID) (*passages.Passage, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPassages) Create(context.Context, passages.CreateCommand) (*passages.Passage, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPassages) Delete(context.Context, uuid.UUID) error {
	return errors.New("not implemented")
}

func (m *mockPassages) Search(ctx context.Context, req passages.SearchRequest) (*passages.SearchResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.searchFn(ctx, req)
}

var filenamePattern = regexp.MustCompile(`^fir_\d{8}_\d{6}\.pdf$`)

func newSystem(t *testing.T, search passages.System, opts documents.Options) documents.System {
	t.Helper()
	return buildSystem(t, nil, nil, search, opts)
}

func buildSystem(
	t *testing.T,
	db *sql.DB,
	store storage.System,
	search passages.System,
	opts documents.Options,
) documents.System {
	t.Helper()

	reg, err := registry.Builtin()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	tmpl, err := templates.Builtin()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	clock := func() time.Time { return time.Date(2024, 3, 7, 9, 30, 0, 0, time.UTC) }
	engine := drafting.New(reg, drafting.WithClock(clock))

	return documents.New(
		db, store, engine, tmpl, search,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		opts,
	)
}

func firCommand() documents.GenerateCommand {
	return documents.GenerateCommand{
		Request: drafting.Request{
			Query:    "My name is ravi kumar. I was robbed at Connaught Place on 12/02/2024",
			Response: "You should file an FIR at the nearest police station.",
		},
	}
}

func TestSystemTypes(t *testing.T) {
	sys := newSystem(t, nil, documents.Options{})

	types := sys.Types()
	if len(types) != 5 {
		t.Fatalf("types = %d, want 5", len(types))
	}
	if types[0].ID != "fir" {
		t.Errorf("first type = %q, want fir", types[0].ID)
	}

	dt, err := sys.Type("affidavit")
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	if !dt.HasField("declaration_statement") {
		t.Error("affidavit missing declaration_statement")
	}

	if _, err := sys.Type("will"); !errors.Is(err, registry.ErrUnknownDocumentType) {
		t.Errorf("err = %v, want ErrUnknownDocumentType", err)
	}
}

func TestSystemDetect(t *testing.T) {
	sys := newSystem(t, nil, documents.Options{})

	got := sys.Detect("I was robbed at the market, need to file a police complaint", "")
	if got.DocumentType != "fir" {
		t.Errorf("document type = %q, want fir", got.DocumentType)
	}
}

func TestSystemFieldsForcesDryRun(t *testing.T) {
	sys := newSystem(t, nil, documents.Options{})

	gen, err := sys.Fields(drafting.Request{Query: "security deposit not returned", DryRun: false})
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if !gen.DryRun {
		t.Error("dry run = false, want true")
	}
	if gen.Fields["date"] != "07/03/2024" {
		t.Errorf("date = %q, want 07/03/2024", gen.Fields["date"])
	}
}

func TestSystemGenerate(t *testing.T) {
	t.Run("dry run skips rendering", func(t *testing.T) {
		sys := newSystem(t, nil, documents.Options{})

		cmd := firCommand()
		cmd.DryRun = true

		res, err := sys.Generate(context.Background(), cmd)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if res.DocumentType != "fir" {
			t.Errorf("document type = %q, want fir", res.DocumentType)
		}
		if res.PDFContent != "" || res.Filename != "" || res.PageCount != 0 {
			t.Errorf("dry run rendered output: %+v", res)
		}
		if res.Fields["complainant_name"] != "Ravi Kumar" {
			t.Errorf("complainant_name = %q, want Ravi Kumar", res.Fields["complainant_name"])
		}
	})

	t.Run("renders pdf without archive", func(t *testing.T) {
		sys := newSystem(t, nil, documents.Options{})

		res, err := sys.Generate(context.Background(), firCommand())
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}

		content, err := base64.StdEncoding.DecodeString(res.PDFContent)
		if err != nil {
			t.Fatalf("decode pdf: %v", err)
		}
		if !bytes.HasPrefix(content, []byte("%PDF-")) {
			t.Error("content is not a PDF")
		}
		if res.PageCount < 1 {
			t.Errorf("page count = %d, want >= 1", res.PageCount)
		}
		if !filenamePattern.MatchString(res.Filename) {
			t.Errorf("filename = %q, want fir_YYYYMMDD_HHMMSS.pdf", res.Filename)
		}
		if res.StorageKey != "" || res.Document != nil {
			t.Error("artifact archived with archive disabled")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		sys := newSystem(t, nil, documents.Options{})

		cmd := firCommand()
		cmd.DocumentType = "will"

		_, err := sys.Generate(context.Background(), cmd)
		if !errors.Is(err, registry.ErrUnknownDocumentType) {
			t.Errorf("err = %v, want ErrUnknownDocumentType", err)
		}
	})
}

func TestSystemGeneratePassages(t *testing.T) {
	result := passages.SearchResult{
		ID:              uuid.New(),
		Content:         "Every agreement made by free consent is a contract.",
		SimilarityScore: 0.42,
	}

	t.Run("attaches search results", func(t *testing.T) {
		search := &mockPassages{
			searchFn: func(_ context.Context, req passages.SearchRequest) (*passages.SearchResponse, error) {
				return &passages.SearchResponse{Results: []passages.SearchResult{result}, Query: req.Query}, nil
			},
		}
		sys := newSystem(t, search, documents.Options{PassageLimit: 2})

		cmd := firCommand()
		cmd.DryRun = true
		cmd.IncludePassages = true

		res, err := sys.Generate(context.Background(), cmd)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(res.Passages) != 1 || res.Passages[0].ID != result.ID {
			t.Errorf("passages = %+v", res.Passages)
		}
		if len(search.requests) != 1 {
			t.Fatalf("search calls = %d, want 1", len(search.requests))
		}
		if search.requests[0].TopK != 2 {
			t.Errorf("top_k = %d, want 2", search.requests[0].TopK)
		}
		if search.requests[0].Query != cmd.Query {
			t.Errorf("query = %q, want %q", search.requests[0].Query, cmd.Query)
		}
	})

	t.Run("search failure is not fatal", func(t *testing.T) {
		search := &mockPassages{
			searchFn: func(context.Context, passages.SearchRequest) (*passages.SearchResponse, error) {
				return nil, errors.New("connection refused")
			},
		}
		sys := newSystem(t, search, documents.Options{PassageLimit: 3})

		cmd := firCommand()
		cmd.DryRun = true
		cmd.IncludePassages = true

		res, err := sys.Generate(context.Background(), cmd)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if res.Passages != nil {
			t.Errorf("passages = %+v, want nil", res.Passages)
		}
	})

	t.Run("not requested", func(t *testing.T) {
		search := &mockPassages{
			searchFn: func(context.Context, passages.SearchRequest) (*passages.SearchResponse, error) {
				t.Fatal("search called without include_passages")
				return nil, nil
			},
		}
		sys := newSystem(t, search, documents.Options{PassageLimit: 3})

		cmd := firCommand()
		cmd.DryRun = true

		if _, err := sys.Generate(context.Background(), cmd); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	})
}

func TestSystemGenerateBatch(t *testing.T) {
	t.Run("per item outcomes in order", func(t *testing.T) {
		sys := newSystem(t, nil, documents.Options{MaxBatchSize: 5, Concurrency: 2})

		bad := firCommand()
		bad.DocumentType = "will"

		dry := firCommand()
		dry.DryRun = true

		results, err := sys.GenerateBatch(context.Background(), []documents.GenerateCommand{dry, bad, firCommand()})
		if err != nil {
			t.Fatalf("GenerateBatch: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("results = %d, want 3", len(results))
		}

		for i, res := range results {
			if res.Index != i {
				t.Errorf("results[%d].Index = %d", i, res.Index)
			}
		}

		if results[0].Result == nil || !results[0].Result.DryRun {
			t.Errorf("results[0] = %+v, want dry run result", results[0])
		}
		if results[1].Error == "" || results[1].Result != nil {
			t.Errorf("results[1] = %+v, want error", results[1])
		}
		if results[2].Result == nil || results[2].Result.PDFContent == "" {
			t.Errorf("results[2] = %+v, want rendered result", results[2])
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		sys := newSystem(t, nil, documents.Options{MaxBatchSize: 5})

		_, err := sys.GenerateBatch(context.Background(), nil)
		if !errors.Is(err, documents.ErrInvalidRequest) {
			t.Errorf("err = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("exceeds max batch size", func(t *testing.T) {
		sys := newSystem(t, nil, documents.Options{MaxBatchSize: 1})

		cmds := []documents.GenerateCommand{firCommand(), firCommand()}
		_, err := sys.GenerateBatch(context.Background(), cmds)
		if !errors.Is(err, documents.ErrBatchTooLarge) {
			t.Errorf("err = %v, want ErrBatchTooLarge", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		sys := newSystem(t, nil, documents.Options{MaxBatchSize: 5})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sys.GenerateBatch(ctx, []documents.GenerateCommand{firCommand()})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
