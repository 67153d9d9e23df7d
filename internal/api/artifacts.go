package api

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/JaimeStill/lexdraft/pkg/handlers"
	"github.com/JaimeStill/lexdraft/pkg/routes"
	"github.com/JaimeStill/lexdraft/pkg/storage"
)

// artifactPrefix is where generated documents are archived.
const artifactPrefix = "documents/"

// artifactHandler exposes read-only access to archived blobs. Records and
// blobs are removed together through the documents domain.
type artifactHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

type existsResponse struct {
	Key    string `json:"key"`
	Exists bool   `json:"exists"`
}

func newArtifactHandler(store storage.System, logger *slog.Logger, maxListSize int32) *artifactHandler {
	return &artifactHandler{
		store:       store,
		logger:      logger.With("handler", "artifacts"),
		maxListSize: maxListSize,
	}
}

func (h *artifactHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list},
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.download},
			{Method: "GET", Pattern: "/exists/{key...}", Handler: h.exists},
			{Method: "GET", Pattern: "/{key...}", Handler: h.find},
		},
	}
}

// list pages through archived blobs. The prefix defaults to the artifact
// archive; pass prefix=/ to list the whole container.
func (h *artifactHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	prefix := q.Get("prefix")
	switch prefix {
	case "":
		prefix = artifactPrefix
	case "/":
		prefix = ""
	}

	maxResults, err := storage.ParseMaxResults(q.Get("max_results"), h.maxListSize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.store.List(r.Context(), prefix, q.Get("marker"), maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *artifactHandler) find(w http.ResponseWriter, r *http.Request) {
	meta, err := h.store.Find(r.Context(), r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, meta)
}

func (h *artifactHandler) exists(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	ok, err := h.store.Exists(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, existsResponse{Key: key, Exists: ok})
}

// download streams a blob. inline=true asks the browser to display it
// instead of saving it.
func (h *artifactHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	disposition := "attachment"
	if inline, _ := strconv.ParseBool(r.URL.Query().Get("inline")); inline {
		disposition = "inline"
	}

	w.Header().Set("Content-Type", result.ContentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.Header().Set(
		"Content-Disposition",
		mime.FormatMediaType(disposition, map[string]string{"filename": path.Base(key)}),
	)
	w.WriteHeader(http.StatusOK)

	if n, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("artifact download interrupted", "key", key, "written", n, "error", err)
	}
}
