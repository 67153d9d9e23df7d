package documents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lexdraft/internal/registry"
	"github.com/JaimeStill/lexdraft/internal/templates"
	"github.com/JaimeStill/lexdraft/pkg/storage"
)

// Domain errors for document operations.
var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicate      = errors.New("document already exists")
	ErrInvalidRequest = errors.New("invalid request")
	ErrBodyTooLarge   = errors.New("request body exceeds maximum size")
	ErrBatchTooLarge  = errors.New("batch exceeds maximum size")
)

// MapHTTPStatus maps document domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, templates.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrBatchTooLarge),
		errors.Is(err, registry.ErrUnknownDocumentType):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrEmptyKey),
		errors.Is(err, storage.ErrInvalidKey):
		return storage.MapHTTPStatus(err)
	}
	return http.StatusInternalServerError
}
