package passages

import (
	"errors"
	"net/http"
)

// Domain errors for passage operations.
var (
	ErrNotFound     = errors.New("passage not found")
	ErrDuplicate    = errors.New("passage already exists")
	ErrInvalidInput = errors.New("invalid passage input")
	ErrEmptyQuery   = errors.New("search query must not be empty")
)

// MapHTTPStatus maps passage domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEmptyQuery):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
