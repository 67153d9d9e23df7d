package registry

import "errors"

var (
	// ErrUnknownDocumentType indicates a document type id that is not registered.
	ErrUnknownDocumentType = errors.New("unknown document type")
	// ErrSchemaMisconfiguration indicates malformed registry data. It is only
	// produced while loading and should prevent the process from starting.
	ErrSchemaMisconfiguration = errors.New("document type registry misconfigured")
)
