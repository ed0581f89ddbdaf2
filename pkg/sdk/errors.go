package recordindex

import "github.com/oipwg/recordindex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrRecordNotFound     = domain.ErrRecordNotFound
	ErrMissingIdentifier  = domain.ErrMissingIdentifier
	ErrInvalidFilter      = domain.ErrInvalidFilter
	ErrBackendUnavailable = domain.ErrBackendUnavailable
	ErrUnauthorized       = domain.ErrUnauthorized
)
