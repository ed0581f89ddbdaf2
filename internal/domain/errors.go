package domain

import "errors"

var (
	// ErrRecordNotFound signals a missing record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrMissingIdentifier signals a record carrying neither a current nor a
	// legacy identifier; a data-integrity violation upstream.
	ErrMissingIdentifier = errors.New("record has no identifier")
	// ErrBackendUnavailable signals that the search index cannot be reached
	// or returned a fault. Never downgraded to an empty result set.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrInvalidFilter signals a filter value that failed validation. Raised
	// before any index round-trip.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrUnauthorized signals a viewer lacking the capability for an operation.
	ErrUnauthorized = errors.New("unauthorized")
)
