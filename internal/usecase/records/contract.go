package records

import (
	"context"

	"github.com/oipwg/recordindex/internal/domain/query/request"
	"github.com/oipwg/recordindex/internal/domain/record"
)

// Repository defines the index query contract.
type Repository interface {
	// Search returns up to limit candidates from offset, ordered by the
	// request's sort key, plus the index-reported total-match count.
	Search(ctx context.Context, req *request.Request, offset, limit int) ([]record.Record, int, error)
	// GetByDID fetches one record by either identifier field.
	GetByDID(ctx context.Context, target string) (record.Record, error)
	// Remove deletes a record and returns what was removed.
	Remove(ctx context.Context, target string) (record.Record, error)
}

// Resolver maps name search terms to matching exercise record DIDs.
type Resolver interface {
	ResolveNames(ctx context.Context, names []string) (map[string]struct{}, error)
	Invalidate(did string)
}
