// Package plan decides, per query, whether post-processing is required and
// how far past the page size the index fetch must reach to survive it.
//
// Post-fetch filters are lossy: privacy alone can discard every fetched
// candidate, and a fetch sized exactly to the page then returns fewer rows
// than actually match, or none at all. The over-fetch multiplier is the
// safety margin against that false zero; deduplication instead needs the
// whole candidate universe before grouping, hence its fixed large fetch.
package plan

import "github.com/oipwg/recordindex/internal/domain/query/request"

// Fetch sizing constants.
const (
	// SafetyMultiplier compensates post-fetch filtering losses.
	SafetyMultiplier = 3
	// DedupFetchSize is the fixed fetch used when duplicate collapsing is
	// requested; dedup groups over the full candidate set.
	DedupFetchSize = 10000
	// MaxFetchSize bounds worst-case index load.
	MaxFetchSize = 10000
)

// Plan is the fetch strategy for one query. Planning is a pure function of
// the filter set and never fails.
type Plan struct {
	NeedsPostProcessing bool
	Multiplier          int
	FetchSize           int
}

// Compute derives the fetch plan for the given filters and page size.
func Compute(f request.Filters, pageSize int) Plan {
	if pageSize <= 0 {
		pageSize = request.DefaultPageSize
	}

	p := Plan{Multiplier: 1}
	if !needsPostProcessing(f) {
		p.FetchSize = pageSize
		return p
	}
	p.NeedsPostProcessing = true

	// Most specific rule wins, evaluated in order.
	switch {
	case f.TemplateType != "" || f.IsAuthenticated || f.ScheduledOn != nil:
		p.Multiplier = SafetyMultiplier
		p.FetchSize = clamp(pageSize * SafetyMultiplier)
	case f.NoDuplicates:
		p.Multiplier = 0 // fixed fetch, not a multiple of the page size
		p.FetchSize = DedupFetchSize
	default:
		p.Multiplier = SafetyMultiplier
		p.FetchSize = clamp(pageSize * SafetyMultiplier)
	}

	if p.FetchSize < pageSize {
		p.FetchSize = pageSize
	}
	return p
}

// needsPostProcessing reports whether any active filter either cannot be
// expressed as a single index clause with correct pagination, or interacts
// with privacy filtering in a way that shrinks the post-fetch result set.
func needsPostProcessing(f request.Filters) bool {
	return len(f.SearchNames) > 0 ||
		f.ReferencedDID != "" ||
		f.TemplateType != "" ||
		f.EquipmentDID != "" ||
		f.NoDuplicates ||
		f.IsAuthenticated ||
		f.DateStart != nil ||
		f.DateEnd != nil ||
		f.ScheduledOn != nil
}

func clamp(n int) int {
	if n > MaxFetchSize {
		return MaxFetchSize
	}
	return n
}
