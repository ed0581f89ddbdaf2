package db

import "github.com/oipwg/recordindex/internal/domain/query/filter"

// ListQuery is the input for a paginated, sorted FT.SEARCH.
type ListQuery struct {
	IndexName    string
	Filters      filter.Expression
	SortBy       string // empty = index default order
	SortAsc      bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation. Total is the index's own
// total-match count, which precedes any post-fetch filtering.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key  string
	Doc  []byte            // JSON document body ($), if requested
	Vals map[string]string // returned scalar fields
}
