// Package page assembles the final response page from a filtered candidate
// list. Total is the post-filter count whenever post-processing ran; the
// index-reported total is only trusted on the direct-query fast path. Mixing
// the two is the historical "0 results returned but record exists" bug.
package page

import "github.com/oipwg/recordindex/internal/domain/record"

// Page is one page of visible records plus pagination metadata.
type Page struct {
	Items      []record.Record
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Assemble slices the post-filtered list into the requested page. Total is
// len(filtered). Out-of-range pages yield empty Items with accurate totals.
func Assemble(filtered []record.Record, pageNum, pageSize int) Page {
	total := len(filtered)

	start := (pageNum - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return build(filtered[start:end], total, pageNum, pageSize)
}

// FromIndexTotal builds a page directly from an index-ordered fetch and the
// index's own total-match count. Only valid when the planner determined no
// post-processing applies; items are already the page slice.
func FromIndexTotal(items []record.Record, reportedTotal, pageNum, pageSize int) Page {
	if reportedTotal < len(items) {
		reportedTotal = len(items)
	}
	return build(items, reportedTotal, pageNum, pageSize)
}

func build(items []record.Record, total, pageNum, pageSize int) Page {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Page{
		Items:      items,
		Total:      total,
		Page:       pageNum,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    pageNum < totalPages,
		HasPrev:    pageNum > 1 && total > 0,
	}
}
