package records

import (
	"sort"
	"strings"

	"github.com/oipwg/recordindex/internal/domain/access"
	"github.com/oipwg/recordindex/internal/domain/did"
	"github.com/oipwg/recordindex/internal/domain/query/request"
	"github.com/oipwg/recordindex/internal/domain/record"
)

// The post-processing pipeline. Stage order is fixed: privacy first (nothing
// downstream may observe an invisible record), then reference and name
// resolution, then duplicate collapsing, then a stable sort, then the page
// slice in the caller. Every stage is a pure list transform.

// filterVisible drops records the viewer may not see.
func filterVisible(recs []record.Record, viewer access.Viewer) []record.Record {
	out := recs[:0:0]
	for _, r := range recs {
		if access.Visible(r, viewer) {
			out = append(out, r)
		}
	}
	return out
}

// filterResolved keeps candidates tied to the resolved DID set: either the
// candidate is one of the resolved records, or it references one.
func filterResolved(recs []record.Record, resolved map[string]struct{}) []record.Record {
	out := recs[:0:0]
	for _, r := range recs {
		if did.MatchesAny(r, resolved) || referencesAny(r, resolved) {
			out = append(out, r)
		}
	}
	return out
}

func referencesAny(r record.Record, targets map[string]struct{}) bool {
	for _, ref := range r.Refs() {
		if _, ok := targets[ref]; ok {
			return true
		}
	}
	return false
}

// filterDerived applies the payload-level filters the index cannot express:
// template presence, reference verification, and schedule-date matching.
func filterDerived(recs []record.Record, f request.Filters) []record.Record {
	out := recs[:0:0]
	for _, r := range recs {
		if f.TemplateType != "" && !r.HasTemplate(f.TemplateType) {
			continue
		}
		if f.ReferencedDID != "" && !r.References(f.ReferencedDID) {
			continue
		}
		if f.EquipmentDID != "" && !r.References(f.EquipmentDID) {
			continue
		}
		if f.ScheduledOn != nil && !r.ScheduledOn(request.Day(*f.ScheduledOn)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// dedupe collapses records sharing a normalized name down to one
// representative: the most recently ingested, ties broken by canonical
// identifier ascending. Group order follows first occurrence, so running
// dedupe twice is a no-op.
func dedupe(recs []record.Record) []record.Record {
	type slot struct{ idx int }
	groups := make(map[string]slot, len(recs))
	out := make([]record.Record, 0, len(recs))

	for _, r := range recs {
		key := dedupKey(r)
		g, seen := groups[key]
		if !seen {
			groups[key] = slot{idx: len(out)}
			out = append(out, r)
			continue
		}
		if prefer(r, out[g.idx]) {
			out[g.idx] = r
		}
	}
	return out
}

// prefer reports whether a should replace b as the group representative.
func prefer(a, b record.Record) bool {
	if a.BlockHeight() != b.BlockHeight() {
		return a.BlockHeight() > b.BlockHeight()
	}
	return identifierOf(a) < identifierOf(b)
}

// dedupKey groups by normalized name; unnamed records group by identity and
// therefore always survive.
func dedupKey(r record.Record) string {
	name := strings.ToLower(strings.TrimSpace(r.Name()))
	if name == "" {
		return "\x00" + identifierOf(r)
	}
	return name
}

func identifierOf(r record.Record) string {
	id, err := did.Resolve(r)
	if err != nil {
		return ""
	}
	return id
}

// sortRecords applies the requested order with a stable sort; equal keys
// preserve prior relative order.
func sortRecords(recs []record.Record, by request.SortField, order request.SortOrder) {
	asc := order == request.Asc

	less := func(a, b record.Record) bool { return a.Date() < b.Date() }
	switch by {
	case request.SortByBlockHeight:
		less = func(a, b record.Record) bool { return a.BlockHeight() < b.BlockHeight() }
	case request.SortByName:
		less = func(a, b record.Record) bool {
			return strings.ToLower(a.Name()) < strings.ToLower(b.Name())
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if asc {
			return less(recs[i], recs[j])
		}
		return less(recs[j], recs[i])
	})
}
