package records

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/oipwg/recordindex/internal/db"
	"github.com/oipwg/recordindex/internal/domain"
	"github.com/oipwg/recordindex/internal/domain/did"
	"github.com/oipwg/recordindex/internal/domain/query/filter"
	"github.com/oipwg/recordindex/internal/domain/query/request"
	"github.com/oipwg/recordindex/internal/domain/record"
	"github.com/oipwg/recordindex/internal/logger"
)

// store is the consumer interface for record index operations (ISP).
type store interface {
	db.Searcher
	db.JSONStore
	db.IndexManager
}

// Repo executes structured queries against the record index.
type Repo struct {
	store store
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search issues one paginated, sorted index query and returns the hydrated
// candidates plus the index-reported total. The total precedes post-fetch
// filtering and may overcount the final visible result set.
func (r *Repo) Search(
	ctx context.Context, req *request.Request, offset, limit int,
) ([]record.Record, int, error) {
	expr, err := buildExpression(req.Filters())
	if err != nil {
		return nil, 0, err
	}

	q := &db.ListQuery{
		IndexName: IndexName,
		Filters:   expr,
		SortBy:    string(req.SortBy()),
		SortAsc:   req.Order() == request.Asc,
		Offset:    offset,
		Limit:     limit,
	}

	sr, err := r.store.SearchList(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	return r.hydrate(ctx, sr.Entries), sr.Total, nil
}

// GetByDID fetches a single record. The key lookup covers current records;
// the fallback search matches either identifier field, so pre-migration
// records keyed and indexed only under didTx still resolve.
func (r *Repo) GetByDID(ctx context.Context, target string) (record.Record, error) {
	data, err := r.store.JSONGet(ctx, KeyPrefix+target)
	switch {
	case err == nil:
		doc, perr := parseDoc(data)
		if perr != nil {
			return record.Record{}, perr
		}
		return doc.toDomain(), nil
	case errors.Is(err, db.ErrKeyNotFound):
		// fall through to the disjunctive index lookup
	default:
		return record.Record{}, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	expr, err := identifierExpression(target)
	if err != nil {
		return record.Record{}, err
	}

	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName: IndexName,
		Filters:   expr,
		Limit:     1,
	})
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	recs := r.hydrate(ctx, sr.Entries)
	if len(recs) == 0 {
		return record.Record{}, domain.ErrRecordNotFound
	}
	// Identifiers are case-sensitive; a case-folded tag hit is not the record.
	if !did.Matches(recs[0], target) {
		return record.Record{}, domain.ErrRecordNotFound
	}
	return recs[0], nil
}

// Index writes a record document at its canonical key. The ingestion
// pipeline is the production writer; this exists so both sides share one
// document shape.
func (r *Repo) Index(ctx context.Context, doc RecordDoc) error {
	if doc.Did == "" && doc.DidTx == "" {
		return domain.ErrMissingIdentifier
	}
	data, err := jsonMarshal(doc)
	if err != nil {
		return err
	}
	if err := r.store.JSONSet(ctx, doc.key(), "$", data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Remove deletes a record from the index and returns what was removed.
func (r *Repo) Remove(ctx context.Context, target string) (record.Record, error) {
	rec, err := r.GetByDID(ctx, target)
	if err != nil {
		return record.Record{}, err
	}

	id, err := did.Resolve(rec)
	if err != nil {
		return record.Record{}, err
	}
	if err := r.store.Del(ctx, KeyPrefix+id); err != nil {
		return record.Record{}, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	return rec, nil
}

// SearchExerciseDIDs finds exercise records whose name starts with the given
// term and returns their canonical DIDs.
func (r *Repo) SearchExerciseDIDs(ctx context.Context, name string) ([]string, error) {
	typeCond, err := filter.NewMatch("recordType", "exercise")
	if err != nil {
		return nil, err
	}
	nameCond, err := filter.NewPrefix("name", name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFilter, err)
	}
	expr, err := filter.NewExpression([]filter.Condition{typeCond, nameCond}, nil, nil)
	if err != nil {
		return nil, err
	}

	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName: IndexName,
		Filters:   expr,
		Limit:     request.MaxPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	dids := make([]string, 0, len(sr.Entries))
	for _, rec := range r.hydrate(ctx, sr.Entries) {
		id, err := did.Resolve(rec)
		if err != nil {
			continue
		}
		dids = append(dids, id)
	}
	return dids, nil
}

// hydrate parses index entries into domain records. Documents violating the
// identifier invariant are excluded and logged, never returned.
func (r *Repo) hydrate(ctx context.Context, entries []db.SearchEntry) []record.Record {
	log := logger.FromContext(ctx)
	recs := make([]record.Record, 0, len(entries))
	for _, e := range entries {
		doc, err := parseDoc(e.Doc)
		if err != nil {
			log.Warn("unparseable record document", zap.String("key", e.Key), zap.Error(err))
			continue
		}
		if doc.Did == "" && doc.DidTx == "" {
			log.Warn("record missing identifier",
				zap.String("key", e.Key), zap.Error(domain.ErrMissingIdentifier))
			continue
		}
		recs = append(recs, doc.toDomain())
	}
	return recs
}

// buildExpression maps the index-expressible filters onto a boolean clause
// tree. Post-processing-only filters (scheduledOn, name resolution, dedup,
// privacy) contribute no clauses here.
func buildExpression(f request.Filters) (filter.Expression, error) {
	var must []filter.Condition

	if f.RecordType != "" {
		c, err := filter.NewMatch("recordType", f.RecordType)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}

	if f.DateStart != nil || f.DateEnd != nil {
		var gte, lte *float64
		if f.DateStart != nil {
			v := float64(f.DateStart.Unix())
			gte = &v
		}
		if f.DateEnd != nil {
			v := float64(f.DateEnd.Unix())
			lte = &v
		}
		rng, err := filter.NewRangeFilter(nil, gte, nil, lte)
		if err != nil {
			return filter.Expression{}, err
		}
		c, err := filter.NewRange("date", rng)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}

	if f.ReferencedDID != "" {
		c, err := filter.NewMatch("refs", f.ReferencedDID)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}

	if f.EquipmentDID != "" {
		c, err := filter.NewMatch("refs", f.EquipmentDID)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}

	return filter.NewExpression(must, nil, nil)
}

// identifierExpression builds the backward-compatible disjunction over both
// identifier fields. A lookup that checked only the current field would miss
// every pre-migration record.
func identifierExpression(target string) (filter.Expression, error) {
	didCond, err := filter.NewMatch("did", target)
	if err != nil {
		return filter.Expression{}, err
	}
	legacyCond, err := filter.NewMatch("didTx", target)
	if err != nil {
		return filter.Expression{}, err
	}
	return filter.NewExpression(nil, []filter.Condition{didCond, legacyCond}, nil)
}
