package records

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/oipwg/recordindex/internal/domain"
	"github.com/oipwg/recordindex/internal/domain/access"
	"github.com/oipwg/recordindex/internal/domain/did"
	"github.com/oipwg/recordindex/internal/domain/page"
	"github.com/oipwg/recordindex/internal/domain/query/plan"
	"github.com/oipwg/recordindex/internal/domain/query/request"
	"github.com/oipwg/recordindex/internal/domain/record"
	"github.com/oipwg/recordindex/internal/logger"
	"github.com/oipwg/recordindex/internal/metrics"
)

// Service is the record retrieval engine: plan, one index round-trip,
// post-processing, pagination.
type Service struct {
	repo     Repository
	resolver Resolver
}

// New creates a records service.
func New(repo Repository, resolver Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// GetRecords executes a record query for the given viewer.
//
// When no post-processing applies, the index query is paginated directly and
// the index-reported total is authoritative. Otherwise candidates are
// over-fetched per the plan, run through the pipeline, and the total is the
// post-filter count; reporting the raw index total here would break the
// pagination metadata for every viewer who cannot see all candidates.
func (s *Service) GetRecords(
	ctx context.Context, req *request.Request, viewer access.Viewer,
) (page.Page, error) {
	start := time.Now()
	p := plan.Compute(req.Filters(), req.PageSize())

	pg, err := s.getRecords(ctx, req, viewer, p)

	metrics.QueryDuration.
		WithLabelValues(strconv.FormatBool(p.NeedsPostProcessing)).
		Observe(time.Since(start).Seconds())
	metrics.QueriesTotal.WithLabelValues(outcome(err)).Inc()
	return pg, err
}

func (s *Service) getRecords(
	ctx context.Context, req *request.Request, viewer access.Viewer, p plan.Plan,
) (page.Page, error) {
	metrics.IndexFetchSize.Observe(float64(p.FetchSize))

	if !p.NeedsPostProcessing {
		offset := (req.Page() - 1) * req.PageSize()
		recs, total, err := s.repo.Search(ctx, req, offset, req.PageSize())
		if err != nil {
			return page.Page{}, fmt.Errorf("query records: %w", err)
		}
		return page.FromIndexTotal(recs, total, req.Page(), req.PageSize()), nil
	}

	// Post-processing path: fetch from offset 0, slice after filtering.
	candidates, reportedTotal, err := s.repo.Search(ctx, req, 0, p.FetchSize)
	if err != nil {
		return page.Page{}, fmt.Errorf("query records: %w", err)
	}

	f := req.Filters()

	visible := filterVisible(candidates, viewer)
	countDropped("privacy", len(candidates), len(visible))

	if len(f.SearchNames) > 0 {
		resolved, rerr := s.resolver.ResolveNames(ctx, f.SearchNames)
		if rerr != nil {
			return page.Page{}, fmt.Errorf("resolve search names: %w", rerr)
		}
		before := len(visible)
		visible = filterResolved(visible, resolved)
		countDropped("resolution", before, len(visible))
	}

	before := len(visible)
	visible = filterDerived(visible, f)
	countDropped("derived", before, len(visible))

	if f.NoDuplicates {
		before = len(visible)
		visible = dedupe(visible)
		countDropped("dedup", before, len(visible))
	}

	sortRecords(visible, req.SortBy(), req.Order())

	if reportedTotal > len(candidates) && len(candidates) == p.FetchSize {
		// The candidate universe was truncated at the fetch ceiling; totals
		// below reflect only what was fetched.
		logger.FromContext(ctx).Warn("candidate fetch truncated",
			zap.Int("fetch_size", p.FetchSize),
			zap.Int("index_total", reportedTotal),
		)
	}

	return page.Assemble(visible, req.Page(), req.PageSize()), nil
}

// GetRecord fetches one record by DID, matching either identifier field.
// Records invisible to the viewer report as not found.
func (s *Service) GetRecord(
	ctx context.Context, target string, viewer access.Viewer,
) (record.Record, error) {
	if !did.IsValid(target) {
		return record.Record{}, fmt.Errorf("%w: malformed did %q", domain.ErrInvalidFilter, target)
	}

	rec, err := s.repo.GetByDID(ctx, target)
	if err != nil {
		return record.Record{}, fmt.Errorf("get record %s: %w", target, err)
	}
	if !access.Visible(rec, viewer) {
		return record.Record{}, domain.ErrRecordNotFound
	}
	return rec, nil
}

// Forget removes a record from the index and invalidates cached resolutions
// referencing it. Admin capability required.
func (s *Service) Forget(ctx context.Context, target string, viewer access.Viewer) error {
	if !viewer.Admin {
		return domain.ErrUnauthorized
	}
	if !did.IsValid(target) {
		return fmt.Errorf("%w: malformed did %q", domain.ErrInvalidFilter, target)
	}

	rec, err := s.repo.Remove(ctx, target)
	if err != nil {
		return fmt.Errorf("forget record %s: %w", target, err)
	}

	if id := rec.Identifier(); id != "" {
		s.resolver.Invalidate(id)
	}
	if id := rec.LegacyIdentifier(); id != "" {
		s.resolver.Invalidate(id)
	}

	logger.FromContext(ctx).Info("record forgotten", zap.String("did", target))
	return nil
}

func countDropped(stage string, before, after int) {
	if dropped := before - after; dropped > 0 {
		metrics.StageDroppedTotal.WithLabelValues(stage).Add(float64(dropped))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidFilter):
		return "invalid"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return "backend_error"
	default:
		return "error"
	}
}
