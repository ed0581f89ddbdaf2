package recordindex

import (
	"context"
	"fmt"
	"time"

	"github.com/oipwg/recordindex/internal/domain/access"
	"github.com/oipwg/recordindex/internal/domain/query/request"
	"github.com/oipwg/recordindex/internal/domain/record"
	recordrepo "github.com/oipwg/recordindex/internal/repository/records"
)

// RecordService queries and maintains the record index.
type RecordService struct {
	svc     recordsUseCase
	indexer recordIndexer
	obs     *observer
}

// Query runs a structured record query and returns one page of records
// visible to the viewer.
func (s *RecordService) Query(ctx context.Context, q Query, v Viewer) (_ ResultPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("query", start, err) }()

	req, err := toInternalRequest(q)
	if err != nil {
		return ResultPage{}, fmt.Errorf("query: %w", err)
	}

	pg, err := s.svc.GetRecords(ctx, &req, toInternalViewer(v))
	if err != nil {
		return ResultPage{}, fmt.Errorf("query: %w", err)
	}

	out := make([]Record, len(pg.Items))
	for i, r := range pg.Items {
		out[i] = fromInternalRecord(r)
	}
	return ResultPage{
		Records:    out,
		Total:      pg.Total,
		Page:       pg.Page,
		PageSize:   pg.PageSize,
		TotalPages: pg.TotalPages,
		HasNext:    pg.HasNext,
		HasPrev:    pg.HasPrev,
	}, nil
}

// Get retrieves one record by DID. Either identifier field matches. Records
// the viewer may not see are reported as not found.
func (s *RecordService) Get(ctx context.Context, did string, v Viewer) (_ Record, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get", start, err) }()

	r, err := s.svc.GetRecord(ctx, did, toInternalViewer(v))
	if err != nil {
		return Record{}, fmt.Errorf("get record: %w", err)
	}
	return fromInternalRecord(r), nil
}

// Forget removes a record from the index and drops cached name resolutions
// pointing at it. Admin capability required.
func (s *RecordService) Forget(ctx context.Context, did string, v Viewer) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("forget", start, err) }()

	if err = s.svc.Forget(ctx, did, toInternalViewer(v)); err != nil {
		return fmt.Errorf("forget record: %w", err)
	}
	return nil
}

// Index writes a record document into the index. This is the ingestion-side
// write path; the document becomes queryable immediately.
func (s *RecordService) Index(ctx context.Context, r Record) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("index", start, err) }()

	if err = s.indexer.Index(ctx, toInternalDoc(r)); err != nil {
		return fmt.Errorf("index record: %w", err)
	}
	return nil
}

func toInternalRequest(q Query) (request.Request, error) {
	f := request.Filters{
		RecordType:      q.RecordType,
		DateStart:       q.DateStart,
		DateEnd:         q.DateEnd,
		ScheduledOn:     q.ScheduledOn,
		SearchNames:     q.SearchNames,
		ReferencedDID:   q.ReferencedDID,
		TemplateType:    q.TemplateType,
		EquipmentDID:    q.EquipmentDID,
		NoDuplicates:    q.NoDuplicates,
		IsAuthenticated: q.Authenticated,
	}
	return request.New(f, q.Page, q.PageSize, q.SortBy, q.Order)
}

func toInternalViewer(v Viewer) access.Viewer {
	return access.Viewer{PubKey: v.PubKey, Admin: v.Admin}
}

func fromInternalRecord(r record.Record) Record {
	return Record{
		Did:            r.Identifier(),
		DidTx:          r.LegacyIdentifier(),
		RecordType:     r.RecordType(),
		Name:           r.Name(),
		Date:           r.Date(),
		BlockHeight:    r.BlockHeight(),
		IndexedAt:      r.IndexedAt(),
		AccessLevel:    r.Access().Level(),
		OwnerPubKey:    r.Access().OwnerPubKey(),
		Refs:           r.Refs(),
		ScheduledDates: r.ScheduledDates(),
		Payload:        r.Payload(),
	}
}

func toInternalDoc(r Record) recordrepo.RecordDoc {
	return recordrepo.RecordDoc{
		Did:            r.Did,
		DidTx:          r.DidTx,
		RecordType:     r.RecordType,
		Name:           r.Name,
		Date:           r.Date,
		BlockHeight:    r.BlockHeight,
		IndexedAt:      r.IndexedAt,
		AccessLevel:    r.AccessLevel,
		OwnerPubKey:    r.OwnerPubKey,
		Refs:           r.Refs,
		ScheduledDates: r.ScheduledDates,
		Payload:        r.Payload,
	}
}
