package recordindex

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/oipwg/recordindex/internal/domain"
	"github.com/oipwg/recordindex/internal/domain/access"
	"github.com/oipwg/recordindex/internal/domain/page"
	"github.com/oipwg/recordindex/internal/domain/query/request"
	"github.com/oipwg/recordindex/internal/domain/record"
	recordrepo "github.com/oipwg/recordindex/internal/repository/records"
	healthuc "github.com/oipwg/recordindex/internal/usecase/health"
)

func internalRecord() record.Record {
	return record.Reconstruct(
		"did:arweave:a", "did:arweave:a-legacy", "workout", "leg day",
		1714521600, 840000, 1714522000,
		record.NewAccessControl("private", "owner-key"),
		[]string{"did:arweave:ex1"}, []string{"2024-05-01"},
		map[string]json.RawMessage{"workout": json.RawMessage(`{"sets":3}`)},
	)
}

func TestNew_RequiresAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error without database address")
	}
}

func TestRecordsQuery_ConvertsRequestAndViewer(t *testing.T) {
	var gotReq *request.Request
	var gotViewer access.Viewer

	uc := &mockRecordsUC{
		getRecordsFn: func(_ context.Context, req *request.Request, v access.Viewer) (page.Page, error) {
			gotReq = req
			gotViewer = v
			return page.Assemble([]record.Record{internalRecord()}, 1, 20), nil
		},
	}
	client := testClient(uc, nil, nil)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	res, err := client.Records().Query(context.Background(), Query{
		RecordType:   "workout",
		DateStart:    &day,
		SearchNames:  []string{"squat"},
		NoDuplicates: true,
		Page:         2,
		PageSize:     50,
		SortBy:       "blockHeight",
		Order:        "asc",
	}, Viewer{PubKey: "owner-key", Admin: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := gotReq.Filters()
	if f.RecordType != "workout" || !f.NoDuplicates || len(f.SearchNames) != 1 {
		t.Errorf("filters not converted: %+v", f)
	}
	if f.DateStart == nil || !f.DateStart.Equal(day) {
		t.Errorf("date not converted: %v", f.DateStart)
	}
	if gotReq.Page() != 2 || gotReq.PageSize() != 50 {
		t.Errorf("pagination not converted: page=%d size=%d", gotReq.Page(), gotReq.PageSize())
	}
	if gotReq.SortBy() != request.SortByBlockHeight || gotReq.Order() != request.Asc {
		t.Errorf("sort not converted: %q %q", gotReq.SortBy(), gotReq.Order())
	}
	if gotViewer.PubKey != "owner-key" || !gotViewer.Admin {
		t.Errorf("viewer not converted: %+v", gotViewer)
	}

	if res.Total != 1 || len(res.Records) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	r := res.Records[0]
	if r.Did != "did:arweave:a" || r.DidTx != "did:arweave:a-legacy" {
		t.Errorf("identifiers not converted: %+v", r)
	}
	if r.AccessLevel != "private" || r.OwnerPubKey != "owner-key" {
		t.Errorf("access not converted: %+v", r)
	}
	if string(r.Payload["workout"]) != `{"sets":3}` {
		t.Errorf("payload not converted: %s", r.Payload["workout"])
	}
}

func TestRecordsQuery_InvalidSortRejectedBeforeUseCase(t *testing.T) {
	called := false
	uc := &mockRecordsUC{
		getRecordsFn: func(context.Context, *request.Request, access.Viewer) (page.Page, error) {
			called = true
			return page.Page{}, nil
		},
	}
	client := testClient(uc, nil, nil)

	_, err := client.Records().Query(context.Background(), Query{SortBy: "banana"}, Viewer{})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
	if called {
		t.Error("use case should not run for an invalid query")
	}
}

func TestRecordsQuery_PropagatesBackendError(t *testing.T) {
	uc := &mockRecordsUC{
		getRecordsFn: func(context.Context, *request.Request, access.Viewer) (page.Page, error) {
			return page.Page{}, domain.ErrBackendUnavailable
		},
	}
	client := testClient(uc, nil, nil)

	_, err := client.Records().Query(context.Background(), Query{}, Viewer{})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestRecordsGet(t *testing.T) {
	var gotTarget string
	uc := &mockRecordsUC{
		getRecordFn: func(_ context.Context, target string, _ access.Viewer) (record.Record, error) {
			gotTarget = target
			return internalRecord(), nil
		},
	}
	client := testClient(uc, nil, nil)

	r, err := client.Records().Get(context.Background(), "did:arweave:a", Viewer{Admin: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTarget != "did:arweave:a" {
		t.Errorf("target not passed through, got %q", gotTarget)
	}
	if r.Name != "leg day" || r.BlockHeight != 840000 {
		t.Errorf("record not converted: %+v", r)
	}
}

func TestRecordsGet_NotFound(t *testing.T) {
	uc := &mockRecordsUC{
		getRecordFn: func(context.Context, string, access.Viewer) (record.Record, error) {
			return record.Record{}, domain.ErrRecordNotFound
		},
	}
	client := testClient(uc, nil, nil)

	_, err := client.Records().Get(context.Background(), "did:arweave:missing", Viewer{})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRecordsForget(t *testing.T) {
	var gotViewer access.Viewer
	uc := &mockRecordsUC{
		forgetFn: func(_ context.Context, _ string, v access.Viewer) error {
			gotViewer = v
			return nil
		},
	}
	client := testClient(uc, nil, nil)

	if err := client.Records().Forget(context.Background(), "did:arweave:a", Viewer{Admin: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotViewer.Admin {
		t.Error("admin capability not passed through")
	}
}

func TestRecordsForget_Unauthorized(t *testing.T) {
	uc := &mockRecordsUC{
		forgetFn: func(context.Context, string, access.Viewer) error {
			return domain.ErrUnauthorized
		},
	}
	client := testClient(uc, nil, nil)

	err := client.Records().Forget(context.Background(), "did:arweave:a", Viewer{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRecordsIndex_ConvertsDocument(t *testing.T) {
	var gotDoc recordrepo.RecordDoc
	idx := &mockIndexer{
		indexFn: func(_ context.Context, doc recordrepo.RecordDoc) error {
			gotDoc = doc
			return nil
		},
	}
	client := testClient(nil, idx, nil)

	err := client.Records().Index(context.Background(), Record{
		Did:         "did:arweave:new",
		RecordType:  "exercise",
		Name:        "deadlift",
		BlockHeight: 840001,
		AccessLevel: "public",
		Refs:        []string{"did:arweave:eq1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDoc.Did != "did:arweave:new" || gotDoc.RecordType != "exercise" {
		t.Errorf("document not converted: %+v", gotDoc)
	}
	if gotDoc.BlockHeight != 840001 || len(gotDoc.Refs) != 1 {
		t.Errorf("document fields not converted: %+v", gotDoc)
	}
}

func TestHealth(t *testing.T) {
	client := testClient(nil, nil, &mockHealthUC{
		report: healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{
				"database": healthuc.CheckOK,
				"index":    healthuc.CheckError,
			},
		},
	})

	hs := client.Health(context.Background())
	if hs.Status != "degraded" {
		t.Errorf("expected degraded, got %q", hs.Status)
	}
	if hs.Checks["database"] != "ok" || hs.Checks["index"] != "error" {
		t.Errorf("unexpected checks %v", hs.Checks)
	}
}
