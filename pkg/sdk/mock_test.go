package recordindex

import (
	"context"

	"github.com/oipwg/recordindex/internal/domain/access"
	"github.com/oipwg/recordindex/internal/domain/page"
	"github.com/oipwg/recordindex/internal/domain/query/request"
	"github.com/oipwg/recordindex/internal/domain/record"
	recordrepo "github.com/oipwg/recordindex/internal/repository/records"
	healthuc "github.com/oipwg/recordindex/internal/usecase/health"
)

// --- recordsUseCase mock ---

type mockRecordsUC struct {
	getRecordsFn func(ctx context.Context, req *request.Request, viewer access.Viewer) (page.Page, error)
	getRecordFn  func(ctx context.Context, target string, viewer access.Viewer) (record.Record, error)
	forgetFn     func(ctx context.Context, target string, viewer access.Viewer) error
}

func (m *mockRecordsUC) GetRecords(
	ctx context.Context, req *request.Request, viewer access.Viewer,
) (page.Page, error) {
	return m.getRecordsFn(ctx, req, viewer)
}

func (m *mockRecordsUC) GetRecord(
	ctx context.Context, target string, viewer access.Viewer,
) (record.Record, error) {
	return m.getRecordFn(ctx, target, viewer)
}

func (m *mockRecordsUC) Forget(ctx context.Context, target string, viewer access.Viewer) error {
	return m.forgetFn(ctx, target, viewer)
}

// --- recordIndexer mock ---

type mockIndexer struct {
	indexFn func(ctx context.Context, doc recordrepo.RecordDoc) error
}

func (m *mockIndexer) Index(ctx context.Context, doc recordrepo.RecordDoc) error {
	return m.indexFn(ctx, doc)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(recordSvc recordsUseCase, indexer recordIndexer, healthSvc healthUseCase) *Client {
	return &Client{
		recordSvc: recordSvc,
		indexer:   indexer,
		healthSvc: healthSvc,
	}
}
