package records

import (
	"context"
	"encoding/json"

	"github.com/oipwg/recordindex/internal/domain/query/request"
	"github.com/oipwg/recordindex/internal/domain/record"
)

// --- Mocks ---

type mockRepository struct {
	searchFn   func(ctx context.Context, req *request.Request, offset, limit int) ([]record.Record, int, error)
	getByDIDFn func(ctx context.Context, target string) (record.Record, error)
	removeFn   func(ctx context.Context, target string) (record.Record, error)
}

func (m *mockRepository) Search(
	ctx context.Context, req *request.Request, offset, limit int,
) ([]record.Record, int, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockRepository) GetByDID(ctx context.Context, target string) (record.Record, error) {
	if m.getByDIDFn != nil {
		return m.getByDIDFn(ctx, target)
	}
	return record.Record{}, nil
}

func (m *mockRepository) Remove(ctx context.Context, target string) (record.Record, error) {
	if m.removeFn != nil {
		return m.removeFn(ctx, target)
	}
	return record.Record{}, nil
}

type mockResolver struct {
	resolveFn   func(ctx context.Context, names []string) (map[string]struct{}, error)
	invalidated []string
}

func (m *mockResolver) ResolveNames(ctx context.Context, names []string) (map[string]struct{}, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, names)
	}
	return nil, nil
}

func (m *mockResolver) Invalidate(did string) {
	m.invalidated = append(m.invalidated, did)
}

// --- Fixtures ---

// recordSpec is a terse fixture description for building test records.
type recordSpec struct {
	did       string
	didTx     string
	typ       string
	name      string
	date      int64
	block     int64
	level     string
	owner     string
	refs      []string
	scheduled []string
	payload   map[string]string
}

func buildRecord(s recordSpec) record.Record {
	if s.typ == "" {
		s.typ = "post"
	}
	var payload map[string]json.RawMessage
	if len(s.payload) > 0 {
		payload = make(map[string]json.RawMessage, len(s.payload))
		for k, v := range s.payload {
			payload[k] = json.RawMessage(v)
		}
	}
	return record.Reconstruct(
		s.did, s.didTx, s.typ, s.name,
		s.date, s.block, 0,
		record.NewAccessControl(s.level, s.owner),
		s.refs, s.scheduled, payload,
	)
}

func buildRecords(specs ...recordSpec) []record.Record {
	recs := make([]record.Record, len(specs))
	for i, s := range specs {
		recs[i] = buildRecord(s)
	}
	return recs
}

func identifiers(recs []record.Record) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = identifierOf(r)
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
