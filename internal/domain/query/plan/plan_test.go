package plan

import (
	"testing"
	"time"

	"github.com/oipwg/recordindex/internal/domain/query/request"
)

func TestCompute_NoFilters_FastPath(t *testing.T) {
	p := Compute(request.Filters{}, 20)

	if p.NeedsPostProcessing {
		t.Error("no filters should not require post-processing")
	}
	if p.Multiplier != 1 {
		t.Errorf("expected multiplier 1, got %d", p.Multiplier)
	}
	if p.FetchSize != 20 {
		t.Errorf("expected fetch size 20, got %d", p.FetchSize)
	}
}

func TestCompute_RecordTypeOnly_FastPath(t *testing.T) {
	p := Compute(request.Filters{RecordType: "post"}, 20)

	if p.NeedsPostProcessing {
		t.Error("record type alone is fully index-expressible")
	}
	if p.FetchSize != 20 {
		t.Errorf("expected fetch size 20, got %d", p.FetchSize)
	}
}

func TestCompute_SafetyMultiplierTriggers(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		f    request.Filters
	}{
		{"template", request.Filters{TemplateType: "workout"}},
		{"authenticated", request.Filters{IsAuthenticated: true}},
		{"scheduled", request.Filters{ScheduledOn: &day}},
		{"search names", request.Filters{SearchNames: []string{"squat"}}},
		{"referenced did", request.Filters{ReferencedDID: "did:arweave:x"}},
		{"equipment did", request.Filters{EquipmentDID: "did:arweave:y"}},
		{"date start", request.Filters{DateStart: &day}},
		{"date end", request.Filters{DateEnd: &day}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Compute(tc.f, 20)
			if !p.NeedsPostProcessing {
				t.Fatal("expected post-processing")
			}
			if p.Multiplier != SafetyMultiplier {
				t.Errorf("expected multiplier %d, got %d", SafetyMultiplier, p.Multiplier)
			}
			if p.FetchSize != 20*SafetyMultiplier {
				t.Errorf("expected fetch size %d, got %d", 20*SafetyMultiplier, p.FetchSize)
			}
		})
	}
}

func TestCompute_DedupFixedFetch(t *testing.T) {
	p := Compute(request.Filters{NoDuplicates: true}, 20)

	if !p.NeedsPostProcessing {
		t.Fatal("expected post-processing")
	}
	if p.FetchSize != DedupFetchSize {
		t.Errorf("expected fetch size %d, got %d", DedupFetchSize, p.FetchSize)
	}
}

func TestCompute_TemplateWinsOverDedup(t *testing.T) {
	p := Compute(request.Filters{TemplateType: "workout", NoDuplicates: true}, 20)

	if p.Multiplier != SafetyMultiplier {
		t.Errorf("expected multiplier %d, got %d", SafetyMultiplier, p.Multiplier)
	}
	if p.FetchSize != 20*SafetyMultiplier {
		t.Errorf("expected fetch size %d, got %d", 20*SafetyMultiplier, p.FetchSize)
	}
}

func TestCompute_FetchSizeCapped(t *testing.T) {
	p := Compute(request.Filters{TemplateType: "workout"}, 5000)

	if p.FetchSize != MaxFetchSize {
		t.Errorf("expected cap %d, got %d", MaxFetchSize, p.FetchSize)
	}
}

func TestCompute_FetchSizeNeverBelowPageSize(t *testing.T) {
	p := Compute(request.Filters{TemplateType: "workout"}, 20)

	if p.FetchSize < 20 {
		t.Errorf("fetch size %d below page size", p.FetchSize)
	}
}

func TestCompute_ZeroPageSizeUsesDefault(t *testing.T) {
	p := Compute(request.Filters{}, 0)

	if p.FetchSize != request.DefaultPageSize {
		t.Errorf("expected fetch size %d, got %d", request.DefaultPageSize, p.FetchSize)
	}
}
