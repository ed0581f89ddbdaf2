package request

import (
	"errors"
	"testing"
	"time"

	"github.com/oipwg/recordindex/internal/domain"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New(Filters{}, 0, 0, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Page() != 1 {
		t.Errorf("expected page 1, got %d", r.Page())
	}
	if r.PageSize() != DefaultPageSize {
		t.Errorf("expected page size %d, got %d", DefaultPageSize, r.PageSize())
	}
	if r.SortBy() != SortByDate {
		t.Errorf("expected sort by date, got %q", r.SortBy())
	}
	if r.Order() != Desc {
		t.Errorf("expected descending, got %q", r.Order())
	}
}

func TestNew_PageSizeClamped(t *testing.T) {
	r, err := New(Filters{}, 1, MaxPageSize+50, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.PageSize() != MaxPageSize {
		t.Errorf("expected clamp to %d, got %d", MaxPageSize, r.PageSize())
	}
}

func TestNew_SortFields(t *testing.T) {
	for _, sb := range []string{"date", "blockHeight", "name"} {
		if _, err := New(Filters{}, 1, 20, sb, "asc"); err != nil {
			t.Errorf("sort by %q rejected: %v", sb, err)
		}
	}

	_, err := New(Filters{}, 1, 20, "score", "asc")
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter for unknown sort field, got %v", err)
	}
}

func TestNew_InvalidOrder(t *testing.T) {
	_, err := New(Filters{}, 1, 20, "date", "sideways")
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestNew_InvertedDateRange(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)

	_, err := New(Filters{DateStart: &start, DateEnd: &end}, 1, 20, "", "")
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestNew_MalformedDIDFilters(t *testing.T) {
	_, err := New(Filters{ReferencedDID: "not-a-did"}, 1, 20, "", "")
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter for referencedDID, got %v", err)
	}

	_, err = New(Filters{EquipmentDID: "arweave:abc"}, 1, 20, "", "")
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter for equipmentDID, got %v", err)
	}
}

func TestNew_EmptySearchName(t *testing.T) {
	_, err := New(Filters{SearchNames: []string{"squat", ""}}, 1, 20, "", "")
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestNew_TooManySearchNames(t *testing.T) {
	names := make([]string, MaxSearchNames+1)
	for i := range names {
		names[i] = "n"
	}
	_, err := New(Filters{SearchNames: names}, 1, 20, "", "")
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestParseDate_UnixSeconds(t *testing.T) {
	got, err := ParseDate("1714521600")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Unix(1714521600, 0).UTC()
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseDate_RFC3339(t *testing.T) {
	got, err := ParseDate("2024-05-01T12:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 12 || got.Minute() != 30 {
		t.Errorf("unexpected time: %v", got)
	}
}

func TestParseDate_CivilDate(t *testing.T) {
	got, err := ParseDate("2024-05-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Day(got) != "2024-05-01" {
		t.Errorf("expected 2024-05-01, got %q", Day(got))
	}
}

func TestParseDate_Malformed(t *testing.T) {
	_, err := ParseDate("yesterday")
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}
