package request

import (
	"fmt"
	"strconv"
	"time"

	"github.com/oipwg/recordindex/internal/domain"
	"github.com/oipwg/recordindex/internal/domain/did"
)

// Pagination and filter limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxSearchNames  = 32
)

// SortField names an indexed sort key.
type SortField string

// Supported sort fields.
const (
	SortByDate        SortField = "date"
	SortByBlockHeight SortField = "blockHeight"
	SortByName        SortField = "name"
)

// SortOrder is a sort direction.
type SortOrder string

// Sort directions.
const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Filters is the recognized filter set of a record query. Zero values mean
// "filter absent".
type Filters struct {
	RecordType      string
	DateStart       *time.Time
	DateEnd         *time.Time
	ScheduledOn     *time.Time // civil date; time-of-day ignored
	SearchNames     []string
	ReferencedDID   string
	TemplateType    string
	EquipmentDID    string
	NoDuplicates    bool
	IsAuthenticated bool
}

// Request is a validated record query.
type Request struct {
	filters  Filters
	page     int
	pageSize int
	sortBy   SortField
	order    SortOrder
}

// New validates and normalizes query parameters. Invalid filter values fail
// with ErrInvalidFilter before any index round-trip.
// Defaults: page=1, pageSize=20, sort by date descending.
func New(f Filters, page, pageSize int, sortBy, order string) (Request, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	sb := SortField(sortBy)
	if sortBy == "" {
		sb = SortByDate
	}
	switch sb {
	case SortByDate, SortByBlockHeight, SortByName:
	default:
		return Request{}, fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidFilter, sortBy)
	}

	so := SortOrder(order)
	if order == "" {
		so = Desc
	}
	if so != Asc && so != Desc {
		return Request{}, fmt.Errorf("%w: sort order must be asc or desc, got %q", domain.ErrInvalidFilter, order)
	}

	if err := validateFilters(f); err != nil {
		return Request{}, err
	}

	return Request{filters: f, page: page, pageSize: pageSize, sortBy: sb, order: so}, nil
}

func validateFilters(f Filters) error {
	if f.DateStart != nil && f.DateEnd != nil && f.DateEnd.Before(*f.DateStart) {
		return fmt.Errorf("%w: dateEnd precedes dateStart", domain.ErrInvalidFilter)
	}
	if len(f.SearchNames) > MaxSearchNames {
		return fmt.Errorf("%w: too many search names (max %d)", domain.ErrInvalidFilter, MaxSearchNames)
	}
	for _, n := range f.SearchNames {
		if n == "" {
			return fmt.Errorf("%w: empty search name", domain.ErrInvalidFilter)
		}
	}
	if f.ReferencedDID != "" && !did.IsValid(f.ReferencedDID) {
		return fmt.Errorf("%w: malformed referencedDID %q", domain.ErrInvalidFilter, f.ReferencedDID)
	}
	if f.EquipmentDID != "" && !did.IsValid(f.EquipmentDID) {
		return fmt.Errorf("%w: malformed equipmentDID %q", domain.ErrInvalidFilter, f.EquipmentDID)
	}
	return nil
}

// Filters returns the filter set.
func (r *Request) Filters() Filters { return r.filters }

// Page returns the 1-indexed page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the page size.
func (r *Request) PageSize() int { return r.pageSize }

// SortBy returns the sort field.
func (r *Request) SortBy() SortField { return r.sortBy }

// Order returns the sort direction.
func (r *Request) Order() SortOrder { return r.order }

// ParseDate parses a filter date value: unix seconds, RFC 3339, or
// YYYY-MM-DD. Failures wrap ErrInvalidFilter.
func ParseDate(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: malformed date %q", domain.ErrInvalidFilter, s)
}

// Day normalizes a time to its YYYY-MM-DD form, the granularity schedule
// records are matched at.
func Day(t time.Time) string {
	return t.Format("2006-01-02")
}
