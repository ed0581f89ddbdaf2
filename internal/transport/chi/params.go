package chi

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/oipwg/recordindex/internal/domain/query/request"
)

// listQueryParams is the query-string surface of GET /records.
type listQueryParams struct {
	RecordType    *string
	DateStart     *string
	DateEnd       *string
	ScheduledOn   *string
	SearchNames   *[]string
	ReferencedDID *string
	TemplateType  *string
	EquipmentDID  *string
	NoDuplicates  *bool
	Authenticated *bool
	Page          *int
	PageSize      *int
	SortBy        *string
	Order         *string
}

// bindListQueryParams decodes GET /records query parameters in the
// form/explode style.
func bindListQueryParams(r *http.Request) (listQueryParams, error) {
	q := r.URL.Query()
	var p listQueryParams

	for _, bind := range []struct {
		name string
		dest any
	}{
		{"recordType", &p.RecordType},
		{"dateStart", &p.DateStart},
		{"dateEnd", &p.DateEnd},
		{"scheduledOn", &p.ScheduledOn},
		{"searchNames", &p.SearchNames},
		{"didReference", &p.ReferencedDID},
		{"template", &p.TemplateType},
		{"equipmentDid", &p.EquipmentDID},
		{"noDuplicates", &p.NoDuplicates},
		{"authenticated", &p.Authenticated},
		{"page", &p.Page},
		{"pageSize", &p.PageSize},
		{"sortBy", &p.SortBy},
		{"order", &p.Order},
	} {
		if err := runtime.BindQueryParameter("form", true, false, bind.name, q, bind.dest); err != nil {
			return listQueryParams{}, fmt.Errorf("parameter %q: %w", bind.name, err)
		}
	}

	return p, nil
}

// buildRequest converts bound query parameters into a validated query.
// defaultPageSize/maxPageSize come from configuration and are applied before
// domain validation.
func buildRequest(p listQueryParams, defaultPageSize, maxPageSize int) (request.Request, error) {
	var f request.Filters

	f.RecordType = deref(p.RecordType)
	f.ReferencedDID = deref(p.ReferencedDID)
	f.TemplateType = deref(p.TemplateType)
	f.EquipmentDID = deref(p.EquipmentDID)
	if p.SearchNames != nil {
		f.SearchNames = *p.SearchNames
	}
	if p.NoDuplicates != nil {
		f.NoDuplicates = *p.NoDuplicates
	}
	if p.Authenticated != nil {
		f.IsAuthenticated = *p.Authenticated
	}

	if s := deref(p.DateStart); s != "" {
		t, err := request.ParseDate(s)
		if err != nil {
			return request.Request{}, err
		}
		f.DateStart = &t
	}
	if s := deref(p.DateEnd); s != "" {
		t, err := request.ParseDate(s)
		if err != nil {
			return request.Request{}, err
		}
		f.DateEnd = &t
	}
	if s := deref(p.ScheduledOn); s != "" {
		t, err := request.ParseDate(s)
		if err != nil {
			return request.Request{}, err
		}
		f.ScheduledOn = &t
	}

	pageSize := derefInt(p.PageSize)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return request.New(f, derefInt(p.Page), pageSize, deref(p.SortBy), deref(p.Order))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
