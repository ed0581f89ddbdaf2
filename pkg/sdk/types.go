package recordindex

import (
	"encoding/json"
	"time"
)

// Viewer identifies the requester for visibility decisions. The zero value
// is an anonymous caller and sees public records only.
type Viewer struct {
	PubKey string
	Admin  bool
}

// Query is a structured record query. Zero fields mean "filter absent".
type Query struct {
	RecordType    string
	DateStart     *time.Time
	DateEnd       *time.Time
	ScheduledOn   *time.Time // civil date; time-of-day ignored
	SearchNames   []string
	ReferencedDID string
	TemplateType  string
	EquipmentDID  string
	NoDuplicates  bool
	Authenticated bool

	Page     int    // 1-based, default 1
	PageSize int    // default 20
	SortBy   string // date (default), blockHeight, name
	Order    string // desc (default), asc
}

// Record is an indexed OIP record. On writes it is the document shape the
// ingestion side stores; on reads it is the hydrated index entry.
type Record struct {
	Did            string
	DidTx          string // legacy identifier, pre-migration records
	RecordType     string
	Name           string
	Date           int64 // unix seconds
	BlockHeight    int64
	IndexedAt      int64 // unix millis
	AccessLevel    string
	OwnerPubKey    string
	Refs           []string
	ScheduledDates []string
	Payload        map[string]json.RawMessage
}

// ResultPage is one page of visible records plus pagination metadata.
type ResultPage struct {
	Records    []Record
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}
