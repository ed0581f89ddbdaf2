package records

import (
	"encoding/json"
	"fmt"

	"github.com/oipwg/recordindex/internal/domain/record"
)

// KeyPrefix is the key namespace shared with the ingestion pipeline.
const KeyPrefix = "oip:record:"

// IndexName is the FT index over record documents.
const IndexName = "oip:records:idx"

// RecordDoc is the indexed document shape. The external ingestion pipeline
// writes these; this engine reads them. Field names double as JSON paths in
// the FT schema, so renames here are schema migrations.
type RecordDoc struct {
	Did            string                     `json:"did,omitempty"`
	DidTx          string                     `json:"didTx,omitempty"` // legacy identifier, pre-migration records
	RecordType     string                     `json:"recordType"`
	Name           string                     `json:"name,omitempty"`
	Date           int64                      `json:"date,omitempty"`
	BlockHeight    int64                      `json:"blockHeight,omitempty"`
	IndexedAt      int64                      `json:"indexedAt,omitempty"`
	AccessLevel    string                     `json:"accessLevel,omitempty"`
	OwnerPubKey    string                     `json:"ownerPubKey,omitempty"`
	Refs           []string                   `json:"refs,omitempty"`
	ScheduledDates []string                   `json:"scheduledDates,omitempty"`
	Payload        map[string]json.RawMessage `json:"payload,omitempty"`
}

func jsonMarshal(doc RecordDoc) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode record document: %w", err)
	}
	return data, nil
}

func parseDoc(data []byte) (RecordDoc, error) {
	var doc RecordDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return RecordDoc{}, fmt.Errorf("parse record document: %w", err)
	}
	return doc, nil
}

func (d RecordDoc) toDomain() record.Record {
	return record.Reconstruct(
		d.Did, d.DidTx, d.RecordType, d.Name,
		d.Date, d.BlockHeight, d.IndexedAt,
		record.NewAccessControl(d.AccessLevel, d.OwnerPubKey),
		d.Refs, d.ScheduledDates, d.Payload,
	)
}

// key computes the storage key. Current records are keyed by did, legacy
// records by didTx.
func (d RecordDoc) key() string {
	if d.Did != "" {
		return KeyPrefix + d.Did
	}
	return KeyPrefix + d.DidTx
}
