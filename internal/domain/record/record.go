package record

import "encoding/json"

// AccessControl governs record visibility.
type AccessControl struct {
	level       string
	ownerPubKey string
}

// NewAccessControl creates access-control metadata.
func NewAccessControl(level, ownerPubKey string) AccessControl {
	return AccessControl{level: level, ownerPubKey: ownerPubKey}
}

// Level returns the access level ("public", "private", ...). Empty means unset.
func (a AccessControl) Level() string { return a.level }

// OwnerPubKey returns the owner's public key.
func (a AccessControl) OwnerPubKey() string { return a.ownerPubKey }

// Record is an indexed OIP record (immutable value object, hydrated from the
// search index).
//
// identifier is the canonical DID; legacyIdentifier the deprecated didTx
// field carried by pre-migration records. Either may be empty, never both on
// a well-formed record.
type Record struct {
	identifier       string
	legacyIdentifier string
	recordType       string
	name             string
	date             int64 // basic.date, unix seconds
	blockHeight      int64 // ingestion block height
	indexedAt        int64 // unix millis the record entered the index
	access           AccessControl
	refs             []string // referenced DIDs
	scheduledDates   []string // YYYY-MM-DD, workoutSchedule records only
	payload          map[string]json.RawMessage
}

// Reconstruct creates a Record from stored fields (index hydration, no
// validation).
func Reconstruct(
	identifier, legacyIdentifier, recordType, name string,
	date, blockHeight, indexedAt int64,
	access AccessControl,
	refs, scheduledDates []string,
	payload map[string]json.RawMessage,
) Record {
	return Record{
		identifier:       identifier,
		legacyIdentifier: legacyIdentifier,
		recordType:       recordType,
		name:             name,
		date:             date,
		blockHeight:      blockHeight,
		indexedAt:        indexedAt,
		access:           access,
		refs:             refs,
		scheduledDates:   scheduledDates,
		payload:          payload,
	}
}

// Identifier returns the canonical DID, empty on pre-migration records.
func (r Record) Identifier() string { return r.identifier }

// LegacyIdentifier returns the deprecated didTx identifier, if present.
func (r Record) LegacyIdentifier() string { return r.legacyIdentifier }

// RecordType returns the record type discriminator.
func (r Record) RecordType() string { return r.recordType }

// Name returns the record's display name (basic.name).
func (r Record) Name() string { return r.name }

// Date returns the record date in unix seconds.
func (r Record) Date() int64 { return r.date }

// BlockHeight returns the ingestion block height.
func (r Record) BlockHeight() int64 { return r.blockHeight }

// IndexedAt returns when the record entered the index (unix millis).
func (r Record) IndexedAt() int64 { return r.indexedAt }

// Access returns the access-control metadata. Zero value means public.
func (r Record) Access() AccessControl { return r.access }

// Refs returns the DIDs this record references.
func (r Record) Refs() []string { return r.refs }

// ScheduledDates returns the schedule dates (YYYY-MM-DD) for schedule records.
func (r Record) ScheduledDates() []string { return r.scheduledDates }

// Payload returns the recordType-specific sub-objects keyed by template name.
func (r Record) Payload() map[string]json.RawMessage { return r.payload }

// HasTemplate reports whether the payload carries the named template
// sub-object.
func (r Record) HasTemplate(name string) bool {
	_, ok := r.payload[name]
	return ok
}

// References reports whether the record points at the given DID.
func (r Record) References(did string) bool {
	for _, ref := range r.refs {
		if ref == did {
			return true
		}
	}
	return false
}

// ScheduledOn reports whether a schedule record covers the given day
// (YYYY-MM-DD).
func (r Record) ScheduledOn(day string) bool {
	for _, d := range r.scheduledDates {
		if d == day {
			return true
		}
	}
	return false
}
