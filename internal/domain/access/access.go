// Package access implements per-record visibility decisions. Ownership is
// requester-dependent and not indexed, so visibility is always a post-fetch
// filter, never an index clause.
package access

import "github.com/oipwg/recordindex/internal/domain/record"

// Access levels recognized by the visibility rules. Anything else is treated
// as private (fail closed).
const (
	LevelPublic  = "public"
	LevelPrivate = "private"
)

// Viewer identifies the requester. The zero value is an anonymous caller.
type Viewer struct {
	PubKey string
	Admin  bool // external authorization decision, injected by the caller
}

// Anonymous reports whether the viewer carries no identity.
func (v Viewer) Anonymous() bool { return v.PubKey == "" && !v.Admin }

// Visible reports whether the viewer may see the record.
//
// Absent access control or level "public" is visible to everyone. "private"
// requires an exact owner pubkey match or the admin capability. Unrecognized
// levels are private.
func Visible(r record.Record, v Viewer) bool {
	level := r.Access().Level()
	if level == "" || level == LevelPublic {
		return true
	}
	if v.Admin {
		return true
	}
	if level == LevelPrivate {
		return v.PubKey != "" && v.PubKey == r.Access().OwnerPubKey()
	}
	return false
}
