package access

import (
	"testing"

	"github.com/oipwg/recordindex/internal/domain/record"
)

func recordWithAccess(level, owner string) record.Record {
	return record.Reconstruct(
		"did:arweave:r1", "", "post", "r1",
		0, 0, 0,
		record.NewAccessControl(level, owner),
		nil, nil, nil,
	)
}

func TestVisible_PublicToEveryone(t *testing.T) {
	r := recordWithAccess(LevelPublic, "owner-key")

	if !Visible(r, Viewer{}) {
		t.Error("public record hidden from anonymous viewer")
	}
	if !Visible(r, Viewer{PubKey: "someone-else"}) {
		t.Error("public record hidden from authenticated viewer")
	}
}

func TestVisible_UnsetLevelTreatedAsPublic(t *testing.T) {
	r := recordWithAccess("", "")
	if !Visible(r, Viewer{}) {
		t.Error("record without access control hidden from anonymous viewer")
	}
}

func TestVisible_PrivateRequiresExactOwner(t *testing.T) {
	r := recordWithAccess(LevelPrivate, "owner-key")

	if Visible(r, Viewer{}) {
		t.Error("private record visible to anonymous viewer")
	}
	if Visible(r, Viewer{PubKey: "someone-else"}) {
		t.Error("private record visible to non-owner")
	}
	if !Visible(r, Viewer{PubKey: "owner-key"}) {
		t.Error("private record hidden from owner")
	}
}

func TestVisible_PrivateWithoutOwnerKeyHiddenFromAll(t *testing.T) {
	r := recordWithAccess(LevelPrivate, "")

	// No owner key on the record: nobody but an admin qualifies, even an
	// anonymous viewer with an empty pubkey must not slip through.
	if Visible(r, Viewer{}) {
		t.Error("ownerless private record visible to anonymous viewer")
	}
	if Visible(r, Viewer{PubKey: "any"}) {
		t.Error("ownerless private record visible to authenticated viewer")
	}
}

func TestVisible_AdminSeesEverything(t *testing.T) {
	admin := Viewer{PubKey: "admin-key", Admin: true}

	if !Visible(recordWithAccess(LevelPrivate, "owner-key"), admin) {
		t.Error("private record hidden from admin")
	}
	if !Visible(recordWithAccess("classified", "owner-key"), admin) {
		t.Error("unknown-level record hidden from admin")
	}
}

func TestVisible_UnknownLevelFailsClosed(t *testing.T) {
	r := recordWithAccess("internal", "owner-key")

	if Visible(r, Viewer{}) {
		t.Error("unknown access level visible to anonymous viewer")
	}
	if Visible(r, Viewer{PubKey: "owner-key"}) {
		t.Error("unknown access level visible to owner without admin")
	}
}

func TestAnonymous(t *testing.T) {
	if !(Viewer{}).Anonymous() {
		t.Error("zero viewer should be anonymous")
	}
	if (Viewer{PubKey: "k"}).Anonymous() {
		t.Error("viewer with pubkey is not anonymous")
	}
	if (Viewer{Admin: true}).Anonymous() {
		t.Error("admin viewer is not anonymous")
	}
}
