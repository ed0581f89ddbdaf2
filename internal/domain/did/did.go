// Package did centralizes identifier handling across the did/didTx schema
// migration. Every identity comparison in the codebase goes through Resolve
// or Matches; nothing else reads the identifier fields directly, so current
// and legacy records stay interchangeable.
package did

import (
	"fmt"
	"strings"

	"github.com/oipwg/recordindex/internal/domain"
)

// Known storage networks.
const (
	NetworkArweave = "arweave"
	NetworkGun     = "gun"
)

const prefix = "did:"

// DID is a parsed decentralized identifier of the form did:<network>:<ref>.
type DID struct {
	network   string
	reference string
}

// Parse validates and splits a DID string.
func Parse(s string) (DID, error) {
	if !strings.HasPrefix(s, prefix) {
		return DID{}, fmt.Errorf("missing did: prefix in %q", s)
	}
	rest := s[len(prefix):]
	network, ref, ok := strings.Cut(rest, ":")
	if !ok || network == "" || ref == "" {
		return DID{}, fmt.Errorf("malformed did %q, want did:<network>:<ref>", s)
	}
	return DID{network: network, reference: ref}, nil
}

// IsValid reports whether s parses as a DID.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Network returns the storage network segment.
func (d DID) Network() string { return d.network }

// Reference returns the transaction or peer reference segment.
func (d DID) Reference() string { return d.reference }

// String reassembles the canonical form.
func (d DID) String() string {
	return prefix + d.network + ":" + d.reference
}

// Identified is anything carrying the dual identifier fields.
type Identified interface {
	Identifier() string
	LegacyIdentifier() string
}

// Resolve returns the canonical identifier of a record: the current field if
// set, else the legacy field, else ErrMissingIdentifier.
func Resolve(r Identified) (string, error) {
	if id := r.Identifier(); id != "" {
		return id, nil
	}
	if id := r.LegacyIdentifier(); id != "" {
		return id, nil
	}
	return "", domain.ErrMissingIdentifier
}

// Matches reports whether the record is identified by target under either
// the current or the legacy field.
func Matches(r Identified, target string) bool {
	if target == "" {
		return false
	}
	return r.Identifier() == target || r.LegacyIdentifier() == target
}

// MatchesAny reports whether any of the given targets identifies the record.
func MatchesAny(r Identified, targets map[string]struct{}) bool {
	if len(targets) == 0 {
		return false
	}
	if _, ok := targets[r.Identifier()]; ok && r.Identifier() != "" {
		return true
	}
	if _, ok := targets[r.LegacyIdentifier()]; ok && r.LegacyIdentifier() != "" {
		return true
	}
	return false
}
