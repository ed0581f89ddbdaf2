package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/oipwg/recordindex/internal/db"
)

// indexDefinition is the FT schema over record documents. Both identifier
// fields are indexed so disjunctive lookups stay cheap across the did/didTx
// migration. Identifier tags are CASESENSITIVE: Arweave transaction ids are
// case-sensitive base64url, so did:arweave:ABC and did:arweave:abc are
// distinct records.
func indexDefinition() *db.IndexDefinition {
	return db.NewIndex(IndexName).
		OnJSON().
		Prefix(KeyPrefix).
		TagWithOpts("$.did", "did", "", true).
		TagWithOpts("$.didTx", "didTx", "", true).
		Tag("$.recordType", "recordType").
		Text("$.name", "name").
		Numeric("$.date", "date").
		Numeric("$.blockHeight", "blockHeight").
		Numeric("$.indexedAt", "indexedAt").
		Tag("$.accessLevel", "accessLevel").
		Tag("$.ownerPubKey", "ownerPubKey").
		TagWithOpts("$.refs[*]", "refs", "", true).
		MustBuild()
}

// EnsureIndex creates the record index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	err := r.store.CreateIndex(ctx, indexDefinition())
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create record index: %w", err)
	}
	return nil
}
