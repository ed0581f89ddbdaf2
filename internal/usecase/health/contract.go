package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether the record search index exists.
type IndexChecker interface {
	IndexExists(ctx context.Context, indexName string) (bool, error)
}
