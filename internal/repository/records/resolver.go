package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// exerciseSearcher is the lookup the resolver caches over.
type exerciseSearcher interface {
	SearchExerciseDIDs(ctx context.Context, name string) ([]string, error)
}

// NameResolver resolves exercise-name search terms to the DIDs of matching
// exercise records, with a TTL cache per normalized name. Deleting a record
// must invalidate every cached resolution that references it.
type NameResolver struct {
	repo  exerciseSearcher
	cache *cache.Cache
}

// NewNameResolver creates a resolver with the given cache TTL.
func NewNameResolver(repo exerciseSearcher, ttl, cleanup time.Duration) *NameResolver {
	return &NameResolver{
		repo:  repo,
		cache: cache.New(ttl, cleanup),
	}
}

// ResolveNames returns the union of DIDs matching any of the given names.
func (r *NameResolver) ResolveNames(ctx context.Context, names []string) (map[string]struct{}, error) {
	resolved := make(map[string]struct{})

	for _, name := range names {
		key := normalizeName(name)

		if cached, found := r.cache.Get(key); found {
			for _, did := range cached.([]string) {
				resolved[did] = struct{}{}
			}
			continue
		}

		dids, err := r.repo.SearchExerciseDIDs(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve name %q: %w", name, err)
		}
		r.cache.Set(key, dids, cache.DefaultExpiration)
		for _, did := range dids {
			resolved[did] = struct{}{}
		}
	}

	return resolved, nil
}

// Invalidate drops every cached resolution containing the given DID.
func (r *NameResolver) Invalidate(did string) {
	for key, item := range r.cache.Items() {
		dids, ok := item.Object.([]string)
		if !ok {
			continue
		}
		for _, d := range dids {
			if d == did {
				r.cache.Delete(key)
				break
			}
		}
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
