package profile

import (
	"context"
	"fmt"
	"log/slog"
)

// Repository provides read access to stored profiles.
type Repository interface {
	GetByIDs(ctx context.Context, ids []string) ([]Profile, error)
}

// Resolver batch-resolves user identifiers into display profiles.
// Every resolution hits the store; results are not memoized across
// refreshes, which is fine at the user counts this serves.
type Resolver struct {
	repo   Repository
	logger *slog.Logger
}

// NewResolver creates a new profile resolver.
func NewResolver(repo Repository, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, logger: logger}
}

// Resolve returns a map keyed by user ID. Identifiers that don't
// resolve are simply absent from the result; that is not an error.
func (r *Resolver) Resolve(ctx context.Context, ids []string) (map[string]Profile, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return map[string]Profile{}, nil
	}

	profiles, err := r.repo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("resolving profiles: %w", err)
	}

	result := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		result[p.ID] = p
	}
	return result, nil
}
