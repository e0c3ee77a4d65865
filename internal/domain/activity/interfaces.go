package activity

import (
	"context"

	"github.com/rowanvale/ticketd/internal/domain/profile"
)

// Repository provides append-only persistence for the activity log.
type Repository interface {
	Record(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// TicketDirectory resolves ticket IDs to titles for feed annotation.
type TicketDirectory interface {
	Titles(ctx context.Context, ids []string) (map[string]string, error)
}

// ProfileResolver batch-resolves user IDs to display profiles.
type ProfileResolver interface {
	Resolve(ctx context.Context, ids []string) (map[string]profile.Profile, error)
}
