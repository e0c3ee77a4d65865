package session

import (
	"context"
	"time"

	"github.com/rowanvale/ticketd/internal/domain/profile"
)

// Repository provides persistence for login codes and sessions.
type Repository interface {
	SaveLoginCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	// ConsumeLoginCode marks a matching unexpired code as used.
	// Returns repository.ErrNotFound when no such code exists.
	ConsumeLoginCode(ctx context.Context, email, codeHash string, now time.Time) error
	// UpsertProfile creates or refreshes the profile row for an email
	// and returns it with its identifier populated.
	UpsertProfile(ctx context.Context, p profile.Profile) (profile.Profile, error)
	CreateSession(ctx context.Context, tokenHash, userID string) error
	GetSession(ctx context.Context, tokenHash string) (*Session, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}

// CodeSender delivers a one-time login code to the user.
type CodeSender interface {
	Send(ctx context.Context, email, code string) error
}
