package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rowanvale/ticketd/internal/domain/profile"
	"github.com/google/uuid"
)

// Service handles activity log operations.
type Service struct {
	repo     Repository
	tickets  TicketDirectory
	profiles ProfileResolver
	logger   *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, tickets TicketDirectory, profiles ProfileResolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, tickets: tickets, profiles: profiles, logger: logger}
}

// Record appends an audit entry, filling in ID and timestamp when missing.
func (s *Service) Record(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.TicketID == "" || entry.UserID == "" {
		return ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Record(ctx, entry); err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

// Recent lists entries newest first. A non-positive limit uses FeedLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = FeedLimit
	}
	return s.repo.Recent(ctx, limit)
}

// Feed returns the notification feed: the most recent FeedLimit entries
// annotated with display names and ticket titles. Annotation lookups are
// rebuilt on every call; stale references fall back to placeholders.
func (s *Service) Feed(ctx context.Context) ([]FeedItem, error) {
	entries, err := s.repo.Recent(ctx, FeedLimit)
	if err != nil {
		return nil, fmt.Errorf("loading feed: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	userIDs := distinct(entries, func(e Entry) string { return e.UserID })
	ticketIDs := distinct(entries, func(e Entry) string { return e.TicketID })

	profiles, err := s.profiles.Resolve(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving profiles: %w", err)
	}
	titles, err := s.tickets.Titles(ctx, ticketIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving ticket titles: %w", err)
	}

	items := make([]FeedItem, 0, len(entries))
	for _, e := range entries {
		item := FeedItem{Entry: e, UserName: FallbackUserName, TicketTitle: FallbackTicket}
		if p, ok := profiles[e.UserID]; ok {
			item.UserName = profile.DisplayName(p)
		}
		if title, ok := titles[e.TicketID]; ok {
			item.TicketTitle = title
		}
		items = append(items, item)
	}
	return items, nil
}

func distinct(entries []Entry, key func(Entry) string) []string {
	seen := make(map[string]struct{}, len(entries))
	var ids []string
	for _, e := range entries {
		k := key(e)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		ids = append(ids, k)
	}
	return ids
}
