package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rowanvale/ticketd/internal/domain/activity"
	"github.com/rowanvale/ticketd/internal/repository"
	"github.com/google/uuid"
)

// Service handles ticket business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new ticket service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest describes a ticket creation request.
type CreateRequest struct {
	ProjectID   string
	Title       string
	Description string
}

// MoveRequest describes a one-column board move.
type MoveRequest struct {
	TicketID  string
	Direction Direction
}

// Create creates a ticket in the todo column. The ticket row and its
// "created ticket" audit entry are committed in one transaction; the
// store assigns the position (next slot in the project).
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Ticket, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.ProjectID) == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	t := &Ticket{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusTodo,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	entry := &activity.Entry{
		ID:        uuid.NewString(),
		TicketID:  t.ID,
		UserID:    userID,
		Action:    activity.ActionCreated,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, t, entry); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrInvalidInput
		}
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	return t, nil
}

// Move shifts a ticket one column in the given direction. The status
// write and the "moved ticket to <status>" audit entry are committed in
// one transaction. Moving off either end of the board returns
// ErrNoTransition with no side effects.
func (s *Service) Move(ctx context.Context, userID string, req MoveRequest) (*Ticket, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if req.TicketID == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.repo.Get(ctx, req.TicketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("loading ticket: %w", err)
	}

	dest, err := Next(current.Status, req.Direction)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(current.Status, dest); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &activity.Entry{
		ID:        uuid.NewString(),
		TicketID:  current.ID,
		UserID:    userID,
		Action:    activity.ActionMovedTo + dest.Words(),
		CreatedAt: now,
	}

	if err := s.repo.UpdateStatus(ctx, current.ID, dest, userID, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("moving ticket: %w", err)
	}

	updated := *current
	updated.Status = dest
	updated.UpdatedBy = &userID
	updated.UpdatedAt = now
	return &updated, nil
}

// Get returns a ticket by ID.
func (s *Service) Get(ctx context.Context, id string) (*Ticket, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	return t, nil
}

// ListByProject returns a project's tickets ordered by position ascending.
func (s *Service) ListByProject(ctx context.Context, projectID string) ([]Ticket, error) {
	return s.repo.ListByProject(ctx, projectID)
}
