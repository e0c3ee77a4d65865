package mocks

import (
	"context"
	"time"

	"github.com/rowanvale/ticketd/internal/domain/activity"
	"github.com/rowanvale/ticketd/internal/domain/profile"
	"github.com/rowanvale/ticketd/internal/domain/project"
	"github.com/rowanvale/ticketd/internal/domain/session"
	"github.com/rowanvale/ticketd/internal/domain/ticket"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TicketRepository is a mock for ticket.Repository and
// activity.TicketDirectory.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, t *ticket.Ticket, entry *activity.Entry) error {
	args := m.Called(ctx, t, entry)
	return args.Error(0)
}

func (m *TicketRepository) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) UpdateStatus(ctx context.Context, id string, status ticket.Status, updatedBy string, entry *activity.Entry) error {
	args := m.Called(ctx, id, status, updatedBy, entry)
	return args.Error(0)
}

func (m *TicketRepository) ListByProject(ctx context.Context, projectID string) ([]ticket.Ticket, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]ticket.Ticket); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Titles(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	if titles, ok := args.Get(0).(map[string]string); ok {
		return titles, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Record(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) Recent(ctx context.Context, limit int) ([]activity.Entry, error) {
	args := m.Called(ctx, limit)
	if entries, ok := args.Get(0).([]activity.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProfileRepository is a mock for profile.Repository.
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]profile.Profile, error) {
	args := m.Called(ctx, ids)
	if profiles, ok := args.Get(0).([]profile.Profile); ok {
		return profiles, args.Error(1)
	}
	return nil, args.Error(1)
}

// AuthRepository is a mock for session.Repository.
type AuthRepository struct {
	mock.Mock
}

func (m *AuthRepository) SaveLoginCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	args := m.Called(ctx, email, codeHash, expiresAt)
	return args.Error(0)
}

func (m *AuthRepository) ConsumeLoginCode(ctx context.Context, email, codeHash string, now time.Time) error {
	args := m.Called(ctx, email, codeHash, now)
	return args.Error(0)
}

func (m *AuthRepository) UpsertProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	args := m.Called(ctx, p)
	if prof, ok := args.Get(0).(profile.Profile); ok {
		return prof, args.Error(1)
	}
	return profile.Profile{}, args.Error(1)
}

func (m *AuthRepository) CreateSession(ctx context.Context, tokenHash, userID string) error {
	args := m.Called(ctx, tokenHash, userID)
	return args.Error(0)
}

func (m *AuthRepository) GetSession(ctx context.Context, tokenHash string) (*session.Session, error) {
	args := m.Called(ctx, tokenHash)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AuthRepository) DeleteSession(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}
