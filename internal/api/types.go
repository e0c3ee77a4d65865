package api

import (
	"time"

	"github.com/rowanvale/ticketd/internal/domain/profile"
	"github.com/rowanvale/ticketd/internal/domain/project"
	"github.com/rowanvale/ticketd/internal/domain/ticket"
)

type RequestCodeParams struct {
	Email string `json:"email"`
}

type VerifyCodeParams struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyCodeResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type CreateProjectParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type GetBoardParams struct {
	ProjectID string `json:"project_id"`
}

type CreateTicketParams struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type MoveTicketParams struct {
	TicketID  string           `json:"ticket_id"`
	Direction ticket.Direction `json:"direction"`
}

type EnableSuperUserParams struct {
	Passphrase string `json:"passphrase"`
}

type SuperUserResponse struct {
	Enabled bool `json:"enabled"`
}

// ProjectView is a project as rendered to a client. Creator identity
// is present only when the caller's visibility gate is on.
type ProjectView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	CreatedBy     string `json:"created_by,omitempty"`
	CreatedByName string `json:"created_by_name,omitempty"`
}

// TicketView is a ticket as rendered to a client. Creator and updater
// identity is present only when the caller's visibility gate is on.
type TicketView struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"project_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      ticket.Status `json:"status"`
	Position    int           `json:"position"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	CreatedBy     string `json:"created_by,omitempty"`
	CreatedByName string `json:"created_by_name,omitempty"`
	UpdatedBy     string `json:"updated_by,omitempty"`
	UpdatedByName string `json:"updated_by_name,omitempty"`
}

// BoardResponse is the three-column board view.
type BoardResponse struct {
	Todo       []TicketView `json:"todo"`
	InProgress []TicketView `json:"in_progress"`
	Done       []TicketView `json:"done"`
}

type FeedItemView struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	TicketTitle string    `json:"ticket_title"`
	UserName    string    `json:"user_name"`
	Action      string    `json:"action"`
	CreatedAt   time.Time `json:"created_at"`
}

func renderProject(p project.Project, profiles map[string]profile.Profile, showIdentity bool) ProjectView {
	view := ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
	if !showIdentity {
		return view
	}
	view.CreatedBy = p.CreatedBy
	if prof, ok := profiles[p.CreatedBy]; ok {
		view.CreatedByName = profile.DisplayName(prof)
	}
	return view
}

func renderTicket(t ticket.Ticket, profiles map[string]profile.Profile, showIdentity bool) TicketView {
	view := TicketView{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if !showIdentity {
		return view
	}
	view.CreatedBy = t.CreatedBy
	if p, ok := profiles[t.CreatedBy]; ok {
		view.CreatedByName = profile.DisplayName(p)
	}
	if t.UpdatedBy != nil {
		view.UpdatedBy = *t.UpdatedBy
		if p, ok := profiles[*t.UpdatedBy]; ok {
			view.UpdatedByName = profile.DisplayName(p)
		}
	}
	return view
}
