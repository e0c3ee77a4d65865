package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rowanvale/ticketd/internal/domain/activity"
	"github.com/rowanvale/ticketd/internal/domain/board"
	"github.com/rowanvale/ticketd/internal/domain/profile"
	"github.com/rowanvale/ticketd/internal/domain/project"
	"github.com/rowanvale/ticketd/internal/domain/session"
	"github.com/rowanvale/ticketd/internal/domain/ticket"
	"github.com/rowanvale/ticketd/internal/visibility"
)

// SessionService defines identity operations needed by the API.
type SessionService interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (*session.Session, error)
	Resolve(ctx context.Context, token string) (*session.Session, error)
	SignOut(ctx context.Context, token string) error
}

// ProjectService defines project operations needed by the API.
type ProjectService interface {
	Create(ctx context.Context, userID string, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
}

// TicketService defines ticket operations needed by the API.
type TicketService interface {
	Create(ctx context.Context, userID string, req ticket.CreateRequest) (*ticket.Ticket, error)
	Move(ctx context.Context, userID string, req ticket.MoveRequest) (*ticket.Ticket, error)
	ListByProject(ctx context.Context, projectID string) ([]ticket.Ticket, error)
}

// ActivityService defines feed operations needed by the API.
type ActivityService interface {
	Feed(ctx context.Context) ([]activity.FeedItem, error)
}

// ProfileService batch-resolves user identifiers for rendering.
type ProfileService interface {
	Resolve(ctx context.Context, ids []string) (map[string]profile.Profile, error)
}

// Handler dispatches API methods to domain services.
type Handler struct {
	sessions SessionService
	projects ProjectService
	tickets  TicketService
	activity ActivityService
	profiles ProfileService
	gates    *visibility.Registry
}

// NewHandler creates a new API handler.
func NewHandler(
	sessions SessionService,
	projects ProjectService,
	tickets TicketService,
	activitySvc ActivityService,
	profiles ProfileService,
	gates *visibility.Registry,
) *Handler {
	return &Handler{
		sessions: sessions,
		projects: projects,
		tickets:  tickets,
		activity: activitySvc,
		profiles: profiles,
		gates:    gates,
	}
}

// Handle dispatches one method call. sess is nil for unauthenticated
// callers; only the login methods accept that.
func (h *Handler) Handle(ctx context.Context, sess *session.Session, token, method string, params json.RawMessage) (any, error) {
	switch method {
	case "request_code":
		var req RequestCodeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.RequestCode(ctx, req.Email); err != nil {
			return nil, mapError(err)
		}
		return map[string]string{"status": "sent"}, nil

	case "verify_code":
		var req VerifyCodeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		newSess, err := h.sessions.VerifyCode(ctx, req.Email, req.Code)
		if err != nil {
			return nil, mapError(err)
		}
		return VerifyCodeResponse{
			Token:  newSess.Token,
			UserID: newSess.UserID,
			Email:  newSess.Email,
		}, nil
	}

	// Everything past this point requires an active session.
	if sess == nil {
		return nil, mapError(session.ErrUnauthenticated)
	}

	switch method {
	case "sign_out":
		if err := h.sessions.SignOut(ctx, token); err != nil {
			return nil, mapError(err)
		}
		h.gates.Drop(token)
		return map[string]string{"status": "signed_out"}, nil

	case "list_projects":
		projects, err := h.projects.List(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return h.renderProjects(ctx, token, projects)

	case "create_project":
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		proj, err := h.projects.Create(ctx, sess.UserID, project.CreateRequest{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			return nil, mapError(err)
		}
		views, err := h.renderProjects(ctx, token, []project.Project{*proj})
		if err != nil {
			return nil, err
		}
		return views[0], nil

	case "get_board":
		var req GetBoardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if _, err := h.projects.Get(ctx, req.ProjectID); err != nil {
			return nil, mapError(err)
		}
		tickets, err := h.tickets.ListByProject(ctx, req.ProjectID)
		if err != nil {
			return nil, mapError(err)
		}
		return h.renderBoard(ctx, token, tickets)

	case "create_ticket":
		var req CreateTicketParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tickets.Create(ctx, sess.UserID, ticket.CreateRequest{
			ProjectID:   req.ProjectID,
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return h.renderOne(ctx, token, *t)

	case "move_ticket":
		var req MoveTicketParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tickets.Move(ctx, sess.UserID, ticket.MoveRequest{
			TicketID:  req.TicketID,
			Direction: req.Direction,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return h.renderOne(ctx, token, *t)

	case "get_activity_feed":
		items, err := h.activity.Feed(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		views := make([]FeedItemView, 0, len(items))
		for _, item := range items {
			views = append(views, FeedItemView{
				ID:          item.ID,
				TicketID:    item.TicketID,
				TicketTitle: item.TicketTitle,
				UserName:    item.UserName,
				Action:      item.Action,
				CreatedAt:   item.CreatedAt,
			})
		}
		return views, nil

	case "enable_super_user":
		var req EnableSuperUserParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.gates.Gate(token).Enable(req.Passphrase); err != nil {
			return nil, mapError(err)
		}
		return SuperUserResponse{Enabled: true}, nil

	case "disable_super_user":
		h.gates.Gate(token).Disable()
		return SuperUserResponse{Enabled: false}, nil

	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

// renderProjects applies the caller's visibility gate to project
// creator identity, resolving display names only when the gate is on.
func (h *Handler) renderProjects(ctx context.Context, token string, projects []project.Project) ([]ProjectView, error) {
	showIdentity := h.gates.Gate(token).Enabled()

	profiles := map[string]profile.Profile{}
	if showIdentity && len(projects) > 0 {
		userIDs := make([]string, 0, len(projects))
		for _, p := range projects {
			userIDs = append(userIDs, p.CreatedBy)
		}
		resolved, err := h.profiles.Resolve(ctx, userIDs)
		if err != nil {
			return nil, mapError(err)
		}
		profiles = resolved
	}

	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, renderProject(p, profiles, showIdentity))
	}
	return views, nil
}

// renderBoard projects tickets into columns and applies the caller's
// visibility gate. Profiles are batch-resolved fresh for this render.
func (h *Handler) renderBoard(ctx context.Context, token string, tickets []ticket.Ticket) (BoardResponse, error) {
	showIdentity := h.gates.Gate(token).Enabled()

	profiles := map[string]profile.Profile{}
	if showIdentity && len(tickets) > 0 {
		var userIDs []string
		for _, t := range tickets {
			userIDs = append(userIDs, t.CreatedBy)
			if t.UpdatedBy != nil {
				userIDs = append(userIDs, *t.UpdatedBy)
			}
		}
		resolved, err := h.profiles.Resolve(ctx, userIDs)
		if err != nil {
			return BoardResponse{}, mapError(err)
		}
		profiles = resolved
	}

	b := board.Project(tickets)
	return BoardResponse{
		Todo:       renderColumn(b.Todo, profiles, showIdentity),
		InProgress: renderColumn(b.InProgress, profiles, showIdentity),
		Done:       renderColumn(b.Done, profiles, showIdentity),
	}, nil
}

func (h *Handler) renderOne(ctx context.Context, token string, t ticket.Ticket) (TicketView, error) {
	showIdentity := h.gates.Gate(token).Enabled()

	profiles := map[string]profile.Profile{}
	if showIdentity {
		ids := []string{t.CreatedBy}
		if t.UpdatedBy != nil {
			ids = append(ids, *t.UpdatedBy)
		}
		resolved, err := h.profiles.Resolve(ctx, ids)
		if err != nil {
			return TicketView{}, mapError(err)
		}
		profiles = resolved
	}

	return renderTicket(t, profiles, showIdentity), nil
}

func renderColumn(tickets []ticket.Ticket, profiles map[string]profile.Profile, showIdentity bool) []TicketView {
	views := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, renderTicket(t, profiles, showIdentity))
	}
	return views
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_INPUT", Message: "malformed params"}
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
