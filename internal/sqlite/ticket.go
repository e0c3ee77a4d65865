package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rowanvale/ticketd/internal/domain/activity"
	"github.com/rowanvale/ticketd/internal/domain/ticket"
	"github.com/rowanvale/ticketd/internal/realtime"
	"github.com/rowanvale/ticketd/internal/repository"
)

// TicketRepository implements ticket.Repository for SQLite. Committed
// writes are announced on the change hub.
type TicketRepository struct {
	db     *DB
	events realtime.Publisher
}

// NewTicketRepository creates a new TicketRepository.
func NewTicketRepository(db *DB, events realtime.Publisher) *TicketRepository {
	return &TicketRepository{db: db, events: events}
}

// Create inserts a ticket and its creation audit entry in one
// transaction. The position is assigned here: the next free slot in
// the project.
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket, entry *activity.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM tickets WHERE project_id = ?`,
		t.ProjectID,
	).Scan(&t.Position)
	if err != nil {
		return fmt.Errorf("failed to assign position: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tickets (
			id, project_id, title, description, status, position,
			created_by, updated_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID,
		t.ProjectID,
		t.Title,
		t.Description,
		t.Status,
		t.Position,
		t.CreatedBy,
		t.UpdatedBy,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	if err := insertActivity(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ticket create: %w", err)
	}

	r.publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: t.ID, ProjectID: t.ProjectID})
	r.publish(realtime.Event{Table: realtime.TableActivities, Type: realtime.EventInsert, ID: entry.ID})

	return nil
}

// Get retrieves a ticket by ID.
func (r *TicketRepository) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	var t ticket.Ticket
	var description, updatedBy sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, title, description, status, position,
		       created_by, updated_by, created_at, updated_at
		FROM tickets
		WHERE id = ?
	`, id).Scan(
		&t.ID,
		&t.ProjectID,
		&t.Title,
		&description,
		&t.Status,
		&t.Position,
		&t.CreatedBy,
		&updatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	t.Description = description.String
	if updatedBy.Valid {
		t.UpdatedBy = &updatedBy.String
	}
	return &t, nil
}

// UpdateStatus writes the new status and updater, and appends the audit
// entry describing the move, in one transaction.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status ticket.Status, updatedBy string, entry *activity.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var projectID string
	err = tx.QueryRowContext(ctx, `SELECT project_id FROM tickets WHERE id = ?`, id).Scan(&projectID)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load ticket: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tickets
		SET status = ?, updated_by = ?, updated_at = ?
		WHERE id = ?
	`, status, updatedBy, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}

	if err := insertActivity(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}

	r.publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventUpdate, ID: id, ProjectID: projectID})
	r.publish(realtime.Event{Table: realtime.TableActivities, Type: realtime.EventInsert, ID: entry.ID})

	return nil
}

// ListByProject returns a project's tickets ordered by position ascending.
func (r *TicketRepository) ListByProject(ctx context.Context, projectID string) ([]ticket.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, title, description, status, position,
		       created_by, updated_by, created_at, updated_at
		FROM tickets
		WHERE project_id = ?
		ORDER BY position ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []ticket.Ticket
	for rows.Next() {
		var t ticket.Ticket
		var description, updatedBy sql.NullString
		err := rows.Scan(
			&t.ID,
			&t.ProjectID,
			&t.Title,
			&description,
			&t.Status,
			&t.Position,
			&t.CreatedBy,
			&updatedBy,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		t.Description = description.String
		if updatedBy.Valid {
			t.UpdatedBy = &updatedBy.String
		}
		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket rows: %w", err)
	}

	return tickets, nil
}

// Titles resolves ticket IDs to titles for feed annotation. Unknown
// IDs are absent from the result.
func (r *TicketRepository) Titles(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, title FROM tickets WHERE id IN (%s)`, placeholders),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ticket titles: %w", err)
	}
	defer rows.Close()

	titles := make(map[string]string, len(ids))
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("failed to scan ticket title: %w", err)
		}
		titles[id] = title
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating title rows: %w", err)
	}

	return titles, nil
}

func insertActivity(ctx context.Context, tx *sql.Tx, entry *activity.Entry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO activities (id, ticket_id, user_id, action, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.TicketID,
		entry.UserID,
		entry.Action,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

func (r *TicketRepository) publish(e realtime.Event) {
	if r.events != nil {
		r.events.Publish(e)
	}
}
