package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rowanvale/ticketd/internal/domain/project"
	"github.com/rowanvale/ticketd/internal/realtime"
	"github.com/rowanvale/ticketd/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite.
type ProjectRepository struct {
	db     *DB
	events realtime.Publisher
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *DB, events realtime.Publisher) *ProjectRepository {
	return &ProjectRepository{db: db, events: events}
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		proj.ID,
		proj.Name,
		proj.Description,
		proj.CreatedBy,
		proj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	if r.events != nil {
		r.events.Publish(realtime.Event{
			Table:     realtime.TableProjects,
			Type:      realtime.EventInsert,
			ID:        proj.ID,
			ProjectID: proj.ID,
		})
	}

	return nil
}

// Get retrieves a project by ID.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	var proj project.Project
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_by, created_at
		FROM projects
		WHERE id = ?
	`, id).Scan(
		&proj.ID,
		&proj.Name,
		&description,
		&proj.CreatedBy,
		&proj.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	proj.Description = description.String
	return &proj, nil
}

// List returns all projects, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, created_by, created_at
		FROM projects
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		var proj project.Project
		var description sql.NullString
		err := rows.Scan(
			&proj.ID,
			&proj.Name,
			&description,
			&proj.CreatedBy,
			&proj.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		proj.Description = description.String
		projects = append(projects, proj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}
