package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rowanvale/ticketd/internal/domain/activity"
	"github.com/rowanvale/ticketd/internal/realtime"
)

// ActivityRepository implements activity.Repository for SQLite.
// Appends outside a ticket mutation go through here; the paired
// ticket-write-plus-audit path lives in TicketRepository so both rows
// commit together.
type ActivityRepository struct {
	db     *DB
	events realtime.Publisher
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *DB, events realtime.Publisher) *ActivityRepository {
	return &ActivityRepository{db: db, events: events}
}

// Record appends an activity entry.
func (r *ActivityRepository) Record(ctx context.Context, entry *activity.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activities (id, ticket_id, user_id, action, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.TicketID,
		entry.UserID,
		entry.Action,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	entry.CreatedAt = createdAt

	if r.events != nil {
		r.events.Publish(realtime.Event{
			Table: realtime.TableActivities,
			Type:  realtime.EventInsert,
			ID:    entry.ID,
		})
	}

	return nil
}

// Recent returns the newest entries first, up to limit.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]activity.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ticket_id, user_id, action, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var entry activity.Entry
		err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.UserID,
			&entry.Action,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
