package ticket

import (
	"context"

	"github.com/rowanvale/ticketd/internal/domain/activity"
)

// Repository provides persistence for tickets. Mutations take the
// audit entry describing the same logical event; implementations must
// write both in a single transaction so no state change is ever
// committed without its activity record.
type Repository interface {
	Create(ctx context.Context, t *Ticket, entry *activity.Entry) error
	Get(ctx context.Context, id string) (*Ticket, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedBy string, entry *activity.Entry) error
	ListByProject(ctx context.Context, projectID string) ([]Ticket, error)
}
