package ticket

import (
	"strings"
	"time"
)

// Status represents the board column a ticket sits in
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the three board statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Words returns the human-readable form of the status, with
// underscores replaced by spaces ("in_progress" -> "in progress").
func (s Status) Words() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Direction is a one-column move on the board.
type Direction string

const (
	MoveLeft  Direction = "left"
	MoveRight Direction = "right"
)

// Ticket represents a unit of work on a project board
type Ticket struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Position    int       `json:"position"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   *string   `json:"updated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
