// Package board derives the three-column view of a project's tickets.
package board

import "github.com/rowanvale/ticketd/internal/domain/ticket"

// Board is the three-column partition of a project's ticket set.
type Board struct {
	Todo       []ticket.Ticket `json:"todo"`
	InProgress []ticket.Ticket `json:"in_progress"`
	Done       []ticket.Ticket `json:"done"`
}

// Project partitions tickets into columns by status, preserving the
// input order within each column. It is pure: the same ticket set
// always yields the same partition, and the input is not mutated.
// The full view is recomputed on every call; there is no incremental
// patching.
func Project(tickets []ticket.Ticket) Board {
	var b Board
	for _, t := range tickets {
		switch t.Status {
		case ticket.StatusTodo:
			b.Todo = append(b.Todo, t)
		case ticket.StatusInProgress:
			b.InProgress = append(b.InProgress, t)
		case ticket.StatusDone:
			b.Done = append(b.Done, t)
		}
	}
	return b
}

// Size returns the total number of tickets on the board.
func (b Board) Size() int {
	return len(b.Todo) + len(b.InProgress) + len(b.Done)
}
