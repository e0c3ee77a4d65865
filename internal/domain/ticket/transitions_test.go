package ticket_test

import (
	"testing"

	"github.com/rowanvale/ticketd/internal/domain/ticket"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		from    ticket.Status
		dir     ticket.Direction
		want    ticket.Status
		wantErr error
	}{
		{name: "todo right", from: ticket.StatusTodo, dir: ticket.MoveRight, want: ticket.StatusInProgress},
		{name: "in_progress right", from: ticket.StatusInProgress, dir: ticket.MoveRight, want: ticket.StatusDone},
		{name: "in_progress left", from: ticket.StatusInProgress, dir: ticket.MoveLeft, want: ticket.StatusTodo},
		{name: "done left", from: ticket.StatusDone, dir: ticket.MoveLeft, want: ticket.StatusInProgress},
		{name: "todo left is off the board", from: ticket.StatusTodo, dir: ticket.MoveLeft, wantErr: ticket.ErrNoTransition},
		{name: "done right is off the board", from: ticket.StatusDone, dir: ticket.MoveRight, wantErr: ticket.ErrNoTransition},
		{name: "unknown direction", from: ticket.StatusTodo, dir: ticket.Direction("up"), wantErr: ticket.ErrNoTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ticket.Next(tt.from, tt.dir)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTransition(t *testing.T) {
	legal := [][2]ticket.Status{
		{ticket.StatusTodo, ticket.StatusInProgress},
		{ticket.StatusInProgress, ticket.StatusTodo},
		{ticket.StatusInProgress, ticket.StatusDone},
		{ticket.StatusDone, ticket.StatusInProgress},
	}
	for _, pair := range legal {
		require.NoError(t, ticket.ValidateTransition(pair[0], pair[1]))
	}

	// Skipping a column is never allowed, in either direction.
	require.ErrorIs(t, ticket.ValidateTransition(ticket.StatusTodo, ticket.StatusDone), ticket.ErrNoTransition)
	require.ErrorIs(t, ticket.ValidateTransition(ticket.StatusDone, ticket.StatusTodo), ticket.ErrNoTransition)

	// Self moves are not transitions.
	require.ErrorIs(t, ticket.ValidateTransition(ticket.StatusTodo, ticket.StatusTodo), ticket.ErrNoTransition)

	require.ErrorIs(t, ticket.ValidateTransition(ticket.Status("archived"), ticket.StatusTodo), ticket.ErrInvalidStatus)
}

func TestStatusWords(t *testing.T) {
	require.Equal(t, "in progress", ticket.StatusInProgress.Words())
	require.Equal(t, "todo", ticket.StatusTodo.Words())
	require.Equal(t, "done", ticket.StatusDone.Words())
}
