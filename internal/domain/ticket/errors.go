package ticket

import "errors"

var (
	// ErrTicketNotFound indicates the ticket doesn't exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrNoTransition indicates a move off the end of the board.
	ErrNoTransition = errors.New("no transition from this status")
	// ErrInvalidStatus indicates a status outside the board enum.
	ErrInvalidStatus = errors.New("invalid ticket status")
	// ErrInvalidInput indicates invalid ticket input.
	ErrInvalidInput = errors.New("invalid ticket input")
	// ErrUnauthenticated indicates no acting user on a mutation.
	ErrUnauthenticated = errors.New("unauthenticated")
)
