package api

import (
	"errors"
	"fmt"

	"github.com/rowanvale/ticketd/internal/domain/project"
	"github.com/rowanvale/ticketd/internal/domain/session"
	"github.com/rowanvale/ticketd/internal/domain/ticket"
	"github.com/rowanvale/ticketd/internal/repository"
	"github.com/rowanvale/ticketd/internal/visibility"
)

// APIError is the error shape returned to clients.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to API error codes. Unmapped errors are
// reported as store failures: by this point every expected domain
// condition has a sentinel.
func MapError(err error) *APIError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrUnauthenticated),
		errors.Is(err, ticket.ErrUnauthenticated),
		errors.Is(err, project.ErrUnauthenticated):
		return &APIError{Code: "UNAUTHENTICATED", Message: "no active session"}
	case errors.Is(err, session.ErrInvalidCode):
		return &APIError{Code: "INVALID_CODE", Message: "invalid or expired login code"}
	case errors.Is(err, ticket.ErrTicketNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "ticket not found"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "project not found"}
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "not found"}
	case errors.Is(err, ticket.ErrNoTransition):
		return &APIError{Code: "NO_TRANSITION", Message: "ticket cannot move further in that direction"}
	case errors.Is(err, ticket.ErrInvalidInput),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "missing or invalid field"}
	case errors.Is(err, visibility.ErrBadPassphrase):
		return &APIError{Code: "INVALID_PASSPHRASE", Message: "invalid super user passphrase"}
	default:
		return &APIError{Code: "STORE_UNAVAILABLE", Message: "operation failed"}
	}
}
