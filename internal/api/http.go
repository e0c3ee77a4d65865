package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rowanvale/ticketd/internal/realtime"
)

// Server is the HTTP surface: JSON-RPC on /rpc and an event stream on
// /events.
type Server struct {
	handler *Handler
	hub     *realtime.Hub
	logger  *slog.Logger
}

// NewServer creates the HTTP server around a handler and event hub.
func NewServer(handler *Handler, hub *realtime.Hub, logger *slog.Logger) *Server {
	return &Server{
		handler: handler,
		hub:     hub,
		logger:  logger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router(resolver SessionResolver) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(SessionMiddleware(resolver))

	r.Post("/rpc", s.handleRPC)
	r.Get("/events", s.handleEvents)
	r.Get("/health", s.handleHealth)

	return r
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, ErrInvalidReq, err.Error(), nil)
		return
	}

	ctx := r.Context()
	sess, _ := SessionFromContext(ctx)
	token, _ := TokenFromContext(ctx)

	result, err := s.handler.Handle(ctx, sess, token, req.Method, req.Params)
	if err != nil {
		s.logger.Warn("method failed", "method", req.Method, "error", err)
		if apiErr, ok := err.(*APIError); ok {
			WriteError(w, req.ID, rpcCode(apiErr), apiErr.Message, apiErr)
			return
		}
		WriteError(w, req.ID, ErrMethodNotFound, err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}

// rpcCode picks the JSON-RPC error code for an application error. The
// application code itself travels in the error data.
func rpcCode(apiErr *APIError) int {
	switch apiErr.Code {
	case "INVALID_INPUT":
		return ErrInvalidParams
	case "STORE_UNAVAILABLE":
		return ErrInternal
	default:
		return ErrAppError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
