package testserver

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rowanvale/ticketd/internal/api"
	"github.com/rowanvale/ticketd/internal/domain/activity"
	"github.com/rowanvale/ticketd/internal/domain/profile"
	"github.com/rowanvale/ticketd/internal/domain/project"
	"github.com/rowanvale/ticketd/internal/domain/session"
	"github.com/rowanvale/ticketd/internal/domain/ticket"
	"github.com/rowanvale/ticketd/internal/realtime"
	"github.com/rowanvale/ticketd/internal/sqlite"
	"github.com/rowanvale/ticketd/internal/visibility"
)

// Passphrase enables the super user gate on test servers.
const Passphrase = "admin123"

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Hub    *realtime.Hub
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	hub := realtime.NewHub(nil)

	projectRepo := sqlite.NewProjectRepository(db, hub)
	ticketRepo := sqlite.NewTicketRepository(db, hub)
	activityRepo := sqlite.NewActivityRepository(db, hub)
	profileRepo := sqlite.NewProfileRepository(db)
	authRepo := sqlite.NewAuthRepository(db, hub)

	profileSvc := profile.NewResolver(profileRepo, nil)
	projectSvc := project.NewService(projectRepo, nil)
	ticketSvc := ticket.NewService(ticketRepo, nil)
	activitySvc := activity.NewService(activityRepo, ticketRepo, profileSvc, nil)
	sessionSvc := session.NewService(authRepo, session.LogSender{}, nil)

	gates := visibility.NewRegistry(Passphrase)

	handler := api.NewHandler(sessionSvc, projectSvc, ticketSvc, activitySvc, profileSvc, gates)
	server := httptest.NewServer(api.NewServer(handler, hub, discardLogger()).Router(sessionSvc))

	ts := &TestServer{
		Server: server,
		DB:     db,
		Hub:    hub,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// SignIn creates a profile and session directly in the store and
// returns a bearer token for it.
func (ts *TestServer) SignIn(t *testing.T, email, fullName string) string {
	t.Helper()

	userID := uuid.New().String()
	_, err := ts.DB.Exec(
		`INSERT INTO profiles (id, full_name, email) VALUES (?, ?, ?)`,
		userID, nullIfEmpty(fullName), email,
	)
	require.NoError(t, err)

	token := uuid.New().String()
	_, err = ts.DB.Exec(
		`INSERT INTO auth_sessions (token_hash, user_id) VALUES (?, ?)`,
		hashToken(token), userID,
	)
	require.NoError(t, err)

	return token
}

// Call issues one JSON-RPC request and decodes the result into out.
// It fails the test on transport or application errors.
func (ts *TestServer) Call(t *testing.T, token, method string, params, out any) {
	t.Helper()

	resp := ts.CallRaw(t, token, method, params)
	require.Nil(t, resp.Error, "method %s returned error: %+v", method, resp.Error)
	if out != nil {
		raw, err := json.Marshal(resp.Result)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
}

// CallRaw issues one JSON-RPC request and returns the raw response.
func (ts *TestServer) CallRaw(t *testing.T, token, method string, params any) api.Response {
	t.Helper()

	body := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		body["params"] = params
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer httpResp.Body.Close()

	var resp api.Response
	require.NoError(t, json.NewDecoder(httpResp.Body).Decode(&resp))
	return resp
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
