package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/courtside/rosterd/internal/authn"
	"github.com/courtside/rosterd/internal/config"
	"github.com/courtside/rosterd/internal/observability"
	"github.com/courtside/rosterd/internal/saga"

	identitydomain "github.com/courtside/rosterd/internal/identity/domain"
	provdomain "github.com/courtside/rosterd/internal/provisioning/domain"
	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"
)

type stubAuthenticator struct {
	caller *authn.Caller
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*authn.Caller, error) {
	if token != "good-token" || s.caller == nil {
		return nil, authn.ErrInvalidToken
	}
	return s.caller, nil
}

type stubService struct {
	provdomain.Service

	assignErr error
	changeErr error
}

func (s *stubService) AssignCredentials(_ context.Context, _ authn.Caller, req provdomain.AssignCredentialsRequest) (*provdomain.AssignCredentialsResult, error) {
	if s.assignErr != nil {
		return nil, s.assignErr
	}
	return &provdomain.AssignCredentialsResult{
		PlayerID:        req.PlayerID,
		IdentityID:      uuid.New(),
		IdentityCreated: true,
		Message:         "Account created and linked to player",
	}, nil
}

func (s *stubService) ChangePassword(_ context.Context, _ authn.Caller, _ provdomain.ChangePasswordRequest) error {
	return s.changeErr
}

func (s *stubService) CreateStaff(_ context.Context, _ authn.Caller, req provdomain.CreateStaffRequest) (*provdomain.CreateStaffResult, error) {
	return &provdomain.CreateStaffResult{
		IdentityID:   uuid.New(),
		Email:        req.Email,
		Role:         req.Role,
		TeamsGranted: len(req.TeamIDs),
	}, nil
}

func (s *stubService) ImportPlayer(_ context.Context, _ authn.Caller, req provdomain.ImportPlayerRequest) (*provdomain.ImportPlayerResult, error) {
	return &provdomain.ImportPlayerResult{
		Player: &rosterdomain.Player{TeamID: req.TeamID, FullName: req.FullName},
	}, nil
}

func newTestServer(t *testing.T, svc *stubService) *Server {
	t.Helper()

	engine := NewEngine(observability.Config{LogLevel: "info", Environment: "test"})
	return NewServer(ServerParams{
		Gin:  engine,
		Cfg:  config.Config{},
		Log:  zap.NewNop(),
		Auth: &stubAuthenticator{caller: &authn.Caller{ID: uuid.New(), Role: authn.RoleAdmin}},
		Svc:  svc,
	})
}

func doRequest(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	srv.Engine().ServeHTTP(recorder, req)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	payload := map[string]any{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func TestMissingAuthorizationHeader(t *testing.T) {
	srv := newTestServer(t, &stubService{})

	recorder := doRequest(t, srv, http.MethodPost, "/api/staff", "", `{}`)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	payload := decode(t, recorder)
	require.Equal(t, false, payload["ok"])
	require.Equal(t, "Missing authorization header", payload["error"])
}

func TestInvalidToken(t *testing.T) {
	srv := newTestServer(t, &stubService{})

	recorder := doRequest(t, srv, http.MethodPost, "/api/staff", "bad-token", `{}`)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Equal(t, "Invalid or expired token", decode(t, recorder)["error"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubService{})

	recorder := doRequest(t, srv, http.MethodGet, "/api/staff", "good-token", "")
	require.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
	require.Equal(t, "Method not allowed", decode(t, recorder)["error"])
}

func TestAssignCredentialsSuccessShape(t *testing.T) {
	srv := newTestServer(t, &stubService{})

	recorder := doRequest(t, srv, http.MethodPost, "/api/players/1234/credentials", "good-token",
		`{"email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	payload := decode(t, recorder)
	require.Equal(t, true, payload["ok"])
	require.Equal(t, "1234", payload["player_id"])
	require.Equal(t, true, payload["identity_created"])
}

func TestCreateStaffRespondsOK(t *testing.T) {
	srv := newTestServer(t, &stubService{})

	recorder := doRequest(t, srv, http.MethodPost, "/api/staff", "good-token",
		`{"email":"coach@example.com","role":"coach","team_ids":["1"]}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	payload := decode(t, recorder)
	require.Equal(t, true, payload["ok"])
	require.Equal(t, "coach@example.com", payload["email"])
}

func TestImportPlayerRespondsOK(t *testing.T) {
	srv := newTestServer(t, &stubService{})

	recorder := doRequest(t, srv, http.MethodPost, "/api/players/import", "good-token",
		`{"team_id":"1","full_name":"Grace Hopper"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, true, decode(t, recorder)["ok"])
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"forbidden", provdomain.ErrForbidden, http.StatusForbidden, "Insufficient permissions"},
		{"conflict", rosterdomain.ErrAlreadyLinked, http.StatusConflict, "This player already has an associated account"},
		{"not found", rosterdomain.ErrPlayerNotFound, http.StatusNotFound, "Player not found"},
		{"validation", provdomain.ErrInvalidEmail, http.StatusBadRequest, "Invalid email format"},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &stubService{assignErr: &saga.Error{
				Workflow:     "assign_credentials",
				Step:         "validate",
				Cause:        tc.err,
				Compensation: saga.CompensationOutcome{AllSucceeded: true},
			}})

			recorder := doRequest(t, srv, http.MethodPost, "/api/players/1234/credentials", "good-token",
				`{"email":"ada@example.com","password":"secret1"}`)
			require.Equal(t, tc.wantStatus, recorder.Code)
			require.Equal(t, tc.wantError, decode(t, recorder)["error"])
		})
	}
}

func TestIncompleteRollbackIsSurfaced(t *testing.T) {
	srv := newTestServer(t, &stubService{assignErr: &saga.Error{
		Workflow: "assign_credentials",
		Step:     "grant_role",
		Cause:    context.DeadlineExceeded,
		Compensation: saga.CompensationOutcome{
			Attempted:    2,
			AllSucceeded: false,
			Failures:     []error{context.DeadlineExceeded},
		},
	}})

	recorder := doRequest(t, srv, http.MethodPost, "/api/players/1234/credentials", "good-token",
		`{"email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Equal(t,
		"Internal server error; rollback incomplete, manual cleanup may be required",
		decode(t, recorder)["error"])
}

func TestChangePasswordMapsCredentialError(t *testing.T) {
	srv := newTestServer(t, &stubService{changeErr: identitydomain.ErrInvalidCredential})

	recorder := doRequest(t, srv, http.MethodPost, "/api/identities/"+uuid.NewString()+"/password", "good-token",
		`{"new_password":"short"}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "Password must be at least 6 characters long", decode(t, recorder)["error"])
}
