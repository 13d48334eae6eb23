package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Chaudhary-CS/Nexus/internal/auth"
	"github.com/Chaudhary-CS/Nexus/internal/core"
	"github.com/Chaudhary-CS/Nexus/internal/store"
	"github.com/Chaudhary-CS/Nexus/internal/utils"
)

type testServer struct {
	db      *store.SQLiteStore
	metrics *Metrics
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := core.NewUserService(db, auth.NewTokenManager("test-secret", time.Hour))
	projects := core.NewProjectService(db, utils.NewKeyedMutex(), 3, nil)
	metrics := NewMetrics()

	return &testServer{
		db:      db,
		metrics: metrics,
		handler: NewRouter(NewAPIHandler(users, projects, metrics), zap.NewNop()),
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "name": "Tester", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (s *testServer) generate(t *testing.T, token, idea string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/generate", token, map[string]string{"project_idea": idea})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ProjectID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "flow@example.com")

	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "flow@example.com", "name": "Again", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decode[errorResponse](t, rec).Success)

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[SessionResponse](t, rec)
	assert.True(t, login.Success)
	assert.Equal(t, "flow@example.com", login.User.Email)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	wrong := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "wrong-password",
	})
	unknown := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	rec = s.do(t, http.MethodGet, "/auth/validate", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "flow@example.com", decode[SessionResponse](t, rec).User.Email)

	rec = s.do(t, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "mw@example.com")

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + token,
		"garbage token":  "Bearer not-a-jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/projects", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "invalid or missing credentials", decode[errorResponse](t, rec).Message)
		})
	}
}

func TestBadBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/login", http.NoBody)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No data provided", decode[errorResponse](t, rec).Message)
}

func TestProjectLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "life@example.com")

	rec := s.do(t, http.MethodPost, "/generate", token, map[string]string{"project_idea": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	projectID := s.generate(t, token, "pet sitting app")
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.ProjectsCreated))

	rec = s.do(t, http.MethodGet, "/usage", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, core.Usage{MaxProjects: 3, CurrentProjects: 1, CanCreate: true}, decode[core.Usage](t, rec))

	rec = s.do(t, http.MethodGet, "/projects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Projects []store.ProjectSummary `json:"projects"`
	}](t, rec)
	require.Len(t, list.Projects, 1)
	assert.Equal(t, projectID, list.Projects[0].ID)

	rec = s.do(t, http.MethodGet, "/project/"+projectID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[struct {
		Project store.Project `json:"project"`
	}](t, rec)
	assert.Equal(t, "pet sitting app", got.Project.Idea)
	require.NotNil(t, got.Project.Report.Intelligence.TechStack)

	rec = s.do(t, http.MethodPost, "/project/"+projectID+"/chat", token, map[string]string{"message": "I have a tight budget"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	chat := decode[ChatResponse](t, rec)
	assert.True(t, chat.Success)
	assert.True(t, chat.HasUpdates)
	assert.Equal(t, "budget", string(chat.Refinement.Category))
	require.NotNil(t, chat.UpdatedReport)
	primary := chat.UpdatedReport.Intelligence.TechStack.Deployment.Primary
	assert.Equal(t, "Vercel + PlanetScale (Free tier)", primary)
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.RefinementsTotal.WithLabelValues("budget")))

	rec = s.do(t, http.MethodGet, "/project/"+projectID, token, nil)
	got = decode[struct {
		Project store.Project `json:"project"`
	}](t, rec)
	assert.Equal(t, primary, got.Project.Report.Intelligence.TechStack.Deployment.Primary)

	rec = s.do(t, http.MethodPost, "/project/"+projectID+"/chat", token, map[string]string{"message": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"updated_report":null`)
	assert.False(t, decode[ChatResponse](t, rec).HasUpdates)

	rec = s.do(t, http.MethodPost, "/project/"+projectID+"/chat", token, map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/project/"+projectID+"/conversations", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[struct {
		Conversations []store.ChatExchange `json:"conversations"`
	}](t, rec)
	require.Len(t, history.Conversations, 2)
	assert.Equal(t, "I have a tight budget", history.Conversations[0].UserMessage)
	assert.NotNil(t, history.Conversations[0].Updates)
	assert.Nil(t, history.Conversations[1].Updates)

	rec = s.do(t, http.MethodDelete, "/project/"+projectID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/project/"+projectID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOwnershipIsHidden(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "owner@example.com")
	stranger := s.register(t, "stranger@example.com")
	projectID := s.generate(t, owner, "idea")

	for _, path := range []string{"/project/" + projectID, "/project/" + projectID + "/conversations"} {
		foreign := s.do(t, http.MethodGet, path, stranger, nil)
		absent := s.do(t, http.MethodGet, strings.Replace(path, projectID, "missing", 1), owner, nil)

		assert.Equal(t, http.StatusNotFound, foreign.Code, path)
		assert.Equal(t, http.StatusNotFound, absent.Code, path)
		assert.Equal(t, absent.Body.String(), foreign.Body.String(), path)
	}

	rec := s.do(t, http.MethodPost, "/project/"+projectID+"/chat", stranger, map[string]string{"message": "cheap"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "project not found", decode[errorResponse](t, rec).Message)
}

func TestQuotaRejection(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "quota@example.com")
	for i := 0; i < 3; i++ {
		s.generate(t, token, "idea")
	}

	rec := s.do(t, http.MethodPost, "/generate", token, map[string]string{"project_idea": "one more"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Equal(t, 3, body.Limit)
	assert.Contains(t, body.Message, "limit of 3 projects")
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.QuotaRejections))

	rec = s.do(t, http.MethodGet, "/usage", token, nil)
	assert.False(t, decode[core.Usage](t, rec).CanCreate)
}

func TestStorageFailureIsInternal(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "down@example.com")
	require.NoError(t, s.db.Close())

	rec := s.do(t, http.MethodGet, "/usage", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode[errorResponse](t, rec).Message)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(s.metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")))

	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nexus_http_requests_total")
	assert.Contains(t, rec.Body.String(), "nexus_http_request_duration_seconds")
}
