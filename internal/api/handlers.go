package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Chaudhary-CS/Nexus/internal/core"
	"github.com/Chaudhary-CS/Nexus/internal/refine"
	"github.com/Chaudhary-CS/Nexus/internal/report"
	"github.com/Chaudhary-CS/Nexus/internal/store"
)

const maxBodyBytes = 1 << 20

type APIHandler struct {
	users    *core.UserService
	projects *core.ProjectService
	metrics  *Metrics
}

func NewAPIHandler(users *core.UserService, projects *core.ProjectService, metrics *Metrics) *APIHandler {
	return &APIHandler{users: users, projects: projects, metrics: metrics}
}

// decodeBody reads a JSON object into v. Errors come back as validation
// errors so they render as 400.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &core.ValidationError{Message: "No data provided"}
		}
		return &core.ValidationError{Message: "Invalid request body"}
	}
	return nil
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
	User    *store.User `json:"user"`
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	sess, err := h.users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{
		Success: true,
		Message: "Account created successfully!",
		Token:   sess.Token,
		User:    sess.User,
	})
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	sess, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		Success: true,
		Message: "Login successful!",
		Token:   sess.Token,
		User:    sess.User,
	})
}

func (h *APIHandler) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SessionResponse{Success: true, User: userFromContext(r.Context())})
}

// LogoutHandler acknowledges a logout. Tokens are stateless; the client
// drops its copy.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
}

type GenerateRequest struct {
	ProjectIdea string `json:"project_idea"`
}

type GenerateResponse struct {
	Success   bool   `json:"success"`
	ProjectID string `json:"project_id"`
	Message   string `json:"message"`
}

func (h *APIHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user := userFromContext(r.Context())
	project, err := h.projects.Generate(r.Context(), user.ID, req.ProjectIdea)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.metrics.ProjectsCreated.Inc()
	writeJSON(w, http.StatusCreated, GenerateResponse{
		Success:   true,
		ProjectID: project.ID,
		Message:   "Project roadmap generated successfully!",
	})
}

func (h *APIHandler) UsageHandler(w http.ResponseWriter, r *http.Request) {
	usage, err := h.projects.Usage(r.Context(), userFromContext(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

func (h *APIHandler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListProjects(r.Context(), userFromContext(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "projects": projects})
}

func (h *APIHandler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	project, err := h.projects.LoadOwnedProject(r.Context(), projectID, userFromContext(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "project": project})
}

func (h *APIHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if err := h.projects.DeleteProject(r.Context(), projectID, userFromContext(r.Context()).ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Success       bool           `json:"success"`
	ResponseText  string         `json:"response_text"`
	Suggestions   []string       `json:"suggestions"`
	Refinement    refine.Intent  `json:"refinement"`
	HasUpdates    bool           `json:"has_updates"`
	UpdatedReport *report.Report `json:"updated_report"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	res, err := h.projects.Chat(r.Context(), projectID, userFromContext(r.Context()).ID, req.Message)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.metrics.RefinementsTotal.WithLabelValues(string(res.Exchange.Refinements.Category)).Inc()
	writeJSON(w, http.StatusOK, ChatResponse{
		Success:       true,
		ResponseText:  res.Exchange.AIResponse,
		Suggestions:   res.Suggestions,
		Refinement:    res.Exchange.Refinements,
		HasUpdates:    res.HasUpdates(),
		UpdatedReport: res.Report,
	})
}

func (h *APIHandler) ConversationsHandler(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	exchanges, err := h.projects.Conversations(r.Context(), projectID, userFromContext(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "conversations": exchanges})
}
