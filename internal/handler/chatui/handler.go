// Package chatui serves the chat shell and its JSON helpers.
package chatui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authmodel "github.com/aidejuridic/chatgate/backend/internal/model/auth"
	"github.com/aidejuridic/chatgate/backend/internal/model/chatui"
	authservice "github.com/aidejuridic/chatgate/backend/internal/service/auth"
	"github.com/aidejuridic/chatgate/backend/internal/view"
	"github.com/aidejuridic/chatgate/backend/pkg/utils"
)

// SessionResolver resolves the caller's auth session.
type SessionResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (authmodel.Session, error)
}

// Renderer renders HTML pages.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}

// Handler serves the chat pages.
type Handler struct {
	sessions   SessionResolver
	views      Renderer
	prompts    chatui.PromptStore
	workflowID string
	logger     *zap.Logger
}

// New creates the chat shell handler.
func New(sessions SessionResolver, views Renderer, prompts chatui.PromptStore, workflowID string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions:   sessions,
		views:      views,
		prompts:    prompts,
		workflowID: workflowID,
		logger:     logger,
	}
}

// RegisterRoutes mounts the page routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/chat", h.handleChat)
	r.Get("/healthz", h.handleHealth)
}

// RegisterAPIRoutes mounts the JSON routes under the API prefix.
func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/chat-config", h.handleChatConfig)
	r.Get("/me", h.handleMe)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); ok {
		http.Redirect(w, r, "/chat", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	page := view.ChatPage{
		UserName:  session.User.DisplayName(),
		UserEmail: session.User.Email,
		Shell:     chatui.NewShellConfig(h.workflowID, h.prompts, chatui.ParseColorScheme(r.URL.Query().Get("theme"))),
	}
	if err := h.views.Render(w, http.StatusOK, view.PageChat, page); err != nil {
		h.logger.Error("render chat page", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleChatConfig(w http.ResponseWriter, r *http.Request) {
	scheme := chatui.ParseColorScheme(r.URL.Query().Get("theme"))
	utils.RespondJSON(w, http.StatusOK, chatui.NewShellConfig(h.workflowID, h.prompts, scheme))
}

type meResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized - No active session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, meResponse{
		ID:    session.User.ID,
		Email: session.User.Email,
		Name:  session.User.DisplayName(),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// session prefers the session the guard already resolved.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (authmodel.Session, bool) {
	if session, ok := authservice.FromContext(r.Context()); ok {
		return session, true
	}
	session, err := h.sessions.Resolve(w, r)
	if err != nil {
		h.logger.Debug("no session", zap.Error(err))
		return authmodel.Session{}, false
	}
	return session, true
}
