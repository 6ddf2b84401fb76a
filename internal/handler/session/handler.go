package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authmodel "github.com/aidejuridic/chatgate/backend/internal/model/auth"
	chatkitmodel "github.com/aidejuridic/chatgate/backend/internal/model/chatkit"
	authservice "github.com/aidejuridic/chatgate/backend/internal/service/auth"
	chatkitservice "github.com/aidejuridic/chatgate/backend/internal/service/chatkit"
	"github.com/aidejuridic/chatgate/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// ChatKitService abstracts the upstream chat-session API.
type ChatKitService interface {
	APIKeyConfigured() bool
	CreateSession(ctx context.Context, params chatkitmodel.SessionParams) (chatkitmodel.Credential, error)
}

// SessionResolver resolves the caller's auth session.
type SessionResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (authmodel.Session, error)
}

// Handler brokers upstream chat credentials for signed-in users.
type Handler struct {
	chatkit           ChatKitService
	sessions          SessionResolver
	defaultWorkflowID string
	verbose           bool
	logger            *zap.Logger
}

// New creates the session-brokering handler. verbose enables per-request
// info logs and is meant for non-production builds.
func New(chatkit ChatKitService, sessions SessionResolver, defaultWorkflowID string, verbose bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatkit:           chatkit,
		sessions:          sessions,
		defaultWorkflowID: defaultWorkflowID,
		verbose:           verbose,
		logger:            logger,
	}
}

// RegisterRoutes mounts the endpoint. Every method is routed here so that
// non-POST requests get the fixed 405 before any auth check.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/create-session", h.handleCreateSession)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondMethodNotAllowed(w, http.MethodPost)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("create-session unexpected panic", zap.Any("panic", rec))
			utils.RespondErrorDetails(w, http.StatusInternalServerError, "Unexpected server error", fmt.Sprint(rec))
		}
	}()

	session, ok := authservice.FromContext(r.Context())
	if !ok {
		resolved, err := h.sessions.Resolve(w, r)
		if err != nil {
			h.logger.Warn("create-session auth failed", zap.Error(err))
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized - No active session")
			return
		}
		session = resolved
	}

	if !h.chatkit.APIKeyConfigured() {
		h.logger.Error("missing OPENAI_API_KEY environment variable")
		utils.RespondError(w, http.StatusInternalServerError, "Server configuration error: Missing API Key")
		return
	}

	body := parseBody(r)
	workflowID := body.ResolveWorkflowID(h.defaultWorkflowID)

	if h.verbose {
		h.logger.Info("handling create-session for authenticated user",
			zap.String("userId", session.User.ID),
			zap.String("workflowId", workflowID))
	}

	if workflowID == "" {
		h.logger.Warn("missing workflow id in request or config")
		utils.RespondError(w, http.StatusBadRequest, "Missing workflow id")
		return
	}

	credential, err := h.chatkit.CreateSession(r.Context(), chatkitmodel.SessionParams{
		UserID:            session.User.ID,
		WorkflowID:        workflowID,
		FileUploadEnabled: body.FileUploadEnabled(),
	})
	if err != nil {
		h.respondCreateError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, credential)
}

func (h *Handler) respondCreateError(w http.ResponseWriter, err error) {
	var upstreamErr *chatkitservice.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		h.logger.Error("chatkit session creation failed",
			zap.Int("status", upstreamErr.Status),
			zap.Any("body", upstreamErr.Body))
		utils.RespondErrorDetails(w, upstreamErr.Status, upstreamErr.Message, upstreamErr.Body)
	case errors.Is(err, chatkitservice.ErrMissingClientSecret):
		h.logger.Error("missing client_secret in upstream response")
		utils.RespondError(w, http.StatusInternalServerError, "Failed to initialize session: Missing client secret")
	case errors.Is(err, chatkitservice.ErrMissingAPIKey):
		utils.RespondError(w, http.StatusInternalServerError, "Server configuration error: Missing API Key")
	default:
		h.logger.Error("create-session unexpected error", zap.Error(err))
		utils.RespondErrorDetails(w, http.StatusInternalServerError, "Unexpected server error", err.Error())
	}
}

// parseBody decodes the optional request body. Unreadable or invalid JSON
// yields nil, which resolves like an empty body.
func parseBody(r *http.Request) *chatkitmodel.CreateSessionRequest {
	if r.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(raw) == 0 {
		return nil
	}
	return chatkitmodel.ParseCreateSessionRequest(raw)
}
