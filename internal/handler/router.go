package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aidejuridic/chatgate/backend/internal/handler/auth"
	"github.com/aidejuridic/chatgate/backend/internal/handler/chatui"
	"github.com/aidejuridic/chatgate/backend/internal/handler/csp"
	"github.com/aidejuridic/chatgate/backend/internal/handler/session"
	middlewarePkg "github.com/aidejuridic/chatgate/backend/internal/middleware"
	authmodel "github.com/aidejuridic/chatgate/backend/internal/model/auth"
	chatuiModel "github.com/aidejuridic/chatgate/backend/internal/model/chatui"
)

// SessionStore is the cookie session store shared by the guard and handlers.
type SessionStore interface {
	Resolve(w http.ResponseWriter, r *http.Request) (authmodel.Session, error)
	Save(w http.ResponseWriter, r *http.Request, session authmodel.Session)
	Clear(w http.ResponseWriter, r *http.Request)
	AccessToken(r *http.Request) string
}

// Dependencies are the services the router wires into handlers.
type Dependencies struct {
	Auth              auth.AuthService
	Sessions          SessionStore
	ChatKit           session.ChatKitService
	Views             auth.Renderer
	Prompts           chatuiModel.PromptStore
	DefaultWorkflowID string
	// Verbose enables per-request info logs in non-production builds.
	Verbose bool
	Logger  *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.SecurityHeaders)

	guard := middlewarePkg.NewGuard(middlewarePkg.DefaultGuardConfig(), deps.Sessions, logger.Named("guard"))
	r.Use(guard.Handler)

	authHandler := auth.New(deps.Auth, deps.Sessions, deps.Views, logger.Named("auth"))
	chatHandler := chatui.New(deps.Sessions, deps.Views, deps.Prompts, deps.DefaultWorkflowID, logger.Named("chatui"))
	sessionHandler := session.New(deps.ChatKit, deps.Sessions, deps.DefaultWorkflowID, deps.Verbose, logger.Named("create-session"))
	cspHandler := csp.New(deps.Verbose, logger.Named("csp"))

	authHandler.RegisterRoutes(r)
	chatHandler.RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		sessionHandler.RegisterRoutes(api)
		cspHandler.RegisterRoutes(api)
		chatHandler.RegisterAPIRoutes(api)
	})

	return r
}
