package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	authmodel "github.com/aidejuridic/chatgate/backend/internal/model/auth"
	authservice "github.com/aidejuridic/chatgate/backend/internal/service/auth"
)

// SessionResolver resolves the caller's session, writing refreshed cookies
// to w as needed.
type SessionResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (authmodel.Session, error)
}

// GuardConfig classifies paths for the route guard.
type GuardConfig struct {
	// ProtectedPrefixes require a session; a prefix matches itself and its
	// sub-paths.
	ProtectedPrefixes []string
	// AuthOnlyPaths redirect away when a session exists; matched exactly.
	AuthOnlyPaths []string
	LoginPath     string
	LandingPath   string
	// RedirectParam carries the requested path to the login page.
	RedirectParam string
}

// DefaultGuardConfig protects the chat and bounces signed-in users off the
// login and signup pages.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		ProtectedPrefixes: []string{"/chat"},
		AuthOnlyPaths:     []string{"/login", "/signup"},
		LoginPath:         "/login",
		LandingPath:       "/chat",
		RedirectParam:     "redirectedFrom",
	}
}

// Guard gates page access by session presence.
type Guard struct {
	cfg      GuardConfig
	sessions SessionResolver
	logger   *zap.Logger
}

// NewGuard builds a route guard.
func NewGuard(cfg GuardConfig, sessions SessionResolver, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{cfg: cfg, sessions: sessions, logger: logger}
}

// Handler wraps next with the guard.
func (g *Guard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		protected := g.isProtected(path)
		// Form posts to the auth pages must reach their handlers.
		authOnly := g.isAuthOnly(path) && (r.Method == http.MethodGet || r.Method == http.MethodHead)
		if !protected && !authOnly {
			next.ServeHTTP(w, r)
			return
		}

		session, err := g.sessions.Resolve(w, r)
		hasSession := err == nil
		if err != nil {
			g.logger.Debug("no session", zap.String("path", path), zap.Error(err))
		}

		switch {
		case !hasSession && protected:
			target := url.URL{Path: g.cfg.LoginPath}
			query := url.Values{}
			query.Set(g.cfg.RedirectParam, path)
			target.RawQuery = query.Encode()
			http.Redirect(w, r, target.String(), http.StatusTemporaryRedirect)
			return
		case hasSession && authOnly:
			http.Redirect(w, r, g.cfg.LandingPath, http.StatusTemporaryRedirect)
			return
		}

		if hasSession {
			r = r.WithContext(authservice.WithSession(r.Context(), session))
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) isProtected(path string) bool {
	for _, prefix := range g.cfg.ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, strings.TrimRight(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

func (g *Guard) isAuthOnly(path string) bool {
	for _, candidate := range g.cfg.AuthOnlyPaths {
		if path == candidate {
			return true
		}
	}
	return false
}
