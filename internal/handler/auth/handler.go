package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authmodel "github.com/aidejuridic/chatgate/backend/internal/model/auth"
	authservice "github.com/aidejuridic/chatgate/backend/internal/service/auth"
	"github.com/aidejuridic/chatgate/backend/internal/view"
)

const (
	// MinPasswordLength mirrors the provider's default password policy.
	MinPasswordLength = 6

	landingPath   = "/chat"
	loginPath     = "/login"
	redirectParam = "redirectedFrom"

	msgPasswordMismatch = "Les mots de passe ne correspondent pas."
	msgPasswordTooShort = "Le mot de passe doit contenir au moins 6 caractères."
	msgCheckEmail       = "Vérifiez votre boîte mail pour confirmer votre compte."
	msgInvalidForm      = "Formulaire invalide."
)

// AuthService is the provider API behind the auth pages.
type AuthService interface {
	SignInWithPassword(ctx context.Context, req authmodel.SignInRequest) (authmodel.Session, error)
	SignUp(ctx context.Context, req authmodel.SignUpRequest) (authmodel.SignUpResult, error)
	SignOut(ctx context.Context, accessToken string) error
}

// SessionStore persists sessions as cookies.
type SessionStore interface {
	Save(w http.ResponseWriter, r *http.Request, session authmodel.Session)
	Clear(w http.ResponseWriter, r *http.Request)
	AccessToken(r *http.Request) string
}

// Renderer renders HTML pages.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}

// Handler serves the login, signup and logout flows.
type Handler struct {
	auth     AuthService
	sessions SessionStore
	views    Renderer
	logger   *zap.Logger
}

// New creates the auth pages handler.
func New(auth AuthService, sessions SessionStore, views Renderer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		auth:     auth,
		sessions: sessions,
		views:    views,
		logger:   logger,
	}
}

// RegisterRoutes mounts the auth pages.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Get("/signup", h.handleSignupPage)
	r.Post("/signup", h.handleSignup)
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	h.render(w, http.StatusOK, view.PageLogin, view.LoginPage{
		Error:          query.Get("error"),
		RedirectedFrom: query.Get(redirectParam),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, view.PageLogin, view.LoginPage{Error: msgInvalidForm})
		return
	}

	page := view.LoginPage{
		Email:          strings.TrimSpace(r.PostFormValue("email")),
		RedirectedFrom: r.PostFormValue(redirectParam),
	}

	session, err := h.auth.SignInWithPassword(r.Context(), authmodel.SignInRequest{
		Email:    page.Email,
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.logger.Info("sign-in failed", zap.String("email", page.Email), zap.Error(err))
		page.Error = providerMessage(err)
		h.render(w, http.StatusUnauthorized, view.PageLogin, page)
		return
	}

	h.sessions.Save(w, r, session)
	http.Redirect(w, r, SafeRedirect(page.RedirectedFrom), http.StatusSeeOther)
}

func (h *Handler) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, view.PageSignup, view.SignupPage{MinPasswordLength: MinPasswordLength})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	page := view.SignupPage{MinPasswordLength: MinPasswordLength}
	if err := r.ParseForm(); err != nil {
		page.Error = msgInvalidForm
		h.render(w, http.StatusBadRequest, view.PageSignup, page)
		return
	}

	page.Name = strings.TrimSpace(r.PostFormValue("name"))
	page.Email = strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	switch {
	case password != r.PostFormValue("confirm_password"):
		page.Error = msgPasswordMismatch
	case len([]rune(password)) < MinPasswordLength:
		page.Error = msgPasswordTooShort
	}
	if page.Error != "" {
		h.render(w, http.StatusBadRequest, view.PageSignup, page)
		return
	}

	result, err := h.auth.SignUp(r.Context(), authmodel.SignUpRequest{
		Email:    page.Email,
		Password: password,
		FullName: page.Name,
	})
	if err != nil {
		h.logger.Info("sign-up failed", zap.String("email", page.Email), zap.Error(err))
		page.Error = providerMessage(err)
		h.render(w, signupFailureStatus(err), view.PageSignup, page)
		return
	}

	if result.Session != nil {
		h.sessions.Save(w, r, *result.Session)
		http.Redirect(w, r, landingPath, http.StatusSeeOther)
		return
	}

	page.Message = msgCheckEmail
	h.render(w, http.StatusOK, view.PageSignup, page)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := h.sessions.AccessToken(r); token != "" {
		if err := h.auth.SignOut(r.Context(), token); err != nil {
			h.logger.Warn("provider sign-out failed", zap.Error(err))
		}
	}
	h.sessions.Clear(w, r)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	if err := h.views.Render(w, status, page, data); err != nil {
		h.logger.Error("render page", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// SafeRedirect returns target when it is a local absolute path, else the
// chat landing page.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return landingPath
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return landingPath
	}
	return target
}

func providerMessage(err error) string {
	var providerErr *authservice.ProviderError
	if errors.As(err, &providerErr) && providerErr.Message != "" {
		return providerErr.Message
	}
	return "Service d'authentification indisponible."
}

func signupFailureStatus(err error) int {
	var providerErr *authservice.ProviderError
	if errors.As(err, &providerErr) && providerErr.Rejected() {
		return providerErr.Status
	}
	return http.StatusBadGateway
}
