package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	middlewarePkg "github.com/aidejuridic/chatgate/backend/internal/middleware"
	authmodel "github.com/aidejuridic/chatgate/backend/internal/model/auth"
	chatkitmodel "github.com/aidejuridic/chatgate/backend/internal/model/chatkit"
	chatuiModel "github.com/aidejuridic/chatgate/backend/internal/model/chatui"
	authservice "github.com/aidejuridic/chatgate/backend/internal/service/auth"
	"github.com/aidejuridic/chatgate/backend/internal/view"
)

const jwtSecret = "router-test-secret"

type stubProvider struct{}

func (stubProvider) RefreshSession(context.Context, string) (authmodel.Session, error) {
	return authmodel.Session{}, &authservice.ProviderError{Status: http.StatusBadRequest, Message: "Invalid Refresh Token"}
}

func (stubProvider) GetUser(context.Context, string) (authmodel.User, error) {
	return authmodel.User{}, &authservice.ProviderError{Status: http.StatusUnauthorized, Message: "invalid JWT"}
}

func (stubProvider) SignInWithPassword(context.Context, authmodel.SignInRequest) (authmodel.Session, error) {
	return authmodel.Session{AccessToken: "at", RefreshToken: "rt"}, nil
}

func (stubProvider) SignUp(context.Context, authmodel.SignUpRequest) (authmodel.SignUpResult, error) {
	return authmodel.SignUpResult{}, nil
}

func (stubProvider) SignOut(context.Context, string) error { return nil }

type stubChatKit struct{ calls int }

func (s *stubChatKit) APIKeyConfigured() bool { return true }

func (s *stubChatKit) CreateSession(context.Context, chatkitmodel.SessionParams) (chatkitmodel.Credential, error) {
	s.calls++
	return chatkitmodel.Credential{ClientSecret: "sk_live"}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *stubChatKit) {
	t.Helper()
	views, err := view.New()
	require.NoError(t, err)

	chatkit := &stubChatKit{}
	router := NewRouter(Dependencies{
		Auth:              stubProvider{},
		Sessions:          authservice.NewStore(stubProvider{}, authservice.NewTokenVerifier(jwtSecret), nil),
		ChatKit:           chatkit,
		Views:             views,
		Prompts:           chatuiModel.NewMemoryPromptStore(chatuiModel.Seed()),
		DefaultWorkflowID: "wf_default",
	})
	return router, chatkit
}

func accessCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "avocat@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return &http.Cookie{Name: authservice.AccessCookieName, Value: token}
}

func do(router http.Handler, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, target := range []string{"/healthz", "/login", "/does-not-exist", "/api/create-session"} {
		rr := do(router, http.MethodGet, target)
		assert.Equal(t, middlewarePkg.ContentSecurityPolicy, rr.Header().Get("Content-Security-Policy-Report-Only"), target)
		assert.Equal(t, middlewarePkg.PermissionsPolicy, rr.Header().Get("Permissions-Policy"), target)
	}
}

func TestAnonymousChatRedirectsToLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := do(router, http.MethodGet, "/chat")

	require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	location, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", location.Path)
	assert.Equal(t, "/chat", location.Query().Get("redirectedFrom"))
}

func TestSignedInFlow(t *testing.T) {
	router, chatkit := newTestRouter(t)
	cookie := accessCookie(t)

	rr := do(router, http.MethodGet, "/chat", cookie)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(router, http.MethodGet, "/login", cookie)
	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/chat", rr.Header().Get("Location"))

	rr = do(router, http.MethodPost, "/api/create-session", cookie)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"client_secret":"sk_live","expires_after":null}`, rr.Body.String())
	assert.Equal(t, 1, chatkit.calls)
}

func TestCreateSessionWithoutSession(t *testing.T) {
	router, chatkit := newTestRouter(t)

	rr := do(router, http.MethodPost, "/api/create-session")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(router, http.MethodGet, "/api/create-session")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST", rr.Header().Get("Allow"))
	assert.Zero(t, chatkit.calls)
}

func TestCSPReportRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/csp-report", strings.NewReader(`{"csp-report":{"violated-directive":"script-src"}}`))
	req.Header.Set("Content-Type", "application/csp-report")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"received":true}`, rr.Body.String())
}

func TestLoginPostSetsCookies(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=a%40example.com&password=secret1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/chat", rr.Header().Get("Location"))
	assert.NotEmpty(t, rr.Result().Cookies())
}
