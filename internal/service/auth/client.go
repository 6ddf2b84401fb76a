package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aidejuridic/chatgate/backend/internal/config"
	authmodel "github.com/aidejuridic/chatgate/backend/internal/model/auth"
)

// Client talks to the provider's GoTrue REST API.
type Client struct {
	client *resty.Client
	now    func() time.Time
}

// NewClient creates a provider client for cfg.
func NewClient(cfg config.AuthConfig) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.URL, "/") + "/auth/v1")
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("apikey", cfg.AnonKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		client: client,
		now:    time.Now,
	}
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u userResponse) toModel() authmodel.User {
	return authmodel.User{
		ID:       u.ID,
		Email:    u.Email,
		FullName: metadataString(u.UserMetadata, "full_name"),
	}
}

func (t tokenResponse) toSession(now time.Time) authmodel.Session {
	session := authmodel.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		User:         t.User.toModel(),
	}
	switch {
	case t.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(t.ExpiresAt, 0).UTC()
	case t.ExpiresIn > 0:
		session.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second).UTC()
	}
	return session
}

// SignInWithPassword exchanges e-mail/password credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, req authmodel.SignInRequest) (authmodel.Session, error) {
	return c.grant(ctx, "password", map[string]string{
		"email":    strings.TrimSpace(req.Email),
		"password": req.Password,
	})
}

// RefreshSession exchanges a refresh token for a new token pair.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (authmodel.Session, error) {
	return c.grant(ctx, "refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
}

func (c *Client) grant(ctx context.Context, grantType string, body map[string]string) (authmodel.Session, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("grant_type", grantType).
		SetBody(body).
		Post("/token")
	if err != nil {
		return authmodel.Session{}, fmt.Errorf("auth %s grant: %w", grantType, err)
	}
	if resp.IsError() {
		return authmodel.Session{}, providerError(resp)
	}

	var token tokenResponse
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		return authmodel.Session{}, fmt.Errorf("decode %s grant: %w", grantType, err)
	}
	if token.AccessToken == "" {
		return authmodel.Session{}, fmt.Errorf("auth %s grant: %w", grantType, ErrNoSession)
	}
	return token.toSession(c.now()), nil
}

// SignUp registers a new account. The result carries a session only when the
// provider confirms accounts automatically.
func (c *Client) SignUp(ctx context.Context, req authmodel.SignUpRequest) (authmodel.SignUpResult, error) {
	body := map[string]any{
		"email":    strings.TrimSpace(req.Email),
		"password": req.Password,
	}
	if name := strings.TrimSpace(req.FullName); name != "" {
		body["data"] = map[string]string{"full_name": name}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/signup")
	if err != nil {
		return authmodel.SignUpResult{}, fmt.Errorf("auth signup: %w", err)
	}
	if resp.IsError() {
		return authmodel.SignUpResult{}, providerError(resp)
	}

	var token tokenResponse
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		return authmodel.SignUpResult{}, fmt.Errorf("decode signup: %w", err)
	}
	if token.AccessToken != "" {
		session := token.toSession(c.now())
		return authmodel.SignUpResult{User: session.User, Session: &session}, nil
	}

	// Confirmation pending: the body is the bare user record.
	var user userResponse
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return authmodel.SignUpResult{}, fmt.Errorf("decode signup user: %w", err)
	}
	return authmodel.SignUpResult{User: user.toModel()}, nil
}

// GetUser validates accessToken against the provider.
func (c *Client) GetUser(ctx context.Context, accessToken string) (authmodel.User, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		Get("/user")
	if err != nil {
		return authmodel.User{}, fmt.Errorf("auth get user: %w", err)
	}
	if resp.IsError() {
		return authmodel.User{}, providerError(resp)
	}

	var user userResponse
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return authmodel.User{}, fmt.Errorf("decode user: %w", err)
	}
	if user.ID == "" {
		return authmodel.User{}, fmt.Errorf("auth get user: %w", ErrInvalidToken)
	}
	return user.toModel(), nil
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		Post("/logout")
	if err != nil {
		return fmt.Errorf("auth logout: %w", err)
	}
	if resp.IsError() {
		return providerError(resp)
	}
	return nil
}

// providerError extracts the provider's message, which GoTrue spreads over
// several field names depending on the endpoint and version.
func providerError(resp *resty.Response) error {
	var payload map[string]any
	_ = json.Unmarshal(resp.Body(), &payload)

	message := ""
	for _, key := range []string{"error_description", "msg", "message", "error"} {
		if value, ok := payload[key].(string); ok && strings.TrimSpace(value) != "" {
			message = value
			break
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}
	return &ProviderError{Status: resp.StatusCode(), Message: message}
}
