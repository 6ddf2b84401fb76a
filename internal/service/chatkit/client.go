package chatkit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/aidejuridic/chatgate/backend/internal/config"
	chatkitmodel "github.com/aidejuridic/chatgate/backend/internal/model/chatkit"
)

const (
	sessionsPath = "/v1/chatkit/sessions"
	betaHeader   = "chatkit_beta=v1"
)

// Client creates ChatKit sessions on behalf of authenticated users.
type Client struct {
	client *resty.Client
	apiKey string
}

// NewClient creates an upstream client for cfg.
func NewClient(cfg config.ChatKitConfig) *Client {
	apiBase := strings.TrimRight(cfg.APIBase, "/")
	if apiBase == "" {
		apiBase = config.DefaultChatKitAPIBase
	}

	client := resty.New()
	client.SetBaseURL(apiBase)
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("OpenAI-Beta", betaHeader)

	return &Client{
		client: client,
		apiKey: strings.TrimSpace(cfg.APIKey),
	}
}

// APIKeyConfigured reports whether the server holds an upstream API key.
func (c *Client) APIKeyConfigured() bool {
	return c.apiKey != ""
}

// CreateSession asks the upstream for a short-lived client secret.
func (c *Client) CreateSession(ctx context.Context, params chatkitmodel.SessionParams) (chatkitmodel.Credential, error) {
	if !c.APIKeyConfigured() {
		return chatkitmodel.Credential{}, ErrMissingAPIKey
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(chatkitmodel.NewUpstreamSessionRequest(params)).
		Post(sessionsPath)
	if err != nil {
		return chatkitmodel.Credential{}, fmt.Errorf("create chatkit session: %w", err)
	}

	payload := decodePayload(resp.Body())

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		message := ExtractUpstreamError(payload)
		if message == "" {
			message = "Failed to create session: " + http.StatusText(resp.StatusCode())
		}
		return chatkitmodel.Credential{}, &UpstreamError{
			Status:  resp.StatusCode(),
			Message: message,
			Body:    payload,
		}
	}

	secret, ok := payload["client_secret"]
	if !ok || !present(secret) {
		return chatkitmodel.Credential{}, ErrMissingClientSecret
	}

	return chatkitmodel.Credential{
		ClientSecret: secret,
		ExpiresAfter: payload["expires_after"],
	}, nil
}

// decodePayload parses an upstream body, yielding an empty object when the
// body is not a JSON object.
func decodePayload(body []byte) map[string]any {
	payload := map[string]any{}
	if len(body) == 0 {
		return payload
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return map[string]any{}
	}
	return payload
}

func present(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	default:
		return true
	}
}
