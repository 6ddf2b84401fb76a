package chatkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidejuridic/chatgate/backend/internal/config"
	chatkitmodel "github.com/aidejuridic/chatgate/backend/internal/model/chatkit"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.ChatKitConfig{APIKey: apiKey, APIBase: server.URL + "/", Timeout: 5 * time.Second})
}

var testParams = chatkitmodel.SessionParams{UserID: "user-1", WorkflowID: "wf_123", FileUploadEnabled: true}

func TestCreateSessionSuccess(t *testing.T) {
	client := newTestClient(t, "sk-server", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chatkit/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk-server", r.Header.Get("Authorization"))
		assert.Equal(t, "chatkit_beta=v1", r.Header.Get("OpenAI-Beta"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user-1", body["user"])
		assert.Equal(t, map[string]any{"id": "wf_123"}, body["workflow"])
		assert.Equal(t, map[string]any{"file_upload": map[string]any{"enabled": true}}, body["chatkit_configuration"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"client_secret":"sk_test_1","expires_after":600,"id":"cksess_1"}`))
	})

	credential, err := client.CreateSession(context.Background(), testParams)
	require.NoError(t, err)
	assert.Equal(t, "sk_test_1", credential.ClientSecret)
	assert.Equal(t, float64(600), credential.ExpiresAfter)
}

func TestCreateSessionUpstreamError(t *testing.T) {
	client := newTestClient(t, "sk-server", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"message":"bad workflow"}}`))
	})

	_, err := client.CreateSession(context.Background(), testParams)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusUnprocessableEntity, upstreamErr.Status)
	assert.Equal(t, "bad workflow", upstreamErr.Message)
	assert.Equal(t, map[string]any{"error": map[string]any{"message": "bad workflow"}}, upstreamErr.Body)
}

func TestCreateSessionUpstreamErrorWithoutMessage(t *testing.T) {
	client := newTestClient(t, "sk-server", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`upstream down`))
	})

	_, err := client.CreateSession(context.Background(), testParams)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "Failed to create session: Service Unavailable", upstreamErr.Message)
	assert.Empty(t, upstreamErr.Body)
}

func TestCreateSessionMissingClientSecret(t *testing.T) {
	client := newTestClient(t, "sk-server", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"expires_after":600}`))
	})

	_, err := client.CreateSession(context.Background(), testParams)
	assert.ErrorIs(t, err, ErrMissingClientSecret)
}

func TestCreateSessionMissingExpiryIsNull(t *testing.T) {
	client := newTestClient(t, "sk-server", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"client_secret":"sk_test_2"}`))
	})

	credential, err := client.CreateSession(context.Background(), testParams)
	require.NoError(t, err)

	payload, err := json.Marshal(credential)
	require.NoError(t, err)
	assert.JSONEq(t, `{"client_secret":"sk_test_2","expires_after":null}`, string(payload))
}

func TestCreateSessionWithoutAPIKeyMakesNoCall(t *testing.T) {
	called := false
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	assert.False(t, client.APIKeyConfigured())
	_, err := client.CreateSession(context.Background(), testParams)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.False(t, called)
}

func TestCreateSessionTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()
	client := NewClient(config.ChatKitConfig{APIKey: "sk-server", APIBase: server.URL, Timeout: time.Second})

	_, err := client.CreateSession(context.Background(), testParams)
	require.Error(t, err)

	var upstreamErr *UpstreamError
	assert.False(t, errors.As(err, &upstreamErr))
}
