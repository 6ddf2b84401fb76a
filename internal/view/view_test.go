package view

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidejuridic/chatgate/backend/internal/model/chatui"
)

func TestRenderLoginEscapesInput(t *testing.T) {
	renderer, err := New()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	err = renderer.Render(rr, http.StatusUnauthorized, PageLogin, LoginPage{
		Email:          `"><script>alert(1)</script>`,
		Error:          "Invalid login credentials",
		RedirectedFrom: "/chat",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, "Invalid login credentials")
	assert.Contains(t, body, `value="/chat"`)
	assert.NotContains(t, body, "<script>alert(1)</script>")
}

func TestRenderChatEmbedsShellConfig(t *testing.T) {
	renderer, err := New()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	shell := chatui.NewShellConfig("wf_123", chatui.NewMemoryPromptStore(chatui.Seed()), chatui.SchemeLight)
	require.NoError(t, renderer.Render(rr, http.StatusOK, PageChat, ChatPage{UserName: "Jeanne", Shell: shell}))

	body := rr.Body.String()
	assert.Contains(t, body, "wf_123")
	assert.Contains(t, body, "create-session")
	assert.Contains(t, body, "Jeanne")
}

func TestRenderUnknownPage(t *testing.T) {
	renderer, err := New()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	assert.Error(t, renderer.Render(rr, http.StatusOK, "missing", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}
