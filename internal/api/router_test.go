package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio-chat/backend/internal/api"
	"portfolio-chat/backend/internal/model"
)

func TestNewRouter(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>portfolio</h1>"), 0o644))

	handler, mockSvc, m := setupRelayHandler(t)
	server := httptest.NewServer(api.NewRouter(handler, m.Handler(), staticDir))
	defer server.Close()

	t.Run("Health check", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"status":"ok"}`, string(body))
	})

	t.Run("Relay over a real connection", func(t *testing.T) {
		mockSvc.On("CheckReady").Return(nil).Once()
		mockSvc.On("StreamChat", mock.Anything, mock.Anything, mock.Anything).
			Run(emit(model.StreamEvent{Text: "hi"}, model.StreamEvent{Done: true})).
			Once()

		resp, err := http.Post(server.URL+"/api/chat", "application/json",
			strings.NewReader(`{"messages":[{"role":"user","content":"hello"}]}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
		assert.NotEmpty(t, resp.Header.Get("X-Accel-Buffering"))
		assert.Equal(t, "data: {\"text\":\"hi\"}\n\ndata: [DONE]\n\n", string(body))
	})

	t.Run("Relay endpoints only accept POST", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/learn")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("Metrics", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "portfolio_relay_streams_in_flight")
	})

	t.Run("Static site", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "portfolio")
	})

	t.Run("Swagger UI", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/swagger/doc.json")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "/learn")
	})
}
