package openai_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/navikon/atlasbot/internal/apperr"
	"github.com/navikon/atlasbot/internal/client/openai"
	"github.com/navikon/atlasbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return openai.NewClient("test-key", "gpt-3.5-turbo", 800, 0.2).WithBaseURL(srv.URL)
}

func requireExternalAPIError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindExternalAPI, appErr.Kind)
	assert.Equal(t, openai.ServiceName, appErr.Service)
}

func TestChat(t *testing.T) {
	t.Parallel()
	history := []models.Message{{Role: models.RoleUser, Content: "привет"}}

	t.Run("success - returns trimmed reply", func(t *testing.T) {
		t.Parallel()
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "gpt-3.5-turbo", req["model"])

			messages, ok := req["messages"].([]any)
			require.True(t, ok)
			require.Len(t, messages, 2, "system prompt must be prepended")
			first, ok := messages[0].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "system", first["role"])
			assert.Equal(t, "Ты — ассистент.", first["content"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Привет! Чем помочь?  "}}]}`))
		})

		reply, err := client.Chat(t.Context(), "Ты — ассистент.", history)

		require.NoError(t, err)
		assert.Equal(t, "Привет! Чем помочь?", reply)
	})

	t.Run("error - non-200 status", func(t *testing.T) {
		t.Parallel()
		client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.Chat(t.Context(), "prompt", history)

		requireExternalAPIError(t, err)
		require.ErrorContains(t, err, "status 429")
	})

	t.Run("error - API error payload", func(t *testing.T) {
		t.Parallel()
		client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad model"}}`))
		})

		_, err := client.Chat(t.Context(), "prompt", history)

		requireExternalAPIError(t, err)
		require.ErrorContains(t, err, "invalid_request_error")
		require.ErrorContains(t, err, "bad model")
	})

	t.Run("error - no choices", func(t *testing.T) {
		t.Parallel()
		client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		_, err := client.Chat(t.Context(), "prompt", history)

		requireExternalAPIError(t, err)
		require.ErrorContains(t, err, "no choices")
	})

	t.Run("error - blank reply", func(t *testing.T) {
		t.Parallel()
		client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"   "}}]}`))
		})

		_, err := client.Chat(t.Context(), "prompt", history)

		requireExternalAPIError(t, err)
		require.ErrorContains(t, err, "empty reply")
	})

	t.Run("error - malformed body", func(t *testing.T) {
		t.Parallel()
		client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})

		_, err := client.Chat(t.Context(), "prompt", history)

		requireExternalAPIError(t, err)
		require.ErrorContains(t, err, "failed to parse response")
	})

	t.Run("error - unreachable endpoint", func(t *testing.T) {
		t.Parallel()
		client := openai.NewClient("test-key", "gpt-3.5-turbo", 800, 0.2).
			WithBaseURL("http://127.0.0.1:1")

		_, err := client.Chat(t.Context(), "prompt", history)

		requireExternalAPIError(t, err)
		require.ErrorContains(t, err, "request failed")
	})
}
