package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:   server.URL,
		APIKey:    apiKey,
		Model:     "claude-test",
		MaxTokens: 256,
	})
}

func TestClient_CreateMessage(t *testing.T) {
	t.Run("sends headers and parses text and usage", func(t *testing.T) {
		var body map[string]any

		client := newTestClient(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
			assert.Equal(t, APIVersion, r.Header.Get("anthropic-version"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			_, _ = w.Write([]byte(`{
				"id": "msg_1",
				"model": "claude-test",
				"content": [{"type": "text", "text": "Hello "}, {"type": "tool_use"}, {"type": "text", "text": "there"}],
				"stop_reason": "end_turn",
				"usage": {"input_tokens": 12, "output_tokens": 3}
			}`))
		})

		temperature := 0.2
		got, err := client.CreateMessage(context.Background(), MessageRequest{
			System:      "be brief",
			Messages:    []Message{{Role: RoleUser, Content: "hi"}},
			Temperature: &temperature,
		})
		require.NoError(t, err)

		want := MessageResponse{
			ID:         "msg_1",
			Model:      "claude-test",
			Text:       "Hello there",
			StopReason: "end_turn",
			Usage:      &Usage{InputTokens: 12, OutputTokens: 3},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("response mismatch (-want +got):\n%s", diff)
		}

		assert.Equal(t, "claude-test", body["model"])
		assert.EqualValues(t, 256, body["max_tokens"])
		system, ok := body["system"].([]any)
		require.True(t, ok, "system is sent as text blocks")
		require.Len(t, system, 1)
		assert.Equal(t, "be brief", system[0].(map[string]any)["text"])
		assert.InDelta(t, 0.2, body["temperature"], 1e-9)
	})

	t.Run("history roles are kept", func(t *testing.T) {
		var body struct {
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}

		client := newTestClient(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_, _ = w.Write([]byte(`{"id": "msg_4", "content": [{"type": "text", "text": "ok"}]}`))
		})

		_, err := client.CreateMessage(context.Background(), MessageRequest{Messages: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
			{Role: RoleUser, Content: "again"},
		}})
		require.NoError(t, err)

		require.Len(t, body.Messages, 3)
		assert.Equal(t, RoleUser, body.Messages[0].Role)
		assert.Equal(t, RoleAssistant, body.Messages[1].Role)
		assert.Equal(t, RoleUser, body.Messages[2].Role)
	})

	t.Run("missing usage stays nil", func(t *testing.T) {
		client := newTestClient(t, "sk-test", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"id": "msg_2", "content": [{"type": "text", "text": "ok"}]}`))
		})

		got, err := client.CreateMessage(context.Background(), MessageRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
		require.NoError(t, err)

		assert.Nil(t, got.Usage)
	})

	t.Run("empty content", func(t *testing.T) {
		client := newTestClient(t, "sk-test", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"id": "msg_3", "content": []}`))
		})

		_, err := client.CreateMessage(context.Background(), MessageRequest{})

		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("missing api key", func(t *testing.T) {
		client := newTestClient(t, "", func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("no request expected")
		})

		_, err := client.CreateMessage(context.Background(), MessageRequest{})

		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	errorRequest := func(status int, payload string, want exception.ApplicationError) func(t *testing.T) {
		return func(t *testing.T) {
			client := newTestClient(t, "sk-test", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(payload))
			})

			_, err := client.CreateMessage(context.Background(), MessageRequest{})

			assert.True(t, exception.HasCode(err, want.Code), "got %v", err)
		}
	}

	t.Run("rate limit", errorRequest(http.StatusTooManyRequests,
		`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, ErrRateLimited))
	t.Run("overloaded", errorRequest(529,
		`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, ErrUnavailable))
	t.Run("invalid request", errorRequest(http.StatusBadRequest,
		`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`, ErrUpstream))
	t.Run("unparseable 503", errorRequest(http.StatusServiceUnavailable, `upstream connect error`, ErrUnavailable))

	t.Run("unreachable vendor", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		client := NewClient(Config{BaseURL: server.URL, APIKey: "sk-test", Model: "claude-test", MaxTokens: 16})

		_, err := client.CreateMessage(context.Background(), MessageRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})

		assert.True(t, exception.HasCode(err, ErrUnavailable.Code), "got %v", err)
	})
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 2, EstimateTokens("12345678"))
	assert.Equal(t, 2, EstimateTokens("1234567890"))
}
