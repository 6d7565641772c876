package askai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chatServer fakes the chat-completions endpoint and captures requests.
func chatServer(t *testing.T, status int, body string, captured *[]Message) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && captured != nil {
			*captured = req.Messages
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const okBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4.1",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "You asked: hi. Hello!"}, "finish_reason": "stop"}]
}`

func TestAskPrependsSystemPrompt(t *testing.T) {
	var got []Message
	srv := chatServer(t, http.StatusOK, okBody, &got)

	client, err := NewOpenAIClient(Options{APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	reply, err := client.Ask(context.Background(), Conversation{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "You asked: hi. Hello!", reply)

	require.Len(t, got, 2)
	assert.Equal(t, RoleSystem, got[0].Role)
	assert.Equal(t, DefaultSystemPrompt, got[0].Content)
	assert.Equal(t, Message{Role: RoleUser, Content: "hi"}, got[1])
}

func TestAskKeepsExistingSystemPrompt(t *testing.T) {
	var got []Message
	srv := chatServer(t, http.StatusOK, okBody, &got)

	client, err := NewOpenAIClient(Options{APIKey: "test-key", BaseURL: srv.URL, RequestsPerMinute: 600}, nil)
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), Conversation{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "be brief", got[0].Content)
}

func TestAskSurfacesAPIError(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError,
		`{"error": {"message": "upstream exploded", "type": "server_error"}}`, nil)

	client, err := NewOpenAIClient(Options{APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), Conversation{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestAskNoChoices(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"id": "x", "object": "chat.completion", "choices": []}`, nil)

	client, err := NewOpenAIClient(Options{APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), Conversation{{Role: RoleUser, Content: "hi"}})
	assert.Error(t, err)
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(Options{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Ask(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = Unavailable{Reason: "OPENAI_API_KEY not set"}.Ask(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Contains(t, err.Error(), "OPENAI_API_KEY not set")
}

func TestWithSystemPromptDoesNotMutate(t *testing.T) {
	conv := Conversation{{Role: RoleUser, Content: "q"}}

	out := WithSystemPrompt(conv, "sys")
	assert.Len(t, out, 2)
	assert.Len(t, conv, 1)
	assert.Equal(t, RoleUser, conv[0].Role)
}

func TestConversationValidate(t *testing.T) {
	assert.NoError(t, Conversation{{Role: RoleUser}, {Role: RoleAssistant}}.Validate())
	assert.Error(t, Conversation{{Role: "robot"}}.Validate())

	last, ok := Conversation{{Role: RoleUser, Content: "a"}, {Role: RoleAssistant, Content: "b"}}.Last()
	assert.True(t, ok)
	assert.Equal(t, "b", last.Content)

	_, ok = Conversation{}.Last()
	assert.False(t, ok)
}
