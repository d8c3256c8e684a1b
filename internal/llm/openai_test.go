package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientSendsSystemAndUserMessages(t *testing.T) {
	var got struct {
		Model       string        `json:"model"`
		Messages    []ChatMessage `json:"messages"`
		MaxTokens   int           `json:"max_tokens"`
		Temperature float64       `json:"temperature"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"model": "llama-3.1-8b-instruct",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  Olá!  "}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("lm-studio", srv.URL+"/v1")
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), &CompletionRequest{
		Model:       "llama-3.1-8b-instruct",
		System:      "Você é um vendedor",
		Messages:    []ChatMessage{{Role: "user", Content: "oi"}},
		MaxTokens:   120,
		Temperature: 0.4,
	})
	require.NoError(t, err)

	assert.Equal(t, "  Olá!  ", resp.Content)
	assert.Equal(t, 12, resp.TokensIn)
	assert.Equal(t, 3, resp.TokensOut)
	assert.Equal(t, "stop", resp.StopReason)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Você é um vendedor", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, 120, got.MaxTokens)
	assert.InDelta(t, 0.4, got.Temperature, 1e-6)
}

func TestOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", "")
	assert.Error(t, err)
}

func TestServiceAskTrimsReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"\n resposta \n"}}]}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("key", srv.URL+"/v1")
	require.NoError(t, err)

	svc := NewService(client, ServiceConfig{Model: "m", MaxTokens: 50})
	reply, err := svc.Ask(context.Background(), "test", "sys", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "resposta", reply)
}
