package inference

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachcheck/sampling"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/v1", "", "qwen3-1.7b", 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGenerate(t *testing.T) {
	var got map[string]interface{}
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "cmpl-1",
			"object": "chat.completion",
			"model": "qwen3-1.7b",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "REFS: pawn e4\nCOACHING: Good."}}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 14, "total_tokens": 134}
		}`)
	})

	resp, err := c.Generate(context.Background(), Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "You are a helpful chess coaching assistant. /no_think"},
			{Role: RoleUser, Content: "Position (FEN): ..."},
		},
		Sampling: sampling.NonThinkingConf(),
	})
	require.NoError(t, err)
	assert.Equal(t, "REFS: pawn e4\nCOACHING: Good.", resp.Text)
	assert.Equal(t, 120, resp.TokensIn)
	assert.Equal(t, 14, resp.TokensOut)
	assert.Equal(t, "stop", resp.FinishReason)

	assert.Equal(t, "qwen3-1.7b", got["model"])
	assert.EqualValues(t, 200, got["max_tokens"])
	msgs, ok := got["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestGenerateNoChoices(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "cmpl-2", "object": "chat.completion", "choices": []}`)
	})
	_, err := c.Generate(context.Background(), Request{Sampling: sampling.NonThinkingConf()})
	assert.True(t, errors.Is(err, ErrNoChoices))
}

func TestGenerateServerError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "model not loaded"}}`, http.StatusServiceUnavailable)
	})
	_, err := c.Generate(context.Background(), Request{Sampling: sampling.NonThinkingConf()})
	assert.Error(t, err)
}
