// Package inference talks to an OpenAI-compatible chat completion server,
// typically a local llama.cpp or vLLM instance serving the coaching model.
package inference

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/coachcheck/sampling"
)

// ErrNoChoices is returned when the server answers without any completion.
var ErrNoChoices = errors.New("completion has no choices")

const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a chat completion request.
type Request struct {
	Messages []Message
	Sampling sampling.Config
}

// Response is the generated text together with its token usage.
type Response struct {
	Text         string
	TokensIn     int
	TokensOut    int
	FinishReason string
}

// Client generates completions through an OpenAI-compatible endpoint.
type Client struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewClient returns a Client for the server at baseURL (for example
// "http://localhost:8080/v1"). apiKey may be empty for local servers. A zero
// timeout leaves requests bounded only by their context.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger *slog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Model returns the model name sent with every request.
func (c *Client) Model() string { return c.model }

// Generate runs one chat completion. TopK and MinP have no field in the
// OpenAI request body and are left to the server defaults.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	creq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   req.Sampling.MaxTokens,
		Temperature: req.Sampling.Temperature,
		TopP:        req.Sampling.TopP,
	}

	c.logger.Debug("chat completion", "model", c.model, "mode", req.Sampling.Mode())
	resp, err := c.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return Response{}, errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return Response{}, errors.WithStack(ErrNoChoices)
	}
	return Response{
		Text:         resp.Choices[0].Message.Content,
		TokensIn:     resp.Usage.PromptTokens,
		TokensOut:    resp.Usage.CompletionTokens,
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}

// Close releases nothing; the underlying HTTP client is shared.
func (c *Client) Close() error { return nil }
