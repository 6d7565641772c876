package askai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arise-learning/arise/internal/metrics"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4.1"

// Options configures an OpenAIClient.
type Options struct {
	APIKey            string
	Model             string
	BaseURL           string
	RequestsPerMinute int
	Timeout           time.Duration
	SystemPrompt      string
}

// OpenAIClient asks an OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	client       *openai.Client
	model        string
	systemPrompt string
	timeout      time.Duration
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// NewOpenAIClient creates a client. An empty API key is an error.
func NewOpenAIClient(opts Options, logger *zap.Logger) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrNotConfigured)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	c := &OpenAIClient{
		client:       openai.NewClientWithConfig(cfg),
		model:        opts.Model,
		systemPrompt: opts.SystemPrompt,
		timeout:      opts.Timeout,
		logger:       logger,
	}
	if opts.RequestsPerMinute > 0 {
		rps := float64(opts.RequestsPerMinute) / 60.0
		burst := max(1, opts.RequestsPerMinute/10)
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	logger.Info("initialized ai collaborator", zap.String("model", opts.Model), zap.String("base_url", cfg.BaseURL))
	return c, nil
}

// Ask sends conv, with the system prompt prepended when missing, and
// returns the first choice's content.
func (c *OpenAIClient) Ask(ctx context.Context, conv Conversation) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.AskRequests.WithLabelValues("rate_limited").Inc()
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msgs := WithSystemPrompt(conv, c.systemPrompt)
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, len(msgs)),
	}
	for i, m := range msgs {
		req.Messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	c.logger.Debug("sending chat completion", zap.String("model", c.model), zap.Int("messages", len(msgs)))
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		metrics.AskRequests.WithLabelValues("error").Inc()
		c.logger.Warn("ai request failed", zap.Error(err))
		return "", err
	}
	if len(resp.Choices) == 0 {
		metrics.AskRequests.WithLabelValues("empty").Inc()
		return "", errors.New("ai returned no choices")
	}

	metrics.AskRequests.WithLabelValues("ok").Inc()
	return resp.Choices[0].Message.Content, nil
}
