package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/aareend/llm-text-processor/internal/domain/analysis"
	"github.com/aareend/llm-text-processor/internal/infra/ai/prompt"
)

const summaryMaxTokens = 150

// Client is the remote provider variant backed by the OpenAI chat API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient constructs the OpenAI backend. A missing API key is a fatal
// configuration error: refuse to construct rather than fail on first use.
// baseURL is optional and mainly useful for proxies and tests.
func NewClient(apiKey, model, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (c *Client) Name() string { return "openai" }

func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	out, err := c.chat(ctx, prompt.SummarizeSystemPrompt(), prompt.SummarizeUserPrompt(text), summaryMaxTokens, false)
	if err != nil {
		return "", err
	}
	summary := strings.TrimSpace(out)
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary", analysis.ErrMalformedResponse)
	}
	return summary, nil
}

func (c *Client) TagEntities(ctx context.Context, text string) ([]analysis.Mention, error) {
	out, err := c.chat(ctx, prompt.EntitiesSystemPrompt(), text, 0, true)
	if err != nil {
		return nil, err
	}
	return prompt.ParseMentions(out)
}

func (c *Client) ScoreSentiment(ctx context.Context, text string) (string, float64, error) {
	out, err := c.chat(ctx, prompt.SentimentSystemPrompt(), text, 0, true)
	if err != nil {
		return "", 0, err
	}
	return prompt.ParseSentiment(out)
}

func (c *Client) chat(ctx context.Context, system, user string, maxTokens int, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion has no choices", analysis.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
