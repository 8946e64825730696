package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aareend/llm-text-processor/internal/domain/analysis"
	"github.com/aareend/llm-text-processor/internal/infra/ai/prompt"
)

// Client is the local provider variant: models served by an Ollama instance
// reachable over HTTP. No credentials involved.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Config holds Ollama-specific configuration
type Config struct {
	BaseURL        string // e.g. "http://localhost:11434"
	Model          string // e.g. "llama3.2:latest"
	TimeoutSeconds int
}

// chatRequest is the request body for Ollama's /api/chat endpoint
type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
	Format   string    `json:"format,omitempty"`
}

type message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// chatResponse is the response from Ollama's /api/chat endpoint
type chatResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Message   message   `json:"message"`
	Done      bool      `json:"done"`
}

const defaultModel = "llama3.2:latest"

// NewClient constructs the local backend. The base URL defaults to the
// standard Ollama port; the model falls back to a small general model.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 120
	}

	return &Client{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}, nil
}

func (c *Client) Name() string { return "ollama" }

func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	out, err := c.chat(ctx, prompt.SummarizeSystemPrompt(), prompt.SummarizeUserPrompt(text), false)
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
	out, err := c.chat(ctx, prompt.EntitiesSystemPrompt(), text, true)
	if err != nil {
		return nil, err
	}
	return prompt.ParseMentions(out)
}

func (c *Client) ScoreSentiment(ctx context.Context, text string) (string, float64, error) {
	out, err := c.chat(ctx, prompt.SentimentSystemPrompt(), text, true)
	if err != nil {
		return "", 0, err
	}
	return prompt.ParseSentiment(out)
}

func (c *Client) chat(ctx context.Context, system, user string, jsonFormat bool) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
	}
	if jsonFormat {
		reqBody.Format = "json"
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ollama response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrMalformedResponse, err)
	}
	return parsed.Message.Content, nil
}
