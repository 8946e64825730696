package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aareend/llm-text-processor/internal/domain/analysis"
)

func TestNewClient_Defaults(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantBaseURL string
		wantModel   string
	}{
		{
			name:        "all defaults",
			cfg:         Config{},
			wantBaseURL: "http://localhost:11434",
			wantModel:   defaultModel,
		},
		{
			name:        "trailing slash trimmed",
			cfg:         Config{BaseURL: "http://models.internal:11434/", Model: "mistral"},
			wantBaseURL: "http://models.internal:11434",
			wantModel:   "mistral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBaseURL, client.baseURL)
			assert.Equal(t, tt.wantModel, client.model)
			assert.Equal(t, "ollama", client.Name())
		})
	}
}

// chatServer fakes the Ollama /api/chat endpoint, answering with content.
func chatServer(t *testing.T, content string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}

		resp := chatResponse{
			Model:   "test",
			Message: message{Role: "assistant", Content: content},
			Done:    true,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestSummarize(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, "  a tight summary \n", &captured)
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Model: "test"})
	require.NoError(t, err)

	summary, err := client.Summarize(context.Background(), "lots of text to summarize")
	require.NoError(t, err)
	assert.Equal(t, "a tight summary", summary)
	assert.False(t, captured.Stream)
	assert.Empty(t, captured.Format, "summaries are plain text, not JSON mode")
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
}

func TestSummarize_EmptyCompletion(t *testing.T) {
	srv := chatServer(t, "   ", nil)
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Model: "test"})
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), "text")
	assert.ErrorIs(t, err, analysis.ErrMalformedResponse)
}

func TestTagEntities(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, `{"entities":[{"text":"Oslo","type":"LOCATION","confidence":0.95}]}`, &captured)
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Model: "test"})
	require.NoError(t, err)

	mentions, err := client.TagEntities(context.Background(), "Oslo is calm in August")
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.Equal(t, analysis.Mention{Text: "Oslo", Type: "LOCATION", Confidence: 0.95}, mentions[0])
	assert.Equal(t, "json", captured.Format)
}

func TestTagEntities_MalformedCompletion(t *testing.T) {
	srv := chatServer(t, "the model rambled instead of emitting JSON", nil)
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Model: "test"})
	require.NoError(t, err)

	_, err = client.TagEntities(context.Background(), "text")
	assert.ErrorIs(t, err, analysis.ErrMalformedResponse)
}

func TestScoreSentiment(t *testing.T) {
	srv := chatServer(t, `{"sentiment":"POSITIVE","score":0.88}`, nil)
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Model: "test"})
	require.NoError(t, err)

	label, score, err := client.ScoreSentiment(context.Background(), "what a great day")
	require.NoError(t, err)
	assert.Equal(t, "POSITIVE", label)
	assert.Equal(t, 0.88, score)
}

func TestChat_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Model: "test"})
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), "text")
	require.Error(t, err)
	assert.NotErrorIs(t, err, analysis.ErrMalformedResponse, "server failures are not parse failures")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestChat_ConnectionRefused(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:1", Model: "test", TimeoutSeconds: 1})
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), "text")
	require.Error(t, err)
}
