package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aareend/llm-text-processor/internal/application/processing"
	"github.com/aareend/llm-text-processor/internal/application/reporting"
	"github.com/aareend/llm-text-processor/internal/domain/analysis"
	"github.com/aareend/llm-text-processor/internal/infra/store/memory"
	"github.com/aareend/llm-text-processor/internal/middleware"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

// fakeBackend answers every operation with fixed, well-formed results.
type fakeBackend struct{}

func (fakeBackend) Name() string { return "fake" }

func (fakeBackend) Summarize(ctx context.Context, text string) (string, error) {
	return "a summary", nil
}

func (fakeBackend) TagEntities(ctx context.Context, text string) ([]analysis.Mention, error) {
	return []analysis.Mention{{Text: "Lisbon", Type: "LOCATION", Confidence: 0.9}}, nil
}

func (fakeBackend) ScoreSentiment(ctx context.Context, text string) (string, float64, error) {
	return "POSITIVE", 0.9, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	store := memory.New(clock)

	processingSvc := &processing.Service{
		Backend: fakeBackend{},
		Repo:    store,
		Log:     zerolog.Nop(),
	}
	reportingSvc := &reporting.Service{Repo: store, Clock: clock}

	health := middleware.HealthHandler("fake", nil)
	handler := NewRouter(processingSvc, reportingSvc, health, zerolog.Nop())

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func postProcess(t *testing.T, srv *httptest.Server, task, text string) *http.Response {
	t.Helper()
	body := strings.NewReader(`{"text": ` + jsonString(text) + `}`)
	url := srv.URL + "/process"
	if task != "" {
		url += "?task=" + task
	}
	resp, err := http.Post(url, "application/json", body)
	require.NoError(t, err)
	return resp
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestProcess_Summarize(t *testing.T) {
	srv := newTestServer(t)

	resp := postProcess(t, srv, "summarize", "hello world")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rec := decode[map[string]any](t, resp)
	assert.NotEmpty(t, rec["id"])
	assert.Equal(t, "hello world", rec["original_text"])
	assert.Equal(t, "summarize", rec["task_type"])

	result, ok := rec["processed_result"].(map[string]any)
	require.True(t, ok)
	// short text comes back verbatim with a note
	assert.Equal(t, "hello world", result["summary"])
	assert.NotEmpty(t, result["note"])
}

func TestProcess_DefaultTaskIsSummarize(t *testing.T) {
	srv := newTestServer(t)

	resp := postProcess(t, srv, "", "hello world")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rec := decode[map[string]any](t, resp)
	assert.Equal(t, "summarize", rec["task_type"])
}

func TestProcess_Entities(t *testing.T) {
	srv := newTestServer(t)

	resp := postProcess(t, srv, "entities", "Lisbon by the sea")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rec := decode[map[string]any](t, resp)
	result := rec["processed_result"].(map[string]any)
	entities := result["entities"].(map[string]any)
	require.Contains(t, entities, "LOCATION")
}

func TestProcess_InvalidTask(t *testing.T) {
	srv := newTestServer(t)

	resp := postProcess(t, srv, "translate", "hello")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Contains(t, body["error"], "unsupported task")
	assert.Contains(t, body["error"], "summarize, entities, sentiment")
}

func TestProcess_EmptyText(t *testing.T) {
	srv := newTestServer(t)

	resp := postProcess(t, srv, "summarize", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcess_BadBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/process?task=summarize", "application/json", strings.NewReader("{broken"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestHistoryAndGetByID(t *testing.T) {
	srv := newTestServer(t)

	resp := postProcess(t, srv, "summarize", "first")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	id := created["id"].(string)

	resp, err := http.Get(srv.URL + "/history")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]map[string]any](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["id"])

	resp, err = http.Get(srv.URL + "/history/" + id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]any](t, resp)
	assert.Equal(t, id, got["id"])
}

func TestGetByID_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/history/does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestStats(t *testing.T) {
	srv := newTestServer(t)

	for _, task := range []string{"summarize", "summarize", "sentiment"} {
		resp := postProcess(t, srv, task, "some text")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decode[map[string]any](t, resp)
	assert.Equal(t, float64(3), stats["total_processed"])
	byTask := stats["by_task_type"].(map[string]any)
	assert.Equal(t, float64(2), byTask["summarize"])
	assert.Equal(t, float64(1), byTask["sentiment"])
}

func TestRecentActivity(t *testing.T) {
	srv := newTestServer(t)

	resp := postProcess(t, srv, "summarize", "some text")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// zero-hour window matches nothing: records are never strictly after now
	resp, err := http.Get(srv.URL + "/recent-activity/0")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]map[string]any](t, resp))

	// default window picks the record up
	resp, err = http.Get(srv.URL + "/recent-activity")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]any](t, resp), 1)
}

func TestRecentActivity_BadHours(t *testing.T) {
	srv := newTestServer(t)

	for _, raw := range []string{"abc", "-3"} {
		resp, err := http.Get(srv.URL + "/recent-activity/" + raw)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "hours %q", raw)
		resp.Body.Close()
	}
}

func TestSentimentDistribution(t *testing.T) {
	srv := newTestServer(t)

	resp := postProcess(t, srv, "sentiment", "what a day")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/sentiment-distribution")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dist := decode[map[string]int](t, resp)
	assert.Equal(t, map[string]int{"POSITIVE": 1}, dist)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	health := decode[map[string]any](t, resp)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "fake", health["provider"])
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	index := decode[map[string]any](t, resp)
	assert.Equal(t, "LLM Text Processor", index["api"])
	assert.NotEmpty(t, index["endpoints"])
}
