package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aareend/llm-text-processor/internal/application/processing"
	"github.com/aareend/llm-text-processor/internal/application/reporting"
	"github.com/aareend/llm-text-processor/internal/domain/analysis"
	"github.com/aareend/llm-text-processor/internal/domain/records"
	"github.com/aareend/llm-text-processor/internal/middleware"
)

const apiVersion = "1.0.0"

type Router struct {
	processingSvc *processing.Service
	reportingSvc  *reporting.Service
}

// NewRouter wires the HTTP surface. health is built by the caller since it
// knows the active provider and which dependencies to check.
func NewRouter(processingSvc *processing.Service, reportingSvc *reporting.Service, health http.HandlerFunc, log zerolog.Logger) http.Handler {
	r := &Router{processingSvc: processingSvc, reportingSvc: reportingSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))
	mux.Use(middleware.RequestLogger(log))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/", r.wrap(r.handleIndex))
	mux.Get("/health", health)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Post("/process", r.wrap(r.handleProcess))
	mux.Get("/history", r.wrap(r.handleHistory))
	mux.Get("/history/{id}", r.wrap(r.handleGetRecord))
	mux.Get("/stats", r.wrap(r.handleStats))
	mux.Get("/recent-activity", r.wrap(r.handleRecentActivity))
	mux.Get("/recent-activity/{hours}", r.wrap(r.handleRecentActivity))
	mux.Get("/sentiment-distribution", r.wrap(r.handleSentimentDistribution))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, records.ErrNotFound):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, analysis.ErrEmptyText),
			errors.Is(err, analysis.ErrUnsupportedTask),
			errors.Is(err, reporting.ErrNegativeWindow):
			writeError(w, http.StatusBadRequest, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, map[string]any{
		"api":     "LLM Text Processor",
		"version": apiVersion,
		"endpoints": []map[string]string{
			{"path": "/process", "method": "POST", "description": "Process text with the configured provider"},
			{"path": "/history", "method": "GET", "description": "All processed records"},
			{"path": "/history/{id}", "method": "GET", "description": "Single processed record"},
			{"path": "/stats", "method": "GET", "description": "Processing statistics"},
			{"path": "/recent-activity/{hours}", "method": "GET", "description": "Records from the last N hours"},
			{"path": "/sentiment-distribution", "method": "GET", "description": "Sentiment label counts"},
			{"path": "/health", "method": "GET", "description": "Health check"},
			{"path": "/metrics", "method": "GET", "description": "Request counters"},
		},
	})
}

// POST /process?task=summarize|entities|sentiment
// Body: {"text": "..."}
func (r *Router) handleProcess(w http.ResponseWriter, req *http.Request) error {
	task := analysis.TaskType(req.URL.Query().Get("task"))
	if task == "" {
		task = analysis.TaskSummarize
	}
	if !task.Valid() {
		return fmt.Errorf("%w: %q (valid: %s)", analysis.ErrUnsupportedTask, task, validTaskList())
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return nil
	}

	rec, err := r.processingSvc.Process(req.Context(), body.Text, task)
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

// GET /history
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	list, err := r.processingSvc.History(req.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []*records.Record{}
	}
	return writeJSON(w, list)
}

// GET /history/{id}
func (r *Router) handleGetRecord(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	rec, err := r.processingSvc.Get(req.Context(), records.RecordID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

// GET /stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	stats, err := r.reportingSvc.ProcessingStats(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, stats)
}

// GET /recent-activity and /recent-activity/{hours}
func (r *Router) handleRecentActivity(w http.ResponseWriter, req *http.Request) error {
	hours := reporting.DefaultActivityWindowHours
	if raw := chi.URLParam(req, "hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid hours: %q", raw))
			return nil
		}
		hours = parsed
	}

	list, err := r.reportingSvc.RecentActivity(req.Context(), hours)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*records.Record{}
	}
	return writeJSON(w, list)
}

// GET /sentiment-distribution
func (r *Router) handleSentimentDistribution(w http.ResponseWriter, req *http.Request) error {
	dist, err := r.reportingSvc.SentimentDistribution(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, dist)
}

func validTaskList() string {
	types := analysis.ValidTaskTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
