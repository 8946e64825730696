package reporting

import (
	"context"
	"errors"
	"math"
	"time"
	"unicode/utf8"

	"github.com/aareend/llm-text-processor/internal/application"
	"github.com/aareend/llm-text-processor/internal/domain/analysis"
	"github.com/aareend/llm-text-processor/internal/domain/records"
)

// DefaultActivityWindowHours is used when the caller does not name a window.
const DefaultActivityWindowHours = 24

// ErrNegativeWindow indicates a recent-activity request with hours < 0.
var ErrNegativeWindow = errors.New("activity window must not be negative")

// Stats aggregates the whole store.
type Stats struct {
	TotalProcessed    int                       `json:"total_processed"`
	ByTaskType        map[analysis.TaskType]int `json:"by_task_type"`
	AverageTextLength float64                   `json:"average_text_length"`
}

// Service computes read-side aggregates over the record store. Every call
// rescans the store; nothing is cached.
type Service struct {
	Repo  records.Repository
	Clock application.Clock
}

// ProcessingStats counts records per task type and averages the character
// length of the original texts, rounded half away from zero to 2 decimals.
// An empty store yields zero values, never a division by zero.
func (s *Service) ProcessingStats(ctx context.Context) (Stats, error) {
	all, err := s.Repo.GetAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalProcessed: len(all),
		ByTaskType:     make(map[analysis.TaskType]int),
	}
	if len(all) == 0 {
		return stats, nil
	}

	totalLen := 0
	for _, rec := range all {
		stats.ByTaskType[rec.TaskType]++
		totalLen += utf8.RuneCountInString(rec.OriginalText)
	}
	stats.AverageTextLength = round2(float64(totalLen) / float64(len(all)))
	return stats, nil
}

// RecentActivity returns records created strictly after now minus the window,
// in store order. hours = 0 matches nothing.
func (s *Service) RecentActivity(ctx context.Context, hours int) ([]*records.Record, error) {
	if hours < 0 {
		return nil, ErrNegativeWindow
	}

	all, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.Clock.Now().Add(-time.Duration(hours) * time.Hour)
	recent := make([]*records.Record, 0, len(all))
	for _, rec := range all {
		if rec.CreatedAt.After(cutoff) {
			recent = append(recent, rec)
		}
	}
	return recent, nil
}

// SentimentDistribution counts sentiment labels among sentiment-task records.
// Labels outside the supported set, including absent ones, land in the
// UNKNOWN bucket rather than being dropped.
func (s *Service) SentimentDistribution(ctx context.Context) (map[string]int, error) {
	all, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	dist := make(map[string]int)
	for _, rec := range all {
		if rec.TaskType != analysis.TaskSentiment {
			continue
		}
		dist[sentimentLabel(rec.Result)]++
	}
	return dist, nil
}

// sentimentLabel digs the label out of a stored result. Results written by
// this process are typed; results hydrated from a SQL store come back as
// generic JSON maps.
func sentimentLabel(result any) string {
	var label string
	switch v := result.(type) {
	case analysis.SentimentResult:
		label = v.Sentiment
	case *analysis.SentimentResult:
		if v != nil {
			label = v.Sentiment
		}
	case map[string]any:
		label, _ = v["sentiment"].(string)
	}
	if !analysis.ValidSentiment(label) {
		return analysis.SentimentUnknown
	}
	return label
}

// round2 rounds half away from zero to 2 decimal digits.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
