package processing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aareend/llm-text-processor/internal/domain/analysis"
	"github.com/aareend/llm-text-processor/internal/domain/records"
)

// Texts below this word count skip the backend and come back verbatim.
// Fixed threshold, same for every provider variant.
const shortTextWordLimit = 30

const shortTextNote = "Text too short for meaningful summarization"

// Service implements the processing use-cases: dispatch a text to the
// configured backend, persist the structured result, and read it back.
// Safe for concurrent use.
type Service struct {
	Backend analysis.Backend
	Repo    records.Repository
	Archive records.Archiver // optional, nil disables archiving
	Log     zerolog.Logger
}

// Process routes text to one of the three task operations, stores the
// outcome and returns the stored record. Parse failures from the backend
// degrade into error-annotated results; they never fail the request.
func (s *Service) Process(ctx context.Context, text string, task analysis.TaskType) (*records.Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, analysis.ErrEmptyText
	}

	var result any
	var err error
	switch task {
	case analysis.TaskSummarize:
		result, err = s.summarize(ctx, text)
	case analysis.TaskEntities:
		result, err = s.extractEntities(ctx, text)
	case analysis.TaskSentiment:
		result, err = s.analyzeSentiment(ctx, text)
	default:
		return nil, fmt.Errorf("%w: %q", analysis.ErrUnsupportedTask, task)
	}
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", task, err)
	}

	rec, err := s.Repo.Save(ctx, text, result, task)
	if err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}

	s.Log.Info().
		Str("record_id", string(rec.ID)).
		Str("task", string(task)).
		Str("provider", s.Backend.Name()).
		Msg("text processed")

	s.archiveRecord(ctx, rec)
	return rec, nil
}

// History returns every stored record in insertion order.
func (s *Service) History(ctx context.Context) ([]*records.Record, error) {
	return s.Repo.GetAll(ctx)
}

// Get looks up a single record. Returns records.ErrNotFound when absent.
func (s *Service) Get(ctx context.Context, id records.RecordID) (*records.Record, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) summarize(ctx context.Context, text string) (analysis.SummaryResult, error) {
	if len(strings.Fields(text)) < shortTextWordLimit {
		return analysis.SummaryResult{Summary: text, Note: shortTextNote}, nil
	}

	summary, err := s.Backend.Summarize(ctx, text)
	if err != nil {
		return analysis.SummaryResult{}, err
	}
	return analysis.SummaryResult{Summary: summary}, nil
}

func (s *Service) extractEntities(ctx context.Context, text string) (analysis.EntitiesResult, error) {
	mentions, err := s.Backend.TagEntities(ctx, text)
	if err != nil {
		if errors.Is(err, analysis.ErrMalformedResponse) {
			s.Log.Warn().Err(err).Msg("entity extraction degraded to empty result")
			return analysis.EntitiesResult{
				Entities: map[string][]analysis.EntityMention{},
				Error:    "Failed to parse entity extraction result",
			}, nil
		}
		return analysis.EntitiesResult{}, err
	}

	grouped := make(map[string][]analysis.EntityMention, len(mentions))
	for _, m := range mentions {
		typ := strings.ToUpper(strings.TrimSpace(m.Type))
		if typ == "" {
			typ = "UNKNOWN"
		}
		grouped[typ] = append(grouped[typ], analysis.EntityMention{
			Text:       m.Text,
			Confidence: round3(m.Confidence),
		})
	}
	return analysis.EntitiesResult{Entities: grouped}, nil
}

func (s *Service) analyzeSentiment(ctx context.Context, text string) (analysis.SentimentResult, error) {
	label, score, err := s.Backend.ScoreSentiment(ctx, text)
	if err != nil {
		if errors.Is(err, analysis.ErrMalformedResponse) {
			s.Log.Warn().Err(err).Msg("sentiment analysis degraded to neutral")
			return neutralFallback("Failed to parse sentiment analysis result"), nil
		}
		return analysis.SentimentResult{}, err
	}

	label = strings.ToUpper(strings.TrimSpace(label))
	if !analysis.ValidSentiment(label) || score < 0 || score > 1 {
		s.Log.Warn().Str("label", label).Float64("score", score).
			Msg("backend returned out-of-contract sentiment, degrading to neutral")
		return neutralFallback("Backend returned an unexpected sentiment shape"), nil
	}
	return analysis.SentimentResult{Sentiment: label, Score: round3(score)}, nil
}

func neutralFallback(reason string) analysis.SentimentResult {
	return analysis.SentimentResult{
		Sentiment: analysis.SentimentNeutral,
		Score:     0.5,
		Error:     reason,
	}
}

// archiveRecord ships a JSON copy of the record to the configured archiver.
// Best effort: the record is already stored, so failures only get logged.
func (s *Service) archiveRecord(ctx context.Context, rec *records.Record) {
	if s.Archive == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		s.Log.Warn().Err(err).Str("record_id", string(rec.ID)).Msg("record archive marshal failed")
		return
	}
	key := fmt.Sprintf("records/%s.json", rec.ID)
	if _, err := s.Archive.Archive(ctx, key, data); err != nil {
		s.Log.Warn().Err(err).Str("record_id", string(rec.ID)).Msg("record archive upload failed")
	}
}

// round3 rounds half away from zero to 3 decimal digits.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
