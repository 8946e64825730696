package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aareend/llm-text-processor/internal/application"
	"github.com/aareend/llm-text-processor/internal/domain/analysis"
	"github.com/aareend/llm-text-processor/internal/domain/records"
)

// Store is the default records.Repository: append-only, in memory, gone on
// process exit. Growth is unbounded; eviction is out of scope.
type Store struct {
	clock application.Clock

	mu    sync.Mutex
	byID  map[records.RecordID]*records.Record
	order []*records.Record
}

func New(clock application.Clock) *Store {
	return &Store{
		clock: clock,
		byID:  make(map[records.RecordID]*records.Record),
	}
}

// Save generates a fresh id and timestamp and inserts atomically. Concurrent
// callers always get distinct ids and never lose a record.
func (s *Store) Save(ctx context.Context, originalText string, result any, task analysis.TaskType) (*records.Record, error) {
	rec := &records.Record{
		ID:           records.RecordID(uuid.NewString()),
		OriginalText: originalText,
		Result:       result,
		TaskType:     task,
		CreatedAt:    s.clock.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[rec.ID] = rec
	s.order = append(s.order, rec)
	return rec, nil
}

// GetAll returns every record in insertion order. The returned slice is a
// copy; the records themselves are shared and must not be mutated.
func (s *Store) GetAll(ctx context.Context) ([]*records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*records.Record, len(s.order))
	copy(out, s.order)
	return out, nil
}

// GetByID does a point lookup. Absence is records.ErrNotFound, not a failure.
func (s *Store) GetByID(ctx context.Context, id records.RecordID) (*records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, records.ErrNotFound
	}
	return rec, nil
}
