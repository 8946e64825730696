package records

import (
	"context"

	"github.com/aareend/llm-text-processor/internal/domain/analysis"
)

// Repository port (interface for record persistence).
// GetAll yields records in insertion order.
type Repository interface {
	Save(ctx context.Context, originalText string, result any, task analysis.TaskType) (*Record, error)
	GetAll(ctx context.Context) ([]*Record, error)
	GetByID(ctx context.Context, id RecordID) (*Record, error)
}

// Archiver port (interface for optional off-process copies of records).
// Archive failures are never fatal to the request that produced the record.
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte) (string, error)
}
