package records

import (
	"time"

	"github.com/aareend/llm-text-processor/internal/domain/analysis"
)

// ID type for a stored record
type RecordID string

// Aggregate Root: Record. One stored outcome of a processing request.
// Records are append-only: never mutated or deleted after creation.
type Record struct {
	ID           RecordID          `json:"id"`
	OriginalText string            `json:"original_text"`
	Result       any               `json:"processed_result"`
	TaskType     analysis.TaskType `json:"task_type"`
	CreatedAt    time.Time         `json:"created_at"`
}
