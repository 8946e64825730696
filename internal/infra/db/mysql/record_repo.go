package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aareend/llm-text-processor/internal/application"
	"github.com/aareend/llm-text-processor/internal/domain/analysis"
	"github.com/aareend/llm-text-processor/internal/domain/records"
)

// RecordRepository is the MySQL-backed records.Repository. The seq column,
// not created_at, carries insertion order: clock skew must not reorder reads.
type RecordRepository struct {
	db    *sql.DB
	clock application.Clock
}

func NewRecordRepository(db *sql.DB, clock application.Clock) *RecordRepository {
	return &RecordRepository{db: db, clock: clock}
}

// EnsureSchema creates the records table when it does not exist yet.
func (r *RecordRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS processed_records (
  seq BIGINT AUTO_INCREMENT PRIMARY KEY,
  id VARCHAR(64) NOT NULL UNIQUE,
  original_text TEXT NOT NULL,
  task_type VARCHAR(16) NOT NULL,
  processed_result JSON NOT NULL,
  created_at DATETIME(6) NOT NULL
);`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *RecordRepository) Save(ctx context.Context, originalText string, result any, task analysis.TaskType) (*records.Record, error) {
	rec := &records.Record{
		ID:           records.RecordID(uuid.NewString()),
		OriginalText: originalText,
		Result:       result,
		TaskType:     task,
		CreatedAt:    r.clock.Now().UTC(),
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal processed result: %w", err)
	}

	const q = `
INSERT INTO processed_records (id, original_text, task_type, processed_result, created_at)
VALUES (?,?,?,?,?);`
	if _, err := r.db.ExecContext(ctx, q, rec.ID, rec.OriginalText, rec.TaskType, payload, rec.CreatedAt); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *RecordRepository) GetAll(ctx context.Context) ([]*records.Record, error) {
	const q = `
SELECT id, original_text, task_type, processed_result, created_at
FROM processed_records ORDER BY seq ASC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*records.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecordRepository) GetByID(ctx context.Context, id records.RecordID) (*records.Record, error) {
	const q = `
SELECT id, original_text, task_type, processed_result, created_at
FROM processed_records WHERE id=? LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, records.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// scanRecord hydrates one row. processed_result comes back as a generic JSON
// value; the reporting side knows how to read both shapes.
func scanRecord(scan func(dest ...any) error) (*records.Record, error) {
	var rec records.Record
	var payload []byte
	if err := scan(&rec.ID, &rec.OriginalText, &rec.TaskType, &payload, &rec.CreatedAt); err != nil {
		return nil, err
	}
	var result any
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal processed result: %w", err)
	}
	rec.Result = result
	return &rec, nil
}
