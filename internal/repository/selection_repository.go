package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-planner-api/internal/models"
)

// SelectionRepository persists planner course selections per profile.
type SelectionRepository struct {
	db *sqlx.DB
}

// NewSelectionRepository constructs the repository.
func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// ListByProfile returns the stored selections in planner order.
func (r *SelectionRepository) ListByProfile(ctx context.Context, profileID string) ([]models.SelectionRecord, error) {
	const query = `SELECT profile_id, course_id, section_number, computed_term, is_required, position, updated_at
FROM planner_selections WHERE profile_id = $1 ORDER BY position ASC`
	var records []models.SelectionRecord
	if err := r.db.SelectContext(ctx, &records, query, profileID); err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return records, nil
}

// ReplaceAll overwrites the stored selections of a profile within a transaction.
func (r *SelectionRepository) ReplaceAll(ctx context.Context, profileID string, records []models.SelectionRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin selections tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM planner_selections WHERE profile_id = $1`, profileID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear selections: %w", err)
	}
	const insert = `INSERT INTO planner_selections (profile_id, course_id, section_number, computed_term, is_required, position, updated_at)
VALUES (:profile_id, :course_id, :section_number, :computed_term, :is_required, :position, :updated_at)`
	now := time.Now().UTC()
	for i := range records {
		records[i].ProfileID = profileID
		records[i].Position = i
		records[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insert, records[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert selection: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit selections tx: %w", err)
	}
	return nil
}
