package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

// FilterStateRepository persists serialized filter state per profile and scope.
type FilterStateRepository struct {
	db *sqlx.DB
}

// NewFilterStateRepository constructs the repository.
func NewFilterStateRepository(db *sqlx.DB) *FilterStateRepository {
	return &FilterStateRepository{db: db}
}

// Get returns the stored state or ErrNotFound.
func (r *FilterStateRepository) Get(ctx context.Context, profileID string, scope models.FilterScope) (*models.FilterStateRecord, error) {
	const query = `SELECT profile_id, scope, payload, updated_at FROM planner_filter_states WHERE profile_id = $1 AND scope = $2`
	var record models.FilterStateRecord
	if err := r.db.GetContext(ctx, &record, query, profileID, scope); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "filter state not found")
		}
		return nil, fmt.Errorf("get filter state: %w", err)
	}
	return &record, nil
}

// Upsert stores the state for the record's profile and scope.
func (r *FilterStateRepository) Upsert(ctx context.Context, record *models.FilterStateRecord) error {
	const query = `INSERT INTO planner_filter_states (profile_id, scope, payload, updated_at)
VALUES (:profile_id, :scope, :payload, :updated_at)
ON CONFLICT (profile_id, scope)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	record.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert filter state: %w", err)
	}
	return nil
}
