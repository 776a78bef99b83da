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

const catalogSnapshotSchema = `CREATE TABLE IF NOT EXISTS catalog_snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	version TEXT NOT NULL,
	source TEXT NOT NULL,
	fetched_at TIMESTAMP NOT NULL,
	payload BLOB NOT NULL
)`

// CatalogSnapshotRepository keeps recent feed documents in a local sqlite file so the service can
// start without reaching the feed.
type CatalogSnapshotRepository struct {
	db   *sqlx.DB
	keep int
}

// NewCatalogSnapshotRepository constructs the repository keeping the newest keep snapshots.
func NewCatalogSnapshotRepository(db *sqlx.DB, keep int) *CatalogSnapshotRepository {
	if keep <= 0 {
		keep = 3
	}
	return &CatalogSnapshotRepository{db: db, keep: keep}
}

// Migrate creates the snapshot table.
func (r *CatalogSnapshotRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, catalogSnapshotSchema); err != nil {
		return fmt.Errorf("migrate catalog snapshots: %w", err)
	}
	return nil
}

// Save stores a snapshot unless the newest one already has the same version, then prunes old rows.
func (r *CatalogSnapshotRepository) Save(ctx context.Context, snapshot *models.CatalogSnapshot) error {
	if latest, err := r.Latest(ctx); err == nil && latest.Version == snapshot.Version {
		snapshot.ID = latest.ID
		return nil
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now().UTC()
	}
	const query = `INSERT INTO catalog_snapshots (version, source, fetched_at, payload) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, snapshot.Version, snapshot.Source, snapshot.FetchedAt, snapshot.Payload)
	if err != nil {
		return fmt.Errorf("insert catalog snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snapshot.ID = id
	}
	const prune = `DELETE FROM catalog_snapshots WHERE id NOT IN (SELECT id FROM catalog_snapshots ORDER BY id DESC LIMIT ?)`
	if _, err := r.db.ExecContext(ctx, prune, r.keep); err != nil {
		return fmt.Errorf("prune catalog snapshots: %w", err)
	}
	return nil
}

// Latest returns the newest snapshot or ErrNotFound.
func (r *CatalogSnapshotRepository) Latest(ctx context.Context) (*models.CatalogSnapshot, error) {
	const query = `SELECT id, version, source, fetched_at, payload FROM catalog_snapshots ORDER BY id DESC LIMIT 1`
	var snapshot models.CatalogSnapshot
	if err := r.db.GetContext(ctx, &snapshot, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no catalog snapshot stored")
		}
		return nil, fmt.Errorf("load catalog snapshot: %w", err)
	}
	return &snapshot, nil
}
