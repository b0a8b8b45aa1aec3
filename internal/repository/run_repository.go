package repository

import (
	"database/sql"
	"fmt"

	"github.com/pubmap/areas-backend-go/internal/models"
)

// RunRepository handles database operations for consolidation runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new consolidation run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create creates a new consolidation run record
func (r *RunRepository) Create(run *models.ConsolidationRun) error {
	query := `
		INSERT INTO consolidation_runs (
			min_cluster_size, max_range_km, dry_run, status,
			total_venues, updated_venues, failed_venues, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		run.MinClusterSize,
		run.MaxRangeKm,
		run.DryRun,
		run.Status,
		run.TotalVenues,
		run.UpdatedVenues,
		run.FailedVenues,
		run.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create consolidation run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = id
	return nil
}

// GetByID retrieves a consolidation run by ID
func (r *RunRepository) GetByID(id int64) (*models.ConsolidationRun, error) {
	query := `
		SELECT id, min_cluster_size, max_range_km, dry_run, status,
			   total_venues, updated_venues, failed_venues,
			   result_summary, error_message, created_by,
			   created_at, updated_at, started_at, completed_at
		FROM consolidation_runs
		WHERE id = ?
	`

	run, err := r.scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("consolidation run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get consolidation run: %w", err)
	}
	return run, nil
}

// List retrieves consolidation runs, newest first, with optional status filter
func (r *RunRepository) List(status string, limit, offset int) ([]*models.ConsolidationRun, error) {
	query := `
		SELECT id, min_cluster_size, max_range_km, dry_run, status,
			   total_venues, updated_venues, failed_venues,
			   result_summary, error_message, created_by,
			   created_at, updated_at, started_at, completed_at
		FROM consolidation_runs
	`
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list consolidation runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ConsolidationRun
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan consolidation run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// MarkAsRunning marks a run as running
func (r *RunRepository) MarkAsRunning(id int64) error {
	query := `
		UPDATE consolidation_runs
		SET status = 'running',
		    started_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, id)
	return err
}

// MarkAsCompleted marks a run as completed and stores its result summary
func (r *RunRepository) MarkAsCompleted(id int64, summaryJSON string, total, updated, failed int) error {
	query := `
		UPDATE consolidation_runs
		SET status = 'completed',
		    result_summary = ?,
		    total_venues = ?,
		    updated_venues = ?,
		    failed_venues = ?,
		    completed_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, summaryJSON, total, updated, failed, id)
	return err
}

// MarkAsFailed marks a run as failed with an error message
func (r *RunRepository) MarkAsFailed(id int64, errorMsg string) error {
	query := `
		UPDATE consolidation_runs
		SET status = 'failed',
		    error_message = ?,
		    completed_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, errorMsg, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *RunRepository) scanRun(row rowScanner) (*models.ConsolidationRun, error) {
	var (
		run                    models.ConsolidationRun
		maxRange               sql.NullFloat64
		summary, errMsg, by    sql.NullString
		startedAt, completedAt sql.NullTime
	)

	err := row.Scan(
		&run.ID, &run.MinClusterSize, &maxRange, &run.DryRun, &run.Status,
		&run.TotalVenues, &run.UpdatedVenues, &run.FailedVenues,
		&summary, &errMsg, &by,
		&run.CreatedAt, &run.UpdatedAt, &startedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if maxRange.Valid {
		run.MaxRangeKm = &maxRange.Float64
	}
	run.ResultSummary = summary.String
	run.ErrorMessage = errMsg.String
	run.CreatedBy = by.String
	if startedAt.Valid {
		run.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return &run, nil
}
