package models

import "time"

// ConsolidationRun represents one execution of the area consolidation engine
type ConsolidationRun struct {
	ID int64 `json:"id" db:"id"`

	// Parameters the run was launched with
	MinClusterSize int      `json:"min_cluster_size" db:"min_cluster_size"`
	MaxRangeKm     *float64 `json:"max_range_km,omitempty" db:"max_range_km"`
	DryRun         bool     `json:"dry_run" db:"dry_run"`

	// Status
	Status string `json:"status" db:"status"` // pending, running, completed, failed

	// Execution info
	TotalVenues   int `json:"total_venues" db:"total_venues"`
	UpdatedVenues int `json:"updated_venues" db:"updated_venues"`
	FailedVenues  int `json:"failed_venues" db:"failed_venues"`

	// Results
	ResultSummary string `json:"result_summary,omitempty" db:"result_summary"` // JSON report
	ErrorMessage  string `json:"error_message,omitempty" db:"error_message"`

	// Metadata
	CreatedBy   string     `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// RunStatus constants
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// IsTerminal reports whether the run has finished (successfully or not)
func (r *ConsolidationRun) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
