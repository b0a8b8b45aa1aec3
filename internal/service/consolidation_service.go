package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/pubmap/areas-backend-go/internal/consolidate"
	"github.com/pubmap/areas-backend-go/internal/models"
	"github.com/pubmap/areas-backend-go/internal/repository"
)

// ConsolidationService launches and tracks area consolidation runs
type ConsolidationService struct {
	runs   *repository.RunRepository
	venues *repository.VenueRepository
}

// NewConsolidationService creates a new consolidation service
func NewConsolidationService(runs *repository.RunRepository, venues *repository.VenueRepository) *ConsolidationService {
	return &ConsolidationService{runs: runs, venues: venues}
}

// StartRun records a new consolidation run and executes it asynchronously
func (s *ConsolidationService) StartRun(opts consolidate.Options, createdBy string) (*models.ConsolidationRun, error) {
	run := &models.ConsolidationRun{
		MinClusterSize: opts.MinClusterSize,
		MaxRangeKm:     opts.MaxRangeKm,
		DryRun:         opts.DryRun,
		Status:         models.RunStatusPending,
		CreatedBy:      createdBy,
	}
	if run.MinClusterSize <= 0 {
		run.MinClusterSize = 3
	}

	if err := s.runs.Create(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	go s.execute(context.Background(), run.ID, opts)

	return run, nil
}

// RunSync executes a consolidation run inline and returns its report.
// Used by the CLI, which wants the summary on stdout before exiting.
func (s *ConsolidationService) RunSync(ctx context.Context, opts consolidate.Options, createdBy string) (*consolidate.Report, error) {
	run := &models.ConsolidationRun{
		MinClusterSize: opts.MinClusterSize,
		MaxRangeKm:     opts.MaxRangeKm,
		DryRun:         opts.DryRun,
		Status:         models.RunStatusPending,
		CreatedBy:      createdBy,
	}
	if run.MinClusterSize <= 0 {
		run.MinClusterSize = 3
	}

	if err := s.runs.Create(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return s.execute(ctx, run.ID, opts)
}

// execute drives one engine run and records its outcome on the run row
func (s *ConsolidationService) execute(ctx context.Context, runID int64, opts consolidate.Options) (*consolidate.Report, error) {
	log.Printf("Starting consolidation run %d (minClusterSize: %d, dryRun: %v)", runID, opts.MinClusterSize, opts.DryRun)

	if err := s.runs.MarkAsRunning(runID); err != nil {
		log.Printf("Failed to mark run %d as running: %v", runID, err)
	}

	engine := consolidate.NewEngine(s.venues, opts)
	report, err := engine.Run(ctx)
	if err != nil {
		log.Printf("Consolidation run %d failed: %v", runID, err)
		if markErr := s.runs.MarkAsFailed(runID, err.Error()); markErr != nil {
			log.Printf("Failed to mark run %d as failed: %v", runID, markErr)
		}
		return report, err
	}

	summaryJSON, jsonErr := json.Marshal(report)
	if jsonErr != nil {
		summaryJSON = []byte("{}")
		log.Printf("Failed to serialize report for run %d: %v", runID, jsonErr)
	}

	if err := s.runs.MarkAsCompleted(runID, string(summaryJSON), report.TotalVenues, report.RecordsUpdated, report.RecordsFailed); err != nil {
		log.Printf("Failed to mark run %d as completed: %v", runID, err)
	}

	log.Printf("Consolidation run %d completed: %d clusters merged, %d skipped, %d records updated, %d failed",
		runID, report.ClustersMerged, report.ClustersSkipped, report.RecordsUpdated, report.RecordsFailed)

	return report, nil
}

// GetRun retrieves a run by ID
func (s *ConsolidationService) GetRun(id int64) (*models.ConsolidationRun, error) {
	return s.runs.GetByID(id)
}

// ListRuns retrieves runs with an optional status filter
func (s *ConsolidationService) ListRuns(status string, limit, offset int) ([]*models.ConsolidationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.runs.List(status, limit, offset)
}
