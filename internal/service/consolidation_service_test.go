package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pubmap/areas-backend-go/internal/consolidate"
	"github.com/pubmap/areas-backend-go/internal/models"
	"github.com/pubmap/areas-backend-go/internal/repository"
)

func TestRunSyncConsolidatesAndRecordsRun(t *testing.T) {
	db := newTestDB(t)
	venueRepo := repository.NewVenueRepository(db)
	runRepo := repository.NewRunRepository(db)

	// One small area next to an established one
	addVenue(t, venueRepo, "little1", "The Orphan", "", "Little Lane", "", 51.5000, -0.10)
	for i := 0; i < 5; i++ {
		addVenue(t, venueRepo, fmt.Sprintf("big%d", i), fmt.Sprintf("The Pub %d", i), "",
			"Big Square", "Southwark", 51.5045+float64(i)*0.0005, -0.10)
	}

	svc := NewConsolidationService(runRepo, venueRepo)
	report, err := svc.RunSync(context.Background(), consolidate.Options{MinClusterSize: 3}, "cli")
	if err != nil {
		t.Fatalf("RunSync() error: %v", err)
	}

	if report.ClustersMerged != 1 || report.RecordsUpdated != 1 {
		t.Fatalf("merged %d clusters, updated %d records, want 1/1", report.ClustersMerged, report.RecordsUpdated)
	}

	v, err := venueRepo.GetVenueByID("little1")
	if err != nil {
		t.Fatalf("GetVenueByID() error: %v", err)
	}
	if v.Area != "Big Square" || v.Borough != "Southwark" {
		t.Errorf("venue after run: area = %q, borough = %q, want Big Square/Southwark", v.Area, v.Borough)
	}

	runs, err := svc.ListRuns("", 10, 0)
	if err != nil {
		t.Fatalf("ListRuns() error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("listed %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.Status != models.RunStatusCompleted {
		t.Errorf("run status = %q, want completed", run.Status)
	}
	if run.TotalVenues != 6 || run.UpdatedVenues != 1 || run.FailedVenues != 0 {
		t.Errorf("run counts = %d/%d/%d, want 6/1/0", run.TotalVenues, run.UpdatedVenues, run.FailedVenues)
	}
	if !strings.Contains(run.ResultSummary, `"clusters_merged":1`) {
		t.Errorf("result summary missing merge count: %s", run.ResultSummary)
	}
	if run.CreatedBy != "cli" {
		t.Errorf("created by = %q, want cli", run.CreatedBy)
	}
}

func TestRunSyncDryRunLeavesStoreUntouched(t *testing.T) {
	db := newTestDB(t)
	venueRepo := repository.NewVenueRepository(db)
	runRepo := repository.NewRunRepository(db)

	addVenue(t, venueRepo, "little1", "The Orphan", "", "Little Lane", "", 51.5000, -0.10)
	for i := 0; i < 3; i++ {
		addVenue(t, venueRepo, fmt.Sprintf("big%d", i), fmt.Sprintf("The Pub %d", i), "",
			"Big Square", "Southwark", 51.5045+float64(i)*0.0005, -0.10)
	}

	svc := NewConsolidationService(runRepo, venueRepo)
	report, err := svc.RunSync(context.Background(), consolidate.Options{MinClusterSize: 3, DryRun: true}, "cli")
	if err != nil {
		t.Fatalf("RunSync() error: %v", err)
	}
	if report.RecordsToUpdate != 1 || report.RecordsUpdated != 0 {
		t.Errorf("dry-run report: to update %d, updated %d, want 1/0", report.RecordsToUpdate, report.RecordsUpdated)
	}

	v, err := venueRepo.GetVenueByID("little1")
	if err != nil {
		t.Fatalf("GetVenueByID() error: %v", err)
	}
	if v.Area != "Little Lane" {
		t.Errorf("dry-run changed the store: area = %q", v.Area)
	}

	runs, err := svc.ListRuns("", 1, 0)
	if err != nil || len(runs) == 0 {
		t.Fatalf("failed to find the recorded run: %v", err)
	}
	run := runs[0]
	if run.Status != models.RunStatusCompleted || !run.DryRun {
		t.Errorf("run = status %q, dry-run %v", run.Status, run.DryRun)
	}
}
