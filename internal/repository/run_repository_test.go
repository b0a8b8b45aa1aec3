package repository

import (
	"testing"

	"github.com/pubmap/areas-backend-go/internal/models"
)

func TestRunRepositoryLifecycle(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	maxRange := 2.5
	run := &models.ConsolidationRun{
		MinClusterSize: 3,
		MaxRangeKm:     &maxRange,
		DryRun:         false,
		Status:         models.RunStatusPending,
		CreatedBy:      "admin",
	}
	if err := repo.Create(run); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("Create() did not populate the run id")
	}

	got, err := repo.GetByID(run.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.RunStatusPending || got.MinClusterSize != 3 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.MaxRangeKm == nil || *got.MaxRangeKm != 2.5 {
		t.Errorf("max range = %v, want 2.5", got.MaxRangeKm)
	}
	if got.StartedAt != nil || got.CompletedAt != nil {
		t.Error("pending run should have no started/completed timestamps")
	}

	if err := repo.MarkAsRunning(run.ID); err != nil {
		t.Fatalf("MarkAsRunning() error: %v", err)
	}
	got, err = repo.GetByID(run.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.RunStatusRunning || got.StartedAt == nil {
		t.Errorf("running run = status %q, started %v", got.Status, got.StartedAt)
	}

	if err := repo.MarkAsCompleted(run.ID, `{"total_venues":10}`, 10, 4, 1); err != nil {
		t.Fatalf("MarkAsCompleted() error: %v", err)
	}
	got, err = repo.GetByID(run.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.RunStatusCompleted || got.CompletedAt == nil {
		t.Errorf("completed run = status %q, completed %v", got.Status, got.CompletedAt)
	}
	if got.TotalVenues != 10 || got.UpdatedVenues != 4 || got.FailedVenues != 1 {
		t.Errorf("counts = %d/%d/%d, want 10/4/1", got.TotalVenues, got.UpdatedVenues, got.FailedVenues)
	}
	if got.ResultSummary == "" {
		t.Error("result summary not stored")
	}
	if !got.IsTerminal() {
		t.Error("completed run should be terminal")
	}
}

func TestRunRepositoryMarkAsFailed(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	run := &models.ConsolidationRun{MinClusterSize: 3, Status: models.RunStatusPending}
	if err := repo.Create(run); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := repo.MarkAsFailed(run.ID, "store unreachable"); err != nil {
		t.Fatalf("MarkAsFailed() error: %v", err)
	}
	got, err := repo.GetByID(run.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != models.RunStatusFailed || got.ErrorMessage != "store unreachable" {
		t.Errorf("failed run = status %q, error %q", got.Status, got.ErrorMessage)
	}
}

func TestRunRepositoryList(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		run := &models.ConsolidationRun{MinClusterSize: 3, Status: models.RunStatusPending}
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		if i == 0 {
			if err := repo.MarkAsFailed(run.ID, "boom"); err != nil {
				t.Fatalf("MarkAsFailed() error: %v", err)
			}
		}
	}

	runs, err := repo.List("", 10, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("listed %d runs, want 3", len(runs))
	}

	failed, err := repo.List(models.RunStatusFailed, 10, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(failed) != 1 || failed[0].Status != models.RunStatusFailed {
		t.Errorf("status filter returned %d runs", len(failed))
	}
}

func TestRunRepositoryGetByIDMissing(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	if _, err := repo.GetByID(999); err == nil {
		t.Fatal("expected an error for a missing run")
	}
}
