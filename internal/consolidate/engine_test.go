package consolidate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/pubmap/areas-backend-go/internal/models"
)

// fakeStore is an in-memory Store. Fetches hand out copies so the engine
// works on a snapshot; updates mutate the backing records, which lets tests
// re-run the engine against its own output.
type fakeStore struct {
	mu       sync.Mutex
	venues   []*models.Venue
	fetchErr error
	failIDs  map[string]bool
	updates  int
}

func (f *fakeStore) FetchAllVenues(ctx context.Context) ([]*models.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*models.Venue, len(f.venues))
	for i, v := range f.venues {
		c := *v
		out[i] = &c
	}
	return out, f.fetchErr
}

func (f *fakeStore) UpdateVenue(ctx context.Context, id string, update models.VenueUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failIDs[id] {
		return errors.New("store rejected update")
	}
	for _, v := range f.venues {
		if v.ID == id {
			v.Area = update.Area
			if update.Borough != nil {
				v.Borough = *update.Borough
			}
			f.updates++
			return nil
		}
	}
	return fmt.Errorf("venue %s not found", id)
}

func (f *fakeStore) find(id string) *models.Venue {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.venues {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// bigSquareStore seeds the canonical scenario: five "Big Square" venues with
// borough Central, and one "Little Lane" venue about 0.5 km from the nearest
// of them.
func bigSquareStore() *fakeStore {
	venues := []*models.Venue{
		testVenue("little1", "Little Lane", "", 51.5000, -0.10),
	}
	for i := 0; i < 5; i++ {
		lat := 51.5045 + float64(i)*0.0005
		venues = append(venues, testVenue(fmt.Sprintf("big%d", i), "Big Square", "Central", lat, -0.10))
	}
	return &fakeStore{venues: venues}
}

func checkCompleteness(t *testing.T, report *Report) {
	t.Helper()
	if got := report.AccountedRecords(); got != report.TotalVenues {
		t.Errorf("accounted records = %d, want %d (every record must land in exactly one bucket)",
			got, report.TotalVenues)
	}
}

func TestEngineMergesSmallAreaIntoNearest(t *testing.T) {
	store := bigSquareStore()
	engine := NewEngine(store, Options{MinClusterSize: 3})

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.ClustersMerged != 1 || len(report.Decisions) != 1 {
		t.Fatalf("clusters merged = %d, want 1", report.ClustersMerged)
	}
	d := report.Decisions[0]
	if d.FromArea != "Little Lane" || d.ToArea != "Big Square" {
		t.Errorf("decision %q -> %q, want Little Lane -> Big Square", d.FromArea, d.ToArea)
	}
	if d.ToBorough == nil || *d.ToBorough != "Central" {
		t.Errorf("decision borough = %v, want Central", d.ToBorough)
	}

	if report.RecordsUpdated != 1 || report.RecordsFailed != 0 {
		t.Errorf("updated = %d, failed = %d, want 1/0", report.RecordsUpdated, report.RecordsFailed)
	}

	merged := store.find("little1")
	if merged.Area != "Big Square" {
		t.Errorf("venue area = %q, want Big Square", merged.Area)
	}
	if merged.Borough != "Central" {
		t.Errorf("venue borough = %q, want Central", merged.Borough)
	}

	checkCompleteness(t, report)
}

func TestEngineRangeGateRejectsWholeCluster(t *testing.T) {
	store := bigSquareStore()
	maxRange := 0.1
	engine := NewEngine(store, Options{MinClusterSize: 3, MaxRangeKm: &maxRange})

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(report.Decisions) != 0 {
		t.Fatalf("expected empty plan, got %d decisions", len(report.Decisions))
	}
	if report.SkippedRange != 1 {
		t.Errorf("skipped range records = %d, want 1", report.SkippedRange)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Reason != SkipRangeExceeded {
		t.Fatalf("skipped = %+v, want one %s entry", report.Skipped, SkipRangeExceeded)
	}

	if v := store.find("little1"); v.Area != "Little Lane" {
		t.Errorf("venue area = %q, want unchanged Little Lane", v.Area)
	}

	checkCompleteness(t, report)
}

func TestEngineIdempotence(t *testing.T) {
	store := bigSquareStore()

	first, err := NewEngine(store, Options{MinClusterSize: 3}).Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if first.ClustersMerged != 1 {
		t.Fatalf("first run merged %d clusters, want 1", first.ClustersMerged)
	}

	second, err := NewEngine(store, Options{MinClusterSize: 3}).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if second.ClustersMerged != 0 || second.RecordsToUpdate != 0 || len(second.Decisions) != 0 {
		t.Errorf("second run should produce an empty plan, got %d decisions", len(second.Decisions))
	}

	checkCompleteness(t, second)
}

func TestEngineDryRunWritesNothing(t *testing.T) {
	store := bigSquareStore()
	engine := NewEngine(store, Options{MinClusterSize: 3, DryRun: true})

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !report.DryRun {
		t.Error("report should be marked dry-run")
	}
	if report.ClustersMerged != 1 || report.RecordsToUpdate != 1 {
		t.Errorf("dry-run plan should still contain the merge, got %d/%d",
			report.ClustersMerged, report.RecordsToUpdate)
	}
	if report.RecordsUpdated != 0 || store.updates != 0 {
		t.Errorf("dry-run must not write, but %d updates were issued", store.updates)
	}
	if v := store.find("little1"); v.Area != "Little Lane" {
		t.Errorf("venue area = %q, want unchanged", v.Area)
	}
}

func TestEngineNoMajorClusters(t *testing.T) {
	store := &fakeStore{venues: []*models.Venue{
		testVenue("a1", "Alpha Corner", "", 51.50, -0.10),
		testVenue("b1", "Beta Row", "", 51.51, -0.11),
		testVenue("b2", "Beta Row", "", 51.512, -0.111),
	}}
	engine := NewEngine(store, Options{MinClusterSize: 3})

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(report.Decisions) != 0 {
		t.Fatalf("expected empty plan, got %d decisions", len(report.Decisions))
	}
	if report.SkippedNoCandidate != 3 {
		t.Errorf("no-candidate records = %d, want 3", report.SkippedNoCandidate)
	}
	for _, s := range report.Skipped {
		if s.Reason != SkipNoVotableMembers {
			t.Errorf("cluster %q skipped for %q, want %s", s.Area, s.Reason, SkipNoVotableMembers)
		}
	}

	checkCompleteness(t, report)
}

func TestEngineCountsPerRecordFailures(t *testing.T) {
	store := bigSquareStore()
	// A second small area next door, whose update the store rejects.
	store.venues = append(store.venues, testVenue("little2", "Tiny Close", "", 51.5010, -0.10))
	store.failIDs = map[string]bool{"little2": true}

	engine := NewEngine(store, Options{MinClusterSize: 3})
	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.ClustersMerged != 2 {
		t.Fatalf("clusters merged = %d, want 2", report.ClustersMerged)
	}
	if report.RecordsUpdated != 1 || report.RecordsFailed != 1 {
		t.Errorf("updated/failed = %d/%d, want 1/1: one failure must not block the rest",
			report.RecordsUpdated, report.RecordsFailed)
	}
	if v := store.find("little1"); v.Area != "Big Square" {
		t.Errorf("surviving update not applied: area = %q", v.Area)
	}
}

func TestEngineSkipsUnlabeledAndUnlocatedRecords(t *testing.T) {
	store := bigSquareStore()
	noLabel := testVenue("x1", "none", "", 51.50, -0.10)
	noCoords := &models.Venue{ID: "x2", Name: "The x2", Area: "Big Square"}
	store.venues = append(store.venues, noLabel, noCoords)

	report, err := NewEngine(store, Options{MinClusterSize: 3}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.SkippedNoLabel != 1 {
		t.Errorf("no-label records = %d, want 1", report.SkippedNoLabel)
	}
	if report.SkippedNoCoord != 1 {
		t.Errorf("no-coordinate records = %d, want 1", report.SkippedNoCoord)
	}
	if v := store.find("x1"); v.Area != "none" {
		t.Errorf("unlabeled venue must not be touched, area = %q", v.Area)
	}

	checkCompleteness(t, report)
}

func TestEnginePartialFetchContinues(t *testing.T) {
	store := bigSquareStore()
	store.fetchErr = errors.New("connection reset during pagination")

	report, err := NewEngine(store, Options{MinClusterSize: 3}).Run(context.Background())
	if err != nil {
		t.Fatalf("partial fetch should not fail the run: %v", err)
	}
	if report.FetchWarning == "" {
		t.Error("expected a fetch warning on the report")
	}
	if report.ClustersMerged != 1 {
		t.Errorf("engine should consolidate the partial set, merged = %d", report.ClustersMerged)
	}
}

func TestEngineEmptyFetchFails(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("store unreachable")}

	report, err := NewEngine(store, Options{}).Run(context.Background())
	if err == nil {
		t.Fatal("expected an error when no records could be fetched")
	}
	if report == nil || len(report.Decisions) != 0 {
		t.Error("expected an empty plan alongside the error")
	}
}

func TestEngineEmptyStore(t *testing.T) {
	store := &fakeStore{}

	report, err := NewEngine(store, Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report.TotalVenues != 0 || len(report.Decisions) != 0 {
		t.Errorf("empty store should yield an empty report, got %+v", report)
	}
}

func TestEngineCancelledBetweenUpdates(t *testing.T) {
	store := bigSquareStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewEngine(store, Options{MinClusterSize: 3}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if report.RecordsUpdated != 0 || store.updates != 0 {
		t.Errorf("no updates should be applied after cancellation, got %d", store.updates)
	}
}
