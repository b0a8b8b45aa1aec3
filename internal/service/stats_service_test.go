package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/pubmap/areas-backend-go/internal/database"
	"github.com/pubmap/areas-backend-go/internal/models"
	"github.com/pubmap/areas-backend-go/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func addVenue(t *testing.T, repo *repository.VenueRepository, id, name, address, area, borough string, lat, lon float64) {
	t.Helper()
	v := &models.Venue{
		ID: id, Name: name, Address: address, Area: area, Borough: borough,
		Lat: &lat, Lon: &lon,
	}
	if err := repo.CreateVenue(v); err != nil {
		t.Fatalf("failed to create venue %s: %v", id, err)
	}
}

func TestAreaStatistics(t *testing.T) {
	repo := repository.NewVenueRepository(newTestDB(t))
	addVenue(t, repo, "v1", "The Pineapple", "51 Leverton St", "Kentish Town", "Camden", 51.55, -0.14)
	addVenue(t, repo, "v2", "The Southampton Arms", "139 Highgate Rd", "Kentish Town", "Camden", 51.55, -0.14)
	addVenue(t, repo, "v3", "The Lamb", "94 Lamb's Conduit St", "Bloomsbury", "Camden", 51.52, -0.12)
	addVenue(t, repo, "v4", "The Mayflower", "117 Rotherhithe St", "Rotherhithe", "Somewheretown", 51.50, -0.05)
	addVenue(t, repo, "v5", "The Anchor", "34 Park St, London SE1 9EF", "none", "Southwark", 51.51, -0.09)
	addVenue(t, repo, "v6", "The Wanderer", "no fixed address", "", "", 51.51, -0.09)
	addVenue(t, repo, "v7", "The Orphan", "Somewhere", "Borough Market", "", 51.50, -0.09)

	svc := NewStatsService(repo)
	stats, err := svc.AreaStatistics(context.Background(), 0, SortByCount)
	if err != nil {
		t.Fatalf("AreaStatistics() error: %v", err)
	}

	if stats.TotalVenues != 7 {
		t.Errorf("total venues = %d, want 7", stats.TotalVenues)
	}
	if stats.MissingArea != 2 {
		t.Errorf("missing area = %d, want 2", stats.MissingArea)
	}
	if stats.MissingBorough != 1 {
		t.Errorf("missing borough = %d, want 1", stats.MissingBorough)
	}

	// Area-less venue with a postcode in its address is flagged resolvable
	if len(stats.Resolvable) != 1 || stats.Resolvable[0].ID != "v5" || stats.Resolvable[0].Postcode != "SE1 9EF" {
		t.Errorf("resolvable = %+v, want v5 with SE1 9EF", stats.Resolvable)
	}

	if len(stats.InvalidBoroughs) != 1 || stats.InvalidBoroughs[0] != "Somewheretown" {
		t.Errorf("invalid boroughs = %v, want [Somewheretown]", stats.InvalidBoroughs)
	}

	if len(stats.Boroughs) != 2 {
		t.Fatalf("boroughs = %d, want 2 (Camden, Somewheretown)", len(stats.Boroughs))
	}
	camden := stats.Boroughs[0]
	if camden.Borough != "Camden" || !camden.Valid || camden.VenueCount != 3 {
		t.Errorf("camden stats = %+v", camden)
	}
	// Sorted by descending count: Kentish Town (2) before Bloomsbury (1)
	if len(camden.Areas) != 2 || camden.Areas[0].Area != "Kentish Town" || camden.Areas[0].VenueCount != 2 {
		t.Errorf("camden areas = %+v", camden.Areas)
	}
	if other := stats.Boroughs[1]; other.Valid {
		t.Errorf("%q should not be a valid London borough", other.Borough)
	}
}

func TestAreaStatisticsMinVenuesFilter(t *testing.T) {
	repo := repository.NewVenueRepository(newTestDB(t))
	addVenue(t, repo, "v1", "The Pineapple", "", "Kentish Town", "Camden", 51.55, -0.14)
	addVenue(t, repo, "v2", "The Southampton Arms", "", "Kentish Town", "Camden", 51.55, -0.14)
	addVenue(t, repo, "v3", "The Lamb", "", "Bloomsbury", "Camden", 51.52, -0.12)

	svc := NewStatsService(repo)
	stats, err := svc.AreaStatistics(context.Background(), 2, SortByName)
	if err != nil {
		t.Fatalf("AreaStatistics() error: %v", err)
	}

	camden := stats.Boroughs[0]
	if len(camden.Areas) != 1 || camden.Areas[0].Area != "Kentish Town" {
		t.Errorf("filtered areas = %+v, want only Kentish Town", camden.Areas)
	}
	// The filter hides small areas but the borough count still covers them
	if camden.VenueCount != 3 {
		t.Errorf("camden venue count = %d, want 3", camden.VenueCount)
	}
}
