package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pubmap/areas-backend-go/internal/config"
	"github.com/pubmap/areas-backend-go/internal/consolidate"
	"github.com/pubmap/areas-backend-go/internal/database"
	"github.com/pubmap/areas-backend-go/internal/models"
	"github.com/pubmap/areas-backend-go/internal/repository"
	"github.com/pubmap/areas-backend-go/internal/service"
)

var cfg *config.Config

func main() {
	cfg = config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	rootCmd := &cobra.Command{
		Use:   "areatool",
		Short: "Offline maintenance for the pub area map",
		Long:  `Batch tooling over the venue store: merge small areas into nearby larger ones, inspect area statistics, and import venue data.`,
	}

	rootCmd.AddCommand(createConsolidateCmd())
	rootCmd.AddCommand(createStatsCmd())
	rootCmd.AddCommand(createImportCmd())
	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// createConsolidateCmd creates the consolidate subcommand
func createConsolidateCmd() *cobra.Command {
	var (
		minPubs int
		rangeKm float64
		dryRun  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Merge small areas into the nearest larger areas",
		Long: `Identifies areas with fewer venues than the threshold and merges them into
the nearest area at or above it. Borough labels follow the destination area
so areas are not split across boroughs.`,
		Run: func(cmd *cobra.Command, args []string) {
			opts := consolidate.Options{
				MinClusterSize: minPubs,
				DryRun:         dryRun,
				Workers:        workers,
			}
			if rangeKm > 0 {
				opts.MaxRangeKm = &rangeKm
			} else if cfg.MaxRangeKm != nil {
				opts.MaxRangeKm = cfg.MaxRangeKm
			}

			db := database.GetDB()
			svc := service.NewConsolidationService(
				repository.NewRunRepository(db),
				repository.NewVenueRepository(db),
			)

			report, err := svc.RunSync(context.Background(), opts, "areatool")
			if err != nil {
				log.Fatalf("Consolidation failed: %v", err)
			}

			fmt.Print(report.Render())
			if dryRun {
				fmt.Println("Dry run: no changes were written. Re-run without --dry-run to apply.")
			}
		},
	}

	cmd.Flags().IntVar(&minPubs, "min-pubs", 3, "Minimum venues for an area to be considered large")
	cmd.Flags().Float64Var(&rangeKm, "range", 0, "Maximum merge distance in km (0 = no limit)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the merge plan without updating the store")
	cmd.Flags().IntVar(&workers, "workers", 0, "Nearest-neighbour search workers (0 = default)")

	return cmd
}

// createStatsCmd creates the stats subcommand
func createStatsCmd() *cobra.Command {
	var (
		minPubs int
		sortBy  string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show venue counts by borough and area",
		Run: func(cmd *cobra.Command, args []string) {
			svc := service.NewStatsService(repository.NewVenueRepository(database.GetDB()))

			stats, err := svc.AreaStatistics(context.Background(), minPubs, sortBy)
			if err != nil {
				log.Fatalf("Failed to compute statistics: %v", err)
			}

			fmt.Printf("Total venues: %d\n\n", stats.TotalVenues)
			for _, b := range stats.Boroughs {
				marker := ""
				if !b.Valid {
					marker = " (not a London borough)"
				}
				fmt.Printf("%s%s: %d venues\n", b.Borough, marker, b.VenueCount)
				for _, a := range b.Areas {
					fmt.Printf("   %-40s %d\n", a.Area, a.VenueCount)
				}
			}
			fmt.Printf("\nMissing area: %d, missing borough: %d\n", stats.MissingArea, stats.MissingBorough)
			if len(stats.Resolvable) > 0 {
				fmt.Printf("Venues resolvable by postcode lookup: %d\n", len(stats.Resolvable))
			}
		},
	}

	cmd.Flags().IntVar(&minPubs, "min-pubs", 0, "Only show areas with at least this many venues")
	cmd.Flags().StringVar(&sortBy, "sort-by", "name", "Sort areas by 'name' or 'count'")

	return cmd
}

// createImportCmd creates the import subcommand
func createImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import venues from a JSON export",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				log.Fatalf("Failed to read %s: %v", args[0], err)
			}

			var venues []*models.Venue
			if err := json.Unmarshal(data, &venues); err != nil {
				log.Fatalf("Failed to parse %s: %v", args[0], err)
			}

			repo := repository.NewVenueRepository(database.GetDB())
			imported, failed := 0, 0
			for _, v := range venues {
				if v.ID == "" {
					v.ID = uuid.NewString()
				}
				if err := repo.CreateVenue(v); err != nil {
					failed++
					log.Printf("Failed to import venue %q: %v", v.Name, err)
					continue
				}
				imported++
			}

			fmt.Printf("Imported %d venues (%d failed)\n", imported, failed)
		},
	}
}

// createPingCmd creates a command to test store connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test store connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			var count int
			err := database.GetDB().QueryRow("SELECT COUNT(*) FROM venues").Scan(&count)
			if err != nil {
				log.Fatalf("Store check failed: %v", err)
			}
			fmt.Printf("Store reachable, %d venues loaded\n", count)
		},
	}
}
