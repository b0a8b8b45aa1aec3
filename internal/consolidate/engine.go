package consolidate

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/pubmap/areas-backend-go/internal/cluster"
	"github.com/pubmap/areas-backend-go/internal/models"
)

// Store is the engine's view of the venue store. The consolidation logic
// itself only ever touches in-memory data; all I/O goes through here.
type Store interface {
	// FetchAllVenues pages through the whole store. A non-empty slice
	// returned alongside an error means pagination failed midway; the engine
	// proceeds with the partial result.
	FetchAllVenues(ctx context.Context) ([]*models.Venue, error)

	// UpdateVenue applies a partial field update to a single venue
	UpdateVenue(ctx context.Context, id string, update models.VenueUpdate) error
}

// Options is the full configuration surface of a consolidation run
type Options struct {
	// MinClusterSize is the member count at which an area counts as major
	MinClusterSize int
	// MaxRangeKm rejects a whole cluster when any member's distance to the
	// chosen destination exceeds it. Nil means unlimited.
	MaxRangeKm *float64
	// DryRun builds and reports the plan without writing anything
	DryRun bool
	// Workers bounds the nearest-candidate search pool
	Workers int
}

const defaultWorkers = 4

// Engine performs one batch consolidation pass over the venue store
type Engine struct {
	store Store
	opts  Options
}

// NewEngine creates a consolidation engine bound to a store
func NewEngine(store Store, opts Options) *Engine {
	if opts.MinClusterSize <= 0 {
		opts.MinClusterSize = cluster.DefaultMinClusterSize
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Engine{store: store, opts: opts}
}

// Run executes a full consolidation pass: fetch, cluster, classify, plan,
// and apply (unless dry-run). The returned report accounts for every fetched
// record. A fetch error with zero records ends the run with an empty plan.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	report := &Report{DryRun: e.opts.DryRun}

	venues, err := e.store.FetchAllVenues(ctx)
	if err != nil {
		if len(venues) == 0 {
			report.FetchWarning = fmt.Sprintf("fetch failed with no records: %v", err)
			return report, fmt.Errorf("failed to fetch venues: %w", err)
		}
		// Partial-result policy: keep what we collected and warn.
		report.FetchWarning = fmt.Sprintf("fetch truncated after %d records: %v", len(venues), err)
		log.Printf("Warning: %s", report.FetchWarning)
	}
	report.TotalVenues = len(venues)
	if len(venues) == 0 {
		return report, nil
	}

	built := cluster.Build(venues)
	report.SkippedNoLabel = len(built.SkippedNoLabel)
	report.SkippedNoCoord = len(built.SkippedNoCoord)
	report.DistinctAreas = len(built.Clusters)

	minor, major := cluster.Partition(built.Clusters, e.opts.MinClusterSize)
	report.MinorClusters = len(minor)
	report.MajorClusters = len(major)
	for _, members := range major {
		report.RecordsRetained += len(members)
	}

	candidates := newCandidateSet(major)

	for _, area := range cluster.SortedLabels(minor) {
		members := minor[area]

		votes := e.collectVotes(members, candidates)
		report.SkippedNoCandidate += len(members) - len(votes)

		decision, skip := planCluster(area, members, votes, candidates, e.opts.MaxRangeKm)
		if skip != nil {
			if skip.Reason == SkipRangeExceeded {
				report.SkippedRange += skip.VenueCount
			}
			report.Skipped = append(report.Skipped, *skip)
			report.ClustersSkipped++
			continue
		}

		report.Decisions = append(report.Decisions, *decision)
		report.ClustersMerged++
		report.RecordsToUpdate += decision.Count
	}

	if e.opts.DryRun {
		return report, nil
	}

	if err := e.apply(ctx, report); err != nil {
		return report, err
	}
	return report, nil
}

// collectVotes finds the nearest major-cluster venue for every member of a
// minor cluster. The search fans out over a bounded worker pool; results are
// written by member position, so execution order never affects the outcome.
func (e *Engine) collectVotes(members []*models.Venue, candidates *candidateSet) []vote {
	results := make([]vote, len(members))
	found := make([]bool, len(members))

	workers := e.opts.Workers
	if workers > len(members) {
		workers = len(members)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				target, dist, ok := candidates.nearest(members[i])
				if ok {
					results[i] = vote{member: members[i], target: target, distance: dist}
					found[i] = true
				}
			}
		}()
	}
	for i := range members {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	votes := make([]vote, 0, len(members))
	for i := range members {
		if found[i] {
			votes = append(votes, results[i])
		}
	}
	return votes
}

// apply executes the plan against the store, one update per venue. A failed
// update counts against the record and never blocks the rest of the plan;
// cancellation between updates leaves applied ones committed.
func (e *Engine) apply(ctx context.Context, report *Report) error {
	for _, decision := range report.Decisions {
		log.Printf("Merging area %q into %q (%d venues)", decision.FromArea, decision.ToArea, decision.Count)

		for _, v := range decision.Venues {
			if err := ctx.Err(); err != nil {
				return err
			}

			update := models.VenueUpdate{
				Area:    decision.ToArea,
				Borough: decision.ToBorough,
			}
			if err := e.store.UpdateVenue(ctx, v.ID, update); err != nil {
				report.RecordsFailed++
				log.Printf("Failed to update venue %s: %v", v.ID, err)
				continue
			}
			report.RecordsUpdated++
		}
	}
	return nil
}
