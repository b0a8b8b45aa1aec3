package consolidate

import (
	"fmt"
	"strings"

	"github.com/pubmap/areas-backend-go/internal/models"
)

// Skip reasons for clusters that could not be merged
const (
	SkipNoCandidate      = "no-candidate"
	SkipRangeExceeded    = "range-exceeded"
	SkipNoVotableMembers = "no-votable-members"
)

// MergeDecision is the planned re-labeling of one minor cluster into a major
// cluster. It lives for the duration of a single run.
type MergeDecision struct {
	FromArea  string   `json:"from_area"`
	ToArea    string   `json:"to_area"`
	ToBorough *string  `json:"to_borough,omitempty"`

	Venues    []*models.Venue `json:"-"`
	VenueIDs  []string        `json:"venue_ids"`
	Count     int             `json:"count"`

	// Distance of each member to its nearest venue in the destination
	// cluster, aligned with Venues
	Distances     []float64 `json:"distances_km"`
	AvgDistanceKm float64   `json:"avg_distance_km"`
	MaxDistanceKm float64   `json:"max_distance_km"`
}

// SkippedCluster records a minor cluster the planner could not merge
type SkippedCluster struct {
	Area       string `json:"area"`
	Reason     string `json:"reason"`
	VenueCount int    `json:"venue_count"`
	Detail     string `json:"detail,omitempty"`
}

// Report is the structured outcome of one consolidation run. Its counts
// account for every fetched record: merged, skipped (by reason), failed and
// retained major-cluster members sum to TotalVenues.
type Report struct {
	DryRun bool `json:"dry_run"`

	TotalVenues   int `json:"total_venues"`
	DistinctAreas int `json:"distinct_areas"`
	MajorClusters int `json:"major_clusters"`
	MinorClusters int `json:"minor_clusters"`

	Decisions []MergeDecision  `json:"decisions"`
	Skipped   []SkippedCluster `json:"skipped"`

	ClustersMerged  int `json:"clusters_merged"`
	ClustersSkipped int `json:"clusters_skipped"`

	RecordsToUpdate int `json:"records_to_update"`
	RecordsUpdated  int `json:"records_updated"`
	RecordsFailed   int `json:"records_failed"`

	// Per-record exclusion counts. Members of a cluster skipped for
	// no-votable-members are all no-candidate records, so that reason only
	// appears at cluster level in Skipped.
	SkippedNoLabel     int `json:"skipped_no_label"`
	SkippedNoCoord     int `json:"skipped_no_coordinates"`
	SkippedNoCandidate int `json:"skipped_no_candidate"`
	SkippedRange       int `json:"skipped_range_exceeded"`

	// Members of major clusters, untouched by the run
	RecordsRetained int `json:"records_retained"`

	FetchWarning string `json:"fetch_warning,omitempty"`
}

// AccountedRecords sums every per-record bucket in the report. It must equal
// TotalVenues after any run.
func (r *Report) AccountedRecords() int {
	return r.RecordsToUpdate +
		r.SkippedNoLabel +
		r.SkippedNoCoord +
		r.SkippedNoCandidate +
		r.SkippedRange +
		r.RecordsRetained
}

// Render formats the report as a human-readable summary for CLI output and logs
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Consolidation summary (dry-run: %v)\n", r.DryRun)
	fmt.Fprintf(&b, "  venues: %d, areas: %d (major: %d, minor: %d)\n",
		r.TotalVenues, r.DistinctAreas, r.MajorClusters, r.MinorClusters)

	for _, d := range r.Decisions {
		borough := "unchanged"
		if d.ToBorough != nil {
			borough = fmt.Sprintf("%q", *d.ToBorough)
		}
		fmt.Fprintf(&b, "  merge %q -> %q (borough: %s, venues: %d, avg: %.2f km, max: %.2f km)\n",
			d.FromArea, d.ToArea, borough, d.Count, d.AvgDistanceKm, d.MaxDistanceKm)
	}
	for _, s := range r.Skipped {
		detail := s.Reason
		if s.Detail != "" {
			detail = s.Detail
		}
		fmt.Fprintf(&b, "  skip %q (%d venues): %s\n", s.Area, s.VenueCount, detail)
	}

	fmt.Fprintf(&b, "  clusters merged: %d, skipped: %d\n", r.ClustersMerged, r.ClustersSkipped)
	fmt.Fprintf(&b, "  records to update: %d, updated: %d, failed: %d\n",
		r.RecordsToUpdate, r.RecordsUpdated, r.RecordsFailed)
	fmt.Fprintf(&b, "  excluded records: no-label: %d, no-coordinates: %d, no-candidate: %d, range: %d\n",
		r.SkippedNoLabel, r.SkippedNoCoord, r.SkippedNoCandidate, r.SkippedRange)
	if r.FetchWarning != "" {
		fmt.Fprintf(&b, "  warning: %s\n", r.FetchWarning)
	}

	return b.String()
}
