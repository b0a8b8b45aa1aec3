package cluster

import (
	"sort"
	"strings"

	"github.com/pubmap/areas-backend-go/internal/models"
)

// NormalizeLabel trims an area or borough label and collapses the "none"
// sentinel used in the source data. Returns "" when the label is unusable.
// All label checks downstream go through this one function.
func NormalizeLabel(label string) string {
	trimmed := strings.TrimSpace(label)
	if strings.EqualFold(trimmed, "none") {
		return ""
	}
	return trimmed
}

// BuildResult is the outcome of grouping venues by area label.
// Skipped venues are excluded from the clusters but kept in the counts so
// run summaries account for every input record.
type BuildResult struct {
	Clusters       map[string][]*models.Venue
	SkippedNoLabel []*models.Venue
	SkippedNoCoord []*models.Venue
}

// Build groups venues by their normalized area label. Venues without a usable
// label or without valid coordinates do not enter any cluster.
func Build(venues []*models.Venue) *BuildResult {
	result := &BuildResult{
		Clusters: make(map[string][]*models.Venue),
	}

	for _, v := range venues {
		area := NormalizeLabel(v.Area)
		if area == "" {
			result.SkippedNoLabel = append(result.SkippedNoLabel, v)
			continue
		}
		if !v.HasCoordinates() {
			result.SkippedNoCoord = append(result.SkippedNoCoord, v)
			continue
		}
		result.Clusters[area] = append(result.Clusters[area], v)
	}

	return result
}

// SortedLabels returns the cluster labels in lexicographic order so report
// output and candidate iteration stay reproducible between runs.
func SortedLabels(clusters map[string][]*models.Venue) []string {
	labels := make([]string, 0, len(clusters))
	for label := range clusters {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
