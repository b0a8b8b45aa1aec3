package consolidate

import (
	"sort"

	"github.com/pubmap/areas-backend-go/internal/cluster"
	"github.com/pubmap/areas-backend-go/internal/models"
)

// vote is one minor-cluster member's nearest-major result
type vote struct {
	member   *models.Venue
	target   string
	distance float64
}

// selectTarget picks the destination label from a minor cluster's votes.
// Most votes wins; ties break by smallest average distance within the tied
// groups, then by lexicographically smallest label. Returns false when there
// are no votes at all.
func selectTarget(votes []vote) (string, bool) {
	if len(votes) == 0 {
		return "", false
	}

	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, v := range votes {
		counts[v.target]++
		sums[v.target] += v.distance
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, b := labels[i], labels[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		avgA := sums[a] / float64(counts[a])
		avgB := sums[b] / float64(counts[b])
		if avgA != avgB {
			return avgA < avgB
		}
		return a < b
	})

	return labels[0], true
}

// selectBorough resolves the borough the merged venues should inherit: the
// most common borough among the destination cluster's current members.
// Empty and "none" values stay out of the vote. Returns nil when the
// destination has no borough at all, in which case the merge updates area
// only.
func selectBorough(members []*models.Venue) *string {
	counts := make(map[string]int)
	for _, m := range members {
		borough := cluster.NormalizeLabel(m.Borough)
		if borough == "" {
			continue
		}
		counts[borough]++
	}
	if len(counts) == 0 {
		return nil
	}

	var best string
	bestCount := -1
	for borough, n := range counts {
		if n > bestCount || (n == bestCount && borough < best) {
			best = borough
			bestCount = n
		}
	}
	return &best
}
