package consolidate

import (
	"fmt"

	"github.com/pubmap/areas-backend-go/internal/models"
)

// planCluster turns one minor cluster's votes into either a merge decision or
// a skip record. The decision covers every voting member of the cluster; the
// range gate is all-or-nothing, so a single member beyond the limit rejects
// the whole cluster.
func planCluster(area string, members []*models.Venue, votes []vote, cs *candidateSet, maxRangeKm *float64) (*MergeDecision, *SkippedCluster) {
	if len(votes) == 0 {
		return nil, &SkippedCluster{
			Area:       area,
			Reason:     SkipNoVotableMembers,
			VenueCount: len(members),
			Detail:     "no reachable major-cluster venue",
		}
	}

	target, _ := selectTarget(votes)

	decision := &MergeDecision{
		FromArea:  area,
		ToArea:    target,
		ToBorough: selectBorough(cs.byLabel[target]),
	}

	var sum, max float64
	for _, v := range votes {
		// Every voting member is measured against the chosen destination,
		// not against whichever cluster it individually voted for.
		dist, ok := cs.nearestInCluster(v.member, target)
		if !ok {
			dist = v.distance
		}
		decision.Venues = append(decision.Venues, v.member)
		decision.VenueIDs = append(decision.VenueIDs, v.member.ID)
		decision.Distances = append(decision.Distances, dist)
		sum += dist
		if dist > max {
			max = dist
		}
	}
	decision.Count = len(decision.Venues)
	decision.AvgDistanceKm = sum / float64(decision.Count)
	decision.MaxDistanceKm = max

	if maxRangeKm != nil && max > *maxRangeKm {
		return nil, &SkippedCluster{
			Area:       area,
			Reason:     SkipRangeExceeded,
			VenueCount: len(members),
			Detail:     fmt.Sprintf("distance %.2f km exceeds range limit of %.2f km", max, *maxRangeKm),
		}
	}

	return decision, nil
}
