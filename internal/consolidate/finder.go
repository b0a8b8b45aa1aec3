package consolidate

import (
	"github.com/pubmap/areas-backend-go/internal/cluster"
	"github.com/pubmap/areas-backend-go/internal/models"
	"github.com/pubmap/areas-backend-go/internal/spatial"
)

// Point counts at which the candidate set switches from a linear scan to the
// spatial index. Both paths return identical results, ties included.
const indexThreshold = 512

// candidateSet is an immutable snapshot of every major-cluster venue, laid
// out in the deterministic candidate order: clusters sorted by label, members
// in their stable input order. Ties at equal minimal distance always resolve
// to the earliest candidate in this order.
type candidateSet struct {
	venues  []*models.Venue
	labels  []string                    // area label per venue, aligned with venues
	byLabel map[string][]*models.Venue  // destination lookups for the planner
	index   *spatial.PointIndex
}

func newCandidateSet(major map[string][]*models.Venue) *candidateSet {
	cs := &candidateSet{
		byLabel: major,
	}
	for _, label := range cluster.SortedLabels(major) {
		for _, v := range major[label] {
			cs.venues = append(cs.venues, v)
			cs.labels = append(cs.labels, label)
		}
	}

	if len(cs.venues) >= indexThreshold {
		points := make([]spatial.Point, len(cs.venues))
		for i, v := range cs.venues {
			points[i] = spatial.Point{Lat: *v.Lat, Lon: *v.Lon, Ord: i}
		}
		cs.index = spatial.NewPointIndex(points)
	}

	return cs
}

// nearest finds the closest major-cluster venue to v and returns its area
// label and distance in kilometers. Returns false when no candidate exists.
// Venues in major clusters never share v's label because the minor/major
// partition is disjoint, so no label exclusion is needed here.
func (cs *candidateSet) nearest(v *models.Venue) (string, float64, bool) {
	if len(cs.venues) == 0 {
		return "", 0, false
	}

	if cs.index != nil {
		p, dist, ok := cs.index.Nearest(*v.Lat, *v.Lon)
		if !ok {
			return "", 0, false
		}
		return cs.labels[p.Ord], dist, true
	}

	bestIdx := -1
	bestDist := 0.0
	for i, m := range cs.venues {
		d := spatial.HaversineKm(*v.Lat, *v.Lon, *m.Lat, *m.Lon)
		if bestIdx < 0 || d < bestDist {
			bestIdx = i
			bestDist = d
		}
	}
	return cs.labels[bestIdx], bestDist, true
}

// nearestInCluster returns the distance from v to the closest member of one
// specific major cluster. Used once a destination has been chosen, to gate
// and report every member against that destination.
func (cs *candidateSet) nearestInCluster(v *models.Venue, label string) (float64, bool) {
	members := cs.byLabel[label]
	if len(members) == 0 {
		return 0, false
	}

	best := 0.0
	found := false
	for _, m := range members {
		d := spatial.HaversineKm(*v.Lat, *v.Lon, *m.Lat, *m.Lon)
		if !found || d < best {
			best = d
			found = true
		}
	}
	return best, found
}
