package cluster

import (
	"github.com/pubmap/areas-backend-go/internal/models"
)

// DefaultMinClusterSize is the member count at which an area is considered
// stable enough to receive merges
const DefaultMinClusterSize = 3

// Partition splits the label->members map into minor clusters (fewer than
// minSize members) and major clusters (minSize or more). Clusters that made
// it into the map always have at least one coordinate-bearing member; empty
// ones never exist because Build only creates a cluster when it appends.
func Partition(clusters map[string][]*models.Venue, minSize int) (minor, major map[string][]*models.Venue) {
	if minSize <= 0 {
		minSize = DefaultMinClusterSize
	}

	minor = make(map[string][]*models.Venue)
	major = make(map[string][]*models.Venue)

	for label, members := range clusters {
		if len(members) < minSize {
			minor[label] = members
		} else {
			major[label] = members
		}
	}

	return minor, major
}
