package spatial

import (
	"math"
	"sort"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Point is a coordinate pair tagged with the caller's position in its own
// candidate ordering. Ord is what breaks ties between equidistant points, so
// lookups stay deterministic regardless of how cells are visited.
type Point struct {
	Lat float64
	Lon float64
	Ord int
}

type indexedPoint struct {
	cell  s2.CellID
	point Point
}

// PointIndex is a cell-bucketed spatial index over a fixed point set.
// It exists purely as a lookup optimization over the linear scan: for any
// query it must return exactly the point the scan would have picked,
// including the Ord tie-break at equal minimal distance.
type PointIndex struct {
	points []indexedPoint // sorted by leaf cell ID
}

// NewPointIndex builds an index over the given points. The input slice is
// not retained.
func NewPointIndex(points []Point) *PointIndex {
	idx := &PointIndex{
		points: make([]indexedPoint, 0, len(points)),
	}
	for _, p := range points {
		cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))
		idx.points = append(idx.points, indexedPoint{cell: cell, point: p})
	}
	sort.Slice(idx.points, func(i, j int) bool {
		if idx.points[i].cell != idx.points[j].cell {
			return idx.points[i].cell < idx.points[j].cell
		}
		return idx.points[i].point.Ord < idx.points[j].point.Ord
	})
	return idx
}

// Len returns the number of indexed points
func (idx *PointIndex) Len() int {
	return len(idx.points)
}

// Nearest returns the indexed point closest to the query coordinate and its
// distance in kilometers. Equal minimal distances resolve to the smallest Ord.
// The second return value is false when the index is empty.
func (idx *PointIndex) Nearest(lat, lon float64) (Point, float64, bool) {
	if len(idx.points) == 0 {
		return Point{}, 0, false
	}

	center := s2.LatLngFromDegrees(lat, lon)

	// Grow a spherical cap around the query until it captures at least one
	// point, then the best candidate inside the cap is the global best.
	radiusKm := 2.0
	for {
		best, bestDist, found := idx.searchCap(center, radiusKm, lat, lon)
		if found && bestDist <= radiusKm {
			return best, bestDist, true
		}
		if radiusKm >= halfEarthCircumferenceKm {
			// Cap covers the whole sphere; whatever we found is the answer.
			if found {
				return best, bestDist, true
			}
			return Point{}, 0, false
		}
		radiusKm *= 8
		if radiusKm > halfEarthCircumferenceKm {
			radiusKm = halfEarthCircumferenceKm
		}
	}
}

const halfEarthCircumferenceKm = math.Pi * EarthRadiusKm

// searchCap scans every indexed point inside a cell covering of the cap and
// returns the best candidate among them.
func (idx *PointIndex) searchCap(center s2.LatLng, radiusKm, lat, lon float64) (Point, float64, bool) {
	angle := s1.Angle(radiusKm / EarthRadiusKm)
	region := s2.CapFromCenterAngle(s2.PointFromLatLng(center), angle)

	coverer := s2.RegionCoverer{MaxLevel: 30, MaxCells: 16}
	covering := coverer.Covering(region)

	var (
		best     Point
		bestDist float64
		found    bool
	)
	for _, cell := range covering {
		lo := sort.Search(len(idx.points), func(i int) bool {
			return idx.points[i].cell >= cell.RangeMin()
		})
		hi := sort.Search(len(idx.points), func(i int) bool {
			return idx.points[i].cell > cell.RangeMax()
		})
		for _, ip := range idx.points[lo:hi] {
			d := HaversineKm(lat, lon, ip.point.Lat, ip.point.Lon)
			if !found || d < bestDist || (d == bestDist && ip.point.Ord < best.Ord) {
				best = ip.point
				bestDist = d
				found = true
			}
		}
	}
	return best, bestDist, found
}
