package route

import (
	"math"

	"github.com/matzehuels/wayfinder/pkg/feature"
	"github.com/matzehuels/wayfinder/pkg/geo"
)

// GeometryIndex maps a directed (startID, endID) node pair to the
// rendered geometry of the connecting edge.
type GeometryIndex map[[2]int64][]geo.Coordinate

// NewGeometryIndex builds a geometry lookup from parsed edges.
// Edges without geometry are skipped; for repeated directed pairs the
// last edge wins.
func NewGeometryIndex(edges []feature.Edge) GeometryIndex {
	idx := make(GeometryIndex)
	for _, e := range edges {
		if len(e.Geometry) < 2 {
			continue
		}
		idx[[2]int64{e.StartID, e.EndID}] = e.Geometry
	}
	return idx
}

// Snap projects pos onto the nearest point of the route's rendered
// geometry.
//
// For each consecutive route-node pair the directed edge geometry is
// resolved from idx; segments without geometry are skipped. The
// candidate distances use a planar metric, which is a documented
// precision tradeoff: fine at sub-kilometer facility scale, wrong for
// continent-sized routes. Returns false when the route has no
// resolvable geometry at all.
func Snap(pos geo.Coordinate, r Route, idx GeometryIndex) (geo.Coordinate, bool) {
	best := geo.Coordinate{}
	bestDist := math.Inf(1)
	found := false

	for i := 0; i+1 < len(r); i++ {
		geom, ok := idx[[2]int64{r[i].ID, r[i+1].ID}]
		if !ok {
			continue
		}
		for j := 0; j+1 < len(geom); j++ {
			p, d := geo.ProjectOntoSegment(pos, geom[j], geom[j+1])
			if d < bestDist {
				best, bestDist = p, d
				found = true
			}
		}
	}

	return best, found
}
