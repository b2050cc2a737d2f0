// Package filters provides point predicates used to thin out clouds before
// or after indexing.
package filters

import (
	"github.com/pointfold/spatial/cloud"
	"github.com/pointfold/spatial/geom"
)

// Filter decides whether a point is kept.
type Filter interface {
	Allows(p geom.Point3D) bool
}

// Apply returns a new cloud with only the points f allows, in their
// original order.
func Apply(f Filter, pc *cloud.PointCloud3D) *cloud.PointCloud3D {
	out := cloud.New()
	for _, p := range pc.Points {
		if f.Allows(p) {
			out.Push(p)
		}
	}
	return out
}

// BoxFilter keeps points inside (or on the surface of) a box.
type BoxFilter struct {
	Box geom.BoundingBox3D
}

func (f BoxFilter) Allows(p geom.Point3D) bool {
	return f.Box.ContainsPoint(p)
}
