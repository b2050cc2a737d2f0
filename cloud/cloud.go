// Package cloud holds ordered 3D point collections and a quantized,
// space-saving representation of them.
package cloud

import (
	"github.com/pointfold/spatial/geom"
)

// PointCloud3D is an ordered collection of points. The zero value is an
// empty cloud ready to use.
type PointCloud3D struct {
	Points []geom.Point3D
}

func New(points ...geom.Point3D) *PointCloud3D {
	return &PointCloud3D{Points: points}
}

func (c *PointCloud3D) Push(p geom.Point3D) {
	c.Points = append(c.Points, p)
}

func (c *PointCloud3D) Len() int {
	return len(c.Points)
}

// MoveBy translates every point in place.
func (c *PointCloud3D) MoveBy(x, y, z float64) {
	for i := range c.Points {
		c.Points[i].X += x
		c.Points[i].Y += y
		c.Points[i].Z += z
	}
}

// Centroid returns the average of all points. ok is false for an empty
// cloud.
func (c *PointCloud3D) Centroid() (center geom.Point3D, ok bool) {
	if len(c.Points) == 0 {
		return geom.Point3D{}, false
	}

	var sum geom.Point3D
	for _, p := range c.Points {
		sum = sum.Add(p)
	}
	return sum.Scaled(1 / float64(len(c.Points))), true
}

// BoundingBox returns the smallest box containing every point. An empty
// cloud has no defined box, which makes it the one element kind whose
// indexing can fail.
func (c *PointCloud3D) BoundingBox() (geom.BoundingBox3D, error) {
	return geom.BoundingBoxFromPoints(c.Points)
}
