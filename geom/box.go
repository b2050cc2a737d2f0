package geom

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	// ErrTypeMinMaxSwapped is the error type returned when a box is built
	// with a min corner greater than its max corner.
	ErrTypeMinMaxSwapped = "min_max_swapped"

	// ErrTypeTooFewPoints is the error type returned when a bounding box is
	// requested for an empty collection.
	ErrTypeTooFewPoints = "too_few_points"
)

// BoundingBox3D is an axis-aligned box defined by its min and max corners.
// Degenerate boxes (min == max on one or more axes) are valid, a single
// point has one.
type BoundingBox3D struct {
	Min Point3D `json:"min"`
	Max Point3D `json:"max"`
}

// NewBoundingBox validates that min <= max on every axis.
func NewBoundingBox(min, max Point3D) (BoundingBox3D, error) {
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		return BoundingBox3D{}, errors.New("bounding box min and max corners are swapped").
			WithType(ErrTypeMinMaxSwapped).
			WithTag("min", min).
			WithTag("max", max)
	}
	return BoundingBox3D{Min: min, Max: max}, nil
}

// BoundingBoxFromPoints returns the smallest box containing all given points.
func BoundingBoxFromPoints(points []Point3D) (BoundingBox3D, error) {
	if len(points) == 0 {
		return BoundingBox3D{}, errors.New("cannot compute the bounding box of zero points").
			WithType(ErrTypeTooFewPoints)
	}

	bb := BoundingBox3D{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		bb = bb.MergedPoint(p)
	}
	return bb, nil
}

// Merged returns the smallest box enclosing both b and other.
func (b BoundingBox3D) Merged(other BoundingBox3D) BoundingBox3D {
	return BoundingBox3D{
		Min: Point3D{
			X: math.Min(b.Min.X, other.Min.X),
			Y: math.Min(b.Min.Y, other.Min.Y),
			Z: math.Min(b.Min.Z, other.Min.Z),
		},
		Max: Point3D{
			X: math.Max(b.Max.X, other.Max.X),
			Y: math.Max(b.Max.Y, other.Max.Y),
			Z: math.Max(b.Max.Z, other.Max.Z),
		},
	}
}

// MergedPoint returns the smallest box enclosing both b and p.
func (b BoundingBox3D) MergedPoint(p Point3D) BoundingBox3D {
	return b.Merged(BoundingBox3D{Min: p, Max: p})
}

func (b BoundingBox3D) Center() Point3D {
	return Center(b.Min, b.Max)
}

func (b BoundingBox3D) Size() Point3D {
	return b.Max.Sub(b.Min)
}

// CollidesWith reports whether b and other overlap. Touching faces count
// as a collision.
func (b BoundingBox3D) CollidesWith(other BoundingBox3D) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

func (b BoundingBox3D) ContainsPoint(p Point3D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// CrossingXValue reports whether b straddles the plane x = v.
func (b BoundingBox3D) CrossingXValue(v float64) bool {
	return b.Min.X <= v && b.Max.X >= v
}

// CrossingYValue reports whether b straddles the plane y = v.
func (b BoundingBox3D) CrossingYValue(v float64) bool {
	return b.Min.Y <= v && b.Max.Y >= v
}

// CrossingZValue reports whether b straddles the plane z = v.
func (b BoundingBox3D) CrossingZValue(v float64) bool {
	return b.Min.Z <= v && b.Max.Z >= v
}
