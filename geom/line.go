package geom

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// ErrTypeZeroDirection is the error type returned when a line is built with
// a zero direction vector.
const ErrTypeZeroDirection = "zero_direction"

const slabEpsilon = 1e-12

// Line3D is an infinite line through Anchor along Dir. Dir does not need to
// be normalized but must not be zero.
type Line3D struct {
	Anchor Point3D `json:"anchor"`
	Dir    Point3D `json:"dir"`
}

// NewLine validates that dir is not the zero vector.
func NewLine(anchor, dir Point3D) (Line3D, error) {
	if dir.X == 0 && dir.Y == 0 && dir.Z == 0 {
		return Line3D{}, errors.New("line direction must not be zero").
			WithType(ErrTypeZeroDirection).
			WithTag("anchor", anchor)
	}
	return Line3D{Anchor: anchor, Dir: dir}, nil
}

// IntersectsBox reports whether the line crosses the box. The slab test
// runs with an unbounded line parameter, so intersections "behind" the
// anchor count as well.
func (l Line3D) IntersectsBox(bb BoundingBox3D) bool {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		var origin, dir, min, max float64
		switch axis {
		case 0:
			origin, dir, min, max = l.Anchor.X, l.Dir.X, bb.Min.X, bb.Max.X
		case 1:
			origin, dir, min, max = l.Anchor.Y, l.Dir.Y, bb.Min.Y, bb.Max.Y
		case 2:
			origin, dir, min, max = l.Anchor.Z, l.Dir.Z, bb.Min.Z, bb.Max.Z
		}

		if math.Abs(dir) < slabEpsilon {
			// parallel to the slab, either fully inside or fully outside
			if origin < min || origin > max {
				return false
			}
			continue
		}

		t1 := (min - origin) / dir
		t2 := (max - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMax < tMin {
			return false
		}
	}

	return true
}
