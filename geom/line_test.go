package geom

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewLine(t *testing.T) {
	_, err := NewLine(Point3D{1, 2, 3}, Point3D{0, 0, 1})
	require.NoError(t, err)

	_, err = NewLine(Point3D{1, 2, 3}, Point3D{})
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeZeroDirection))
}

func TestLineIntersectsBox(t *testing.T) {
	bb := BoundingBox3D{Min: Point3D{0, 0, 0}, Max: Point3D{1, 1, 1}}

	// straight through the middle
	l := Line3D{Anchor: Point3D{-1, 0.5, 0.5}, Dir: Point3D{1, 0, 0}}
	require.True(t, l.IntersectsBox(bb))

	// the line is infinite, hits behind the anchor too
	l = Line3D{Anchor: Point3D{5, 0.5, 0.5}, Dir: Point3D{1, 0, 0}}
	require.True(t, l.IntersectsBox(bb))

	// parallel to the box, outside the slab
	l = Line3D{Anchor: Point3D{-1, 2, 0.5}, Dir: Point3D{1, 0, 0}}
	require.False(t, l.IntersectsBox(bb))

	// parallel to the box, inside the slab
	l = Line3D{Anchor: Point3D{-1, 0.5, 0.25}, Dir: Point3D{1, 0, 0}}
	require.True(t, l.IntersectsBox(bb))

	// diagonal hit
	l = Line3D{Anchor: Point3D{-1, -1, -1}, Dir: Point3D{1, 1, 1}}
	require.True(t, l.IntersectsBox(bb))

	// diagonal miss
	l = Line3D{Anchor: Point3D{-1, -1, 5}, Dir: Point3D{1, 1, 0}}
	require.False(t, l.IntersectsBox(bb))
}

func TestLineIntersectsDegenerateBox(t *testing.T) {
	point := BoundingBox3D{Min: Point3D{1, 1, 1}, Max: Point3D{1, 1, 1}}

	l := Line3D{Anchor: Point3D{0, 0, 0}, Dir: Point3D{1, 1, 1}}
	require.True(t, l.IntersectsBox(point))

	l = Line3D{Anchor: Point3D{0, 0, 0}, Dir: Point3D{1, 0, 0}}
	require.False(t, l.IntersectsBox(point))
}
