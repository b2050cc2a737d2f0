package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTriangleBoundingBox(t *testing.T) {
	tri := Triangle3D{
		A: Point3D{0, 0, 0},
		B: Point3D{1, 0, 2},
		C: Point3D{-1, 3, 1},
	}

	bb, err := tri.BoundingBox()
	require.NoError(t, err)
	require.Equal(t, Point3D{-1, 0, 0}, bb.Min)
	require.Equal(t, Point3D{1, 3, 2}, bb.Max)
}

func TestTriangleNormal(t *testing.T) {
	tri := Triangle3D{
		A: Point3D{0, 0, 0},
		B: Point3D{1, 0, 0},
		C: Point3D{0, 1, 0},
	}

	require.Equal(t, Point3D{0, 0, 1}, tri.Normal())
}
