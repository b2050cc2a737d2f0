package cloud

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pointfold/spatial/geom"
	"github.com/stretchr/testify/require"
)

func TestPointCloudPushLen(t *testing.T) {
	pc := New()
	require.Equal(t, 0, pc.Len())

	pc.Push(geom.Point3D{X: 1})
	pc.Push(geom.Point3D{X: 2})
	require.Equal(t, 2, pc.Len())
}

func TestPointCloudMoveBy(t *testing.T) {
	pc := New(geom.Point3D{X: 1, Y: 1, Z: 1}, geom.Point3D{X: 2, Y: 2, Z: 2})
	pc.MoveBy(1, -1, 0.5)

	require.Equal(t, geom.Point3D{X: 2, Y: 0, Z: 1.5}, pc.Points[0])
	require.Equal(t, geom.Point3D{X: 3, Y: 1, Z: 2.5}, pc.Points[1])
}

func TestPointCloudCentroid(t *testing.T) {
	_, ok := New().Centroid()
	require.False(t, ok)

	c, ok := New(geom.Point3D{X: 0, Y: 0, Z: 0}, geom.Point3D{X: 2, Y: 4, Z: 6}).Centroid()
	require.True(t, ok)
	require.Equal(t, geom.Point3D{X: 1, Y: 2, Z: 3}, c)
}

func TestPointCloudBoundingBox(t *testing.T) {
	_, err := New().BoundingBox()
	require.Error(t, err)
	require.True(t, errors.IsType(err, geom.ErrTypeTooFewPoints))

	bb, err := New(geom.Point3D{X: 1, Y: 5, Z: -2}, geom.Point3D{X: -3, Y: 0, Z: 4}).BoundingBox()
	require.NoError(t, err)
	require.Equal(t, geom.Point3D{X: -3, Y: 0, Z: -2}, bb.Min)
	require.Equal(t, geom.Point3D{X: 1, Y: 5, Z: 4}, bb.Max)
}
