package pcio

import (
	"strings"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pointfold/spatial/cloud"
	"github.com/pointfold/spatial/geom"
	"github.com/stretchr/testify/require"
)

func TestLoadXYZWhitespace(t *testing.T) {
	in := "1 2 3\n4.5 -6 7e1\n\n  8 9 10  \n"

	pc, err := LoadXYZ(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Equal(t, 3, pc.Len())
	require.Equal(t, geom.Point3D{X: 1, Y: 2, Z: 3}, pc.Points[0])
	require.Equal(t, geom.Point3D{X: 4.5, Y: -6, Z: 70}, pc.Points[1])
	require.Equal(t, geom.Point3D{X: 8, Y: 9, Z: 10}, pc.Points[2])
}

func TestLoadXYZDelimiter(t *testing.T) {
	in := "1;2;3\n4;5;6\n"

	pc, err := LoadXYZ(strings.NewReader(in), ";")
	require.NoError(t, err)
	require.Equal(t, 2, pc.Len())
	require.Equal(t, geom.Point3D{X: 4, Y: 5, Z: 6}, pc.Points[1])
}

func TestLoadXYZExtraColumns(t *testing.T) {
	// a csv export with intensity columns after z
	in := "1,2,3,255\n4,5,6,128\n"

	pc, err := LoadXYZ(strings.NewReader(in), ",")
	require.NoError(t, err)
	require.Equal(t, 2, pc.Len())
	require.Equal(t, geom.Point3D{X: 1, Y: 2, Z: 3}, pc.Points[0])
}

func TestLoadXYZInvalid(t *testing.T) {
	_, err := LoadXYZ(strings.NewReader("1 2\n"), "")
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeInvalidData))

	_, err = LoadXYZ(strings.NewReader("1 2 banana\n"), "")
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeInvalidData))
}

func TestSaveLoadXYZRoundtrip(t *testing.T) {
	pc := cloud.New(
		geom.Point3D{X: 1.25, Y: -2.5, Z: 3},
		geom.Point3D{X: 0, Y: 0.001, Z: 1e6},
	)

	var sb strings.Builder
	require.NoError(t, SaveXYZ(&sb, pc, " ", "\n"))

	got, err := LoadXYZ(strings.NewReader(sb.String()), "")
	require.NoError(t, err)
	require.Equal(t, pc.Points, got.Points)
}
