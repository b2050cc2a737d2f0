package pcio

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pointfold/spatial/geom"
	"github.com/stretchr/testify/require"
)

func TestLoadPLYPointsASCII(t *testing.T) {
	in := strings.Join([]string{
		"ply",
		"format ascii 1.0",
		"comment made by hand",
		"element vertex 3",
		"property float x",
		"property float y",
		"property float z",
		"element face 1",
		"property list uchar int vertex_indices",
		"end_header",
		"0 0 0",
		"1 0 0",
		"0 1 0.5",
		"3 0 1 2",
		"",
	}, "\n")

	pc, err := LoadPLYPoints(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 3, pc.Len())
	require.Equal(t, geom.Point3D{X: 0, Y: 0, Z: 0}, pc.Points[0])
	require.Equal(t, geom.Point3D{X: 1, Y: 0, Z: 0}, pc.Points[1])
	require.Equal(t, geom.Point3D{X: 0, Y: 1, Z: 0.5}, pc.Points[2])
}

func TestLoadPLYPointsASCIIPropertyOrder(t *testing.T) {
	// z comes first and a confidence property sits between the coordinates
	in := strings.Join([]string{
		"ply",
		"format ascii 1.0",
		"element vertex 1",
		"property float z",
		"property float confidence",
		"property float x",
		"property float y",
		"end_header",
		"9 0.5 1 2",
		"",
	}, "\n")

	pc, err := LoadPLYPoints(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, pc.Len())
	require.Equal(t, geom.Point3D{X: 1, Y: 2, Z: 9}, pc.Points[0])
}

func plyBinaryFixture(t *testing.T, order binary.ByteOrder, formatName string) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format " + formatName + " 1.0\n")
	buf.WriteString("element vertex 2\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")
	buf.WriteString("property uchar intensity\n")
	buf.WriteString("end_header\n")

	writeVertex := func(x, y, z float32, intensity byte) {
		for _, v := range []float32{x, y, z} {
			b := make([]byte, 4)
			order.PutUint32(b, math.Float32bits(v))
			buf.Write(b)
		}
		buf.WriteByte(intensity)
	}
	writeVertex(1, 2, 3, 200)
	writeVertex(-4, 5.5, 0, 10)
	return &buf
}

func TestLoadPLYPointsBinaryLittleEndian(t *testing.T) {
	buf := plyBinaryFixture(t, binary.LittleEndian, "binary_little_endian")

	pc, err := LoadPLYPoints(buf)
	require.NoError(t, err)
	require.Equal(t, 2, pc.Len())
	require.Equal(t, geom.Point3D{X: 1, Y: 2, Z: 3}, pc.Points[0])
	require.Equal(t, geom.Point3D{X: -4, Y: 5.5, Z: 0}, pc.Points[1])
}

func TestLoadPLYPointsBinaryBigEndian(t *testing.T) {
	buf := plyBinaryFixture(t, binary.BigEndian, "binary_big_endian")

	pc, err := LoadPLYPoints(buf)
	require.NoError(t, err)
	require.Equal(t, 2, pc.Len())
	require.Equal(t, geom.Point3D{X: 1, Y: 2, Z: 3}, pc.Points[0])
}

func TestLoadPLYPointsErrors(t *testing.T) {
	cases := map[string]string{
		"missing magic":  "format ascii 1.0\nend_header\n",
		"missing format": "ply\nelement vertex 0\nend_header\n",
		"missing vertex": "ply\nformat ascii 1.0\nend_header\n",
		"truncated vertices": strings.Join([]string{
			"ply",
			"format ascii 1.0",
			"element vertex 2",
			"property float x",
			"property float y",
			"property float z",
			"end_header",
			"0 0 0",
			"",
		}, "\n"),
	}

	for name, in := range cases {
		_, err := LoadPLYPoints(strings.NewReader(in))
		require.Error(t, err, name)
		require.True(t, errors.IsType(err, ErrTypeInvalidData), name)
	}
}
