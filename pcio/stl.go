package pcio

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pointfold/spatial/geom"
)

// guards against reading garbage counts from corrupt binary files
const maxTrianglesBinary = 1_000_000_000

func stlError(msg string) error {
	return errors.New(msg).WithType(ErrTypeInvalidData).WithTag("format", "stl")
}

// LoadSTL reads triangle faces from an .stl file, detecting the ascii
// variant by its leading "solid" keyword and falling back to binary.
func LoadSTL(r io.Reader) ([]geom.Triangle3D, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(5)
	if err != nil {
		return nil, stlError("stl data truncated")
	}
	if string(head) == "solid" {
		return loadSTLASCII(br)
	}
	return loadSTLBinary(br)
}

func loadSTLASCII(br *bufio.Reader) ([]geom.Triangle3D, error) {
	var tris []geom.Triangle3D
	var vertices []geom.Point3D

	sc := bufio.NewScanner(br)
	for sc.Scan() {
		words := strings.Fields(sc.Text())
		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case "vertex":
			if len(words) != 4 {
				return nil, stlError("stl vertex line invalid")
			}
			var p geom.Point3D
			var err error
			if p.X, err = strconv.ParseFloat(words[1], 64); err != nil {
				return nil, stlError("stl vertex coordinate invalid")
			}
			if p.Y, err = strconv.ParseFloat(words[2], 64); err != nil {
				return nil, stlError("stl vertex coordinate invalid")
			}
			if p.Z, err = strconv.ParseFloat(words[3], 64); err != nil {
				return nil, stlError("stl vertex coordinate invalid")
			}
			vertices = append(vertices, p)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, stlError("stl facet does not have 3 vertices")
			}
			tris = append(tris, geom.Triangle3D{A: vertices[0], B: vertices[1], C: vertices[2]})
			vertices = vertices[:0]

		case "endsolid":
			return tris, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.New("reading stl data failed").Wrap(err)
	}
	return nil, stlError("stl endsolid not found")
}

func loadSTLBinary(br *bufio.Reader) ([]geom.Triangle3D, error) {
	// 80 byte header, then the triangle count
	head := make([]byte, 84)
	if _, err := io.ReadFull(br, head); err != nil {
		return nil, stlError("stl header truncated")
	}
	count := binary.LittleEndian.Uint32(head[80:84])
	if count > maxTrianglesBinary {
		return nil, stlError("stl triangle count out of range")
	}

	readPoint := func(rec []byte) geom.Point3D {
		return geom.Point3D{
			X: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[0:4]))),
			Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[4:8]))),
			Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[8:12]))),
		}
	}

	tris := make([]geom.Triangle3D, 0, count)
	rec := make([]byte, 50) // normal + 3 vertices + attribute byte count
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(br, rec); err != nil {
			return nil, stlError("stl triangle record truncated")
		}
		tris = append(tris, geom.Triangle3D{
			A: readPoint(rec[12:24]),
			B: readPoint(rec[24:36]),
			C: readPoint(rec[36:48]),
		})
	}
	return tris, nil
}

// SaveSTLASCII writes triangles as an ascii .stl solid with raw face
// normals.
func SaveSTLASCII(w io.Writer, name string, tris []geom.Triangle3D) error {
	bw := bufio.NewWriter(w)

	writeLine := func(s string) error {
		_, err := bw.WriteString(s + "\n")
		return err
	}
	format := func(p geom.Point3D) string {
		return strconv.FormatFloat(p.X, 'e', -1, 64) + " " +
			strconv.FormatFloat(p.Y, 'e', -1, 64) + " " +
			strconv.FormatFloat(p.Z, 'e', -1, 64)
	}

	if err := writeLine("solid " + name); err != nil {
		return errors.New("writing stl data failed").Wrap(err)
	}
	for _, t := range tris {
		lines := []string{
			"facet normal " + format(t.Normal()),
			"    outer loop",
			"        vertex " + format(t.A),
			"        vertex " + format(t.B),
			"        vertex " + format(t.C),
			"    endloop",
			"endfacet",
		}
		for _, l := range lines {
			if err := writeLine(l); err != nil {
				return errors.New("writing stl data failed").Wrap(err)
			}
		}
	}
	if err := writeLine("endsolid " + name); err != nil {
		return errors.New("writing stl data failed").Wrap(err)
	}
	return bw.Flush()
}
