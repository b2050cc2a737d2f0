package pcio

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pointfold/spatial/cloud"
	"github.com/pointfold/spatial/geom"
)

type plyFormat uint8

const (
	plyASCII plyFormat = iota
	plyLittleEndian
	plyBigEndian
)

type plyProperty struct {
	name string
	typ  string
}

type plyHeader struct {
	format      plyFormat
	vertexCount int
	vertexProps []plyProperty
}

var plyScalarSizes = map[string]int{
	"char": 1, "int8": 1, "uchar": 1, "uint8": 1,
	"short": 2, "int16": 2, "ushort": 2, "uint16": 2,
	"int": 4, "int32": 4, "uint": 4, "uint32": 4,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

func plyError(msg string) error {
	return errors.New(msg).WithType(ErrTypeInvalidData).WithTag("format", "ply")
}

// LoadPLYPoints reads the vertex positions of a .ply file, ascii or binary
// in either endianness. Faces and non-position vertex properties are
// skipped.
func LoadPLYPoints(r io.Reader) (*cloud.PointCloud3D, error) {
	br := bufio.NewReader(r)

	header, err := loadPLYHeader(br)
	if err != nil {
		return nil, err
	}

	if header.format == plyASCII {
		return loadPLYVerticesASCII(br, header)
	}
	return loadPLYVerticesBinary(br, header)
}

func loadPLYHeader(br *bufio.Reader) (plyHeader, error) {
	var h plyHeader

	magic, err := plyReadLine(br)
	if err != nil || magic != "ply" {
		return h, plyError("start of ply header not found")
	}

	formatFound := false
	inVertexElement := false
	vertexFound := false

	for {
		line, err := plyReadLine(br)
		if err != nil {
			return h, plyError("end of ply header not found")
		}

		switch {
		case line == "end_header":
			if !formatFound {
				return h, plyError("ply format missing")
			}
			if !vertexFound {
				return h, plyError("ply vertex element missing")
			}
			return h, nil

		case strings.HasPrefix(line, "comment"), strings.HasPrefix(line, "obj_info"), line == "":

		case strings.HasPrefix(line, "format "):
			switch strings.Fields(line)[1] {
			case "ascii":
				h.format = plyASCII
			case "binary_little_endian":
				h.format = plyLittleEndian
			case "binary_big_endian":
				h.format = plyBigEndian
			default:
				return h, plyError("ply format not supported")
			}
			formatFound = true

		case strings.HasPrefix(line, "element "):
			words := strings.Fields(line)
			if len(words) != 3 {
				return h, plyError("malformed ply element")
			}
			inVertexElement = words[1] == "vertex"
			if inVertexElement {
				vertexFound = true
				n, err := strconv.Atoi(words[2])
				if err != nil || n < 0 {
					return h, plyError("ply vertex count invalid")
				}
				h.vertexCount = n
			}

		case strings.HasPrefix(line, "property "):
			if !inVertexElement {
				continue
			}
			words := strings.Fields(line)
			if len(words) < 3 {
				return h, plyError("malformed ply property")
			}
			if words[1] == "list" {
				return h, plyError("list properties in vertex element not supported")
			}
			h.vertexProps = append(h.vertexProps, plyProperty{
				name: words[len(words)-1],
				typ:  words[1],
			})

		default:
			return h, plyError("unexpected ply header line")
		}
	}
}

func plyReadLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// coordIndices locates the x, y and z properties within the vertex record.
func (h plyHeader) coordIndices() (xi, yi, zi int, err error) {
	xi, yi, zi = -1, -1, -1
	for i, p := range h.vertexProps {
		switch p.name {
		case "x":
			xi = i
		case "y":
			yi = i
		case "z":
			zi = i
		}
	}
	if xi < 0 || yi < 0 || zi < 0 {
		return 0, 0, 0, plyError("ply vertex element misses x, y or z")
	}
	return xi, yi, zi, nil
}

func loadPLYVerticesASCII(br *bufio.Reader, h plyHeader) (*cloud.PointCloud3D, error) {
	xi, yi, zi, err := h.coordIndices()
	if err != nil {
		return nil, err
	}

	pc := cloud.New()
	for i := 0; i < h.vertexCount; i++ {
		line, err := plyReadLine(br)
		if err != nil {
			return nil, plyError("ply vertex count incorrect")
		}
		words := strings.Fields(line)
		if len(words) < len(h.vertexProps) {
			return nil, plyError("ply vertex has too few properties")
		}

		var p geom.Point3D
		for j, idx := range []int{xi, yi, zi} {
			v, err := strconv.ParseFloat(words[idx], 64)
			if err != nil {
				return nil, plyError("ply vertex coordinate invalid")
			}
			switch j {
			case 0:
				p.X = v
			case 1:
				p.Y = v
			case 2:
				p.Z = v
			}
		}
		pc.Push(p)
	}
	return pc, nil
}

func loadPLYVerticesBinary(br *bufio.Reader, h plyHeader) (*cloud.PointCloud3D, error) {
	xi, yi, zi, err := h.coordIndices()
	if err != nil {
		return nil, err
	}

	// byte offset and scalar type per property
	offsets := make([]int, len(h.vertexProps))
	recordSize := 0
	for i, p := range h.vertexProps {
		size, ok := plyScalarSizes[p.typ]
		if !ok {
			return nil, plyError("ply property type not supported")
		}
		offsets[i] = recordSize
		recordSize += size
	}

	var order binary.ByteOrder = binary.LittleEndian
	if h.format == plyBigEndian {
		order = binary.BigEndian
	}

	readCoord := func(rec []byte, idx int) (float64, error) {
		prop := h.vertexProps[idx]
		off := offsets[idx]
		switch plyScalarSizes[prop.typ] {
		case 4:
			if prop.typ != "float" && prop.typ != "float32" {
				return 0, plyError("ply coordinate type not supported")
			}
			return float64(math.Float32frombits(order.Uint32(rec[off : off+4]))), nil
		case 8:
			return math.Float64frombits(order.Uint64(rec[off : off+8])), nil
		default:
			return 0, plyError("ply coordinate type not supported")
		}
	}

	pc := cloud.New()
	rec := make([]byte, recordSize)
	for i := 0; i < h.vertexCount; i++ {
		if _, err := io.ReadFull(br, rec); err != nil {
			return nil, plyError("ply vertex count incorrect")
		}

		var p geom.Point3D
		if p.X, err = readCoord(rec, xi); err != nil {
			return nil, err
		}
		if p.Y, err = readCoord(rec, yi); err != nil {
			return nil, err
		}
		if p.Z, err = readCoord(rec, zi); err != nil {
			return nil, err
		}
		pc.Push(p)
	}
	return pc, nil
}
