package cloud

import (
	"math"

	"github.com/pointfold/spatial/geom"
)

// Cell is the integer type storing the quantized per-axis offset of a
// compressed point. Smaller types trade precision for space.
type Cell interface {
	~uint8 | ~uint16 | ~uint32
}

// CompressedPoint3D is a point stored as integer multiples of the cloud's
// per-axis unit size.
type CompressedPoint3D[T Cell] struct {
	UnitsX T
	UnitsY T
	UnitsZ T
}

// Compressed is a point cloud quantized against its own bounding box: a
// start corner, one unit size per axis and integer units per point. The
// worst case error per axis is one unit size.
type Compressed[T Cell] struct {
	Start     geom.Point3D
	UnitSizeX float64
	UnitSizeY float64
	UnitSizeZ float64
	Data      []CompressedPoint3D[T]
}

// Compress quantizes pc. It fails only when the cloud has no bounding box,
// i.e. when it is empty.
func Compress[T Cell](pc *PointCloud3D) (*Compressed[T], error) {
	bb, err := pc.BoundingBox()
	if err != nil {
		return nil, err
	}

	maxVal := float64(^T(0))
	size := bb.Size()
	c := &Compressed[T]{
		Start:     bb.Min,
		UnitSizeX: size.X / maxVal,
		UnitSizeY: size.Y / maxVal,
		UnitSizeZ: size.Z / maxVal,
		Data:      make([]CompressedPoint3D[T], 0, pc.Len()),
	}

	for _, p := range pc.Points {
		d := p.Sub(bb.Min)
		c.Data = append(c.Data, CompressedPoint3D[T]{
			UnitsX: quantize[T](d.X, c.UnitSizeX, maxVal),
			UnitsY: quantize[T](d.Y, c.UnitSizeY, maxVal),
			UnitsZ: quantize[T](d.Z, c.UnitSizeZ, maxVal),
		})
	}
	return c, nil
}

// quantize clamps into [0, maxVal] so float rounding at the box border
// cannot overflow the cell type.
func quantize[T Cell](dist, unitSize, maxVal float64) T {
	if unitSize == 0 {
		return 0
	}
	u := math.Floor(dist / unitSize)
	if u < 0 {
		return 0
	}
	if u > maxVal {
		return T(maxVal)
	}
	return T(u)
}

// Decompress rebuilds a point cloud from the quantized data.
func (c *Compressed[T]) Decompress() *PointCloud3D {
	pc := &PointCloud3D{Points: make([]geom.Point3D, 0, len(c.Data))}
	for _, p := range c.Data {
		pc.Push(geom.Point3D{
			X: c.Start.X + c.UnitSizeX*float64(p.UnitsX),
			Y: c.Start.Y + c.UnitSizeY*float64(p.UnitsY),
			Z: c.Start.Z + c.UnitSizeZ*float64(p.UnitsZ),
		})
	}
	return pc
}

func (c *Compressed[T]) Len() int {
	return len(c.Data)
}
