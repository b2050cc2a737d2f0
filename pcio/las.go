package pcio

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pointfold/spatial/cloud"
	"github.com/pointfold/spatial/geom"
)

const lasHeaderSize = 375 // LAS 1.4 public header block

type lasHeader struct {
	pointDataOffset    uint32
	pointRecordFormat  uint8
	pointRecordLength  uint16
	legacyPointRecords uint32
	pointRecords       uint64
	scale              geom.Point3D
	offset             geom.Point3D
}

func lasError(msg string) error {
	return errors.New(msg).WithType(ErrTypeInvalidData).WithTag("format", "las")
}

// LoadLAS reads point positions from a .las file. Point record formats 0-5
// all start with the same x/y/z layout and are supported; compressed .laz
// data is not.
func LoadLAS(r io.Reader) (*cloud.PointCloud3D, error) {
	br := bufio.NewReader(r)

	h, err := loadLASHeader(br)
	if err != nil {
		return nil, err
	}

	// variable length records sit between header and point data
	if h.pointDataOffset < lasHeaderSize {
		return nil, lasError("las point data offset inside header")
	}
	if _, err := io.CopyN(io.Discard, br, int64(h.pointDataOffset)-lasHeaderSize); err != nil {
		return nil, lasError("las variable length records truncated")
	}

	n := h.pointRecords
	if n == 0 {
		n = uint64(h.legacyPointRecords)
	}

	pc := cloud.New()
	rec := make([]byte, h.pointRecordLength)
	for i := uint64(0); i < n; i++ {
		if _, err := io.ReadFull(br, rec); err != nil {
			return nil, lasError("las point record truncated")
		}
		pc.Push(geom.Point3D{
			X: float64(int32(binary.LittleEndian.Uint32(rec[0:4])))*h.scale.X + h.offset.X,
			Y: float64(int32(binary.LittleEndian.Uint32(rec[4:8])))*h.scale.Y + h.offset.Y,
			Z: float64(int32(binary.LittleEndian.Uint32(rec[8:12])))*h.scale.Z + h.offset.Z,
		})
	}
	return pc, nil
}

func loadLASHeader(br *bufio.Reader) (lasHeader, error) {
	var h lasHeader

	buf := make([]byte, lasHeaderSize)
	if _, err := io.ReadFull(br, buf); err != nil {
		return h, lasError("las header truncated")
	}
	if string(buf[0:4]) != "LASF" {
		return h, lasError("las file signature missing")
	}

	le := binary.LittleEndian
	h.pointDataOffset = le.Uint32(buf[96:100])
	h.pointRecordFormat = buf[104]
	h.pointRecordLength = le.Uint16(buf[105:107])
	h.legacyPointRecords = le.Uint32(buf[107:111])
	h.scale = geom.Point3D{
		X: math.Float64frombits(le.Uint64(buf[131:139])),
		Y: math.Float64frombits(le.Uint64(buf[139:147])),
		Z: math.Float64frombits(le.Uint64(buf[147:155])),
	}
	h.offset = geom.Point3D{
		X: math.Float64frombits(le.Uint64(buf[155:163])),
		Y: math.Float64frombits(le.Uint64(buf[163:171])),
		Z: math.Float64frombits(le.Uint64(buf[171:179])),
	}
	h.pointRecords = le.Uint64(buf[247:255])

	if h.pointRecordFormat > 5 {
		return h, lasError("las point record format not supported")
	}
	if h.pointRecordLength < 12 {
		return h, lasError("las point record length too short")
	}
	return h, nil
}
