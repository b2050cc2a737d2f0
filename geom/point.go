package geom

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// ErrTypeZeroLength is the error type returned when normalizing a zero
// length vector.
const ErrTypeZeroLength = "zero_length_vector"

// Point3D is a position (or direction) in 3D space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Point3D) Add(q Point3D) Point3D {
	return Point3D{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

func (p Point3D) Scaled(s float64) Point3D {
	return Point3D{p.X * s, p.Y * s, p.Z * s}
}

func (p Point3D) Dot(q Point3D) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

func (p Point3D) Cross(q Point3D) Point3D {
	return Point3D{
		X: p.Y*q.Z - p.Z*q.Y,
		Y: p.Z*q.X - p.X*q.Z,
		Z: p.X*q.Y - p.Y*q.X,
	}
}

func (p Point3D) Length() float64 {
	return math.Sqrt(p.Dot(p))
}

func (p Point3D) Normalized() (Point3D, error) {
	l := p.Length()
	if l == 0 {
		return Point3D{}, errors.New("cannot normalize a vector of length 0").
			WithType(ErrTypeZeroLength)
	}
	return p.Scaled(1 / l), nil
}

func (p Point3D) SqrDistTo(q Point3D) float64 {
	d := p.Sub(q)
	return d.Dot(d)
}

func (p Point3D) DistTo(q Point3D) float64 {
	return math.Sqrt(p.SqrDistTo(q))
}

func (p Point3D) EqualWithEpsilon(q Point3D, epsilon float64) bool {
	return math.Abs(p.X-q.X) <= epsilon &&
		math.Abs(p.Y-q.Y) <= epsilon &&
		math.Abs(p.Z-q.Z) <= epsilon
}

// Center returns the point halfway between p and q.
func Center(p, q Point3D) Point3D {
	return Point3D{
		X: p.X + (q.X-p.X)/2,
		Y: p.Y + (q.Y-p.Y)/2,
		Z: p.Z + (q.Z-p.Z)/2,
	}
}

// BoundingBox makes a point indexable by returning the degenerate box
// located at the point itself. It never fails.
func (p Point3D) BoundingBox() (BoundingBox3D, error) {
	return BoundingBox3D{Min: p, Max: p}, nil
}
