package geom

// Triangle3D is a triangle face, e.g. read from an .stl mesh.
type Triangle3D struct {
	A Point3D `json:"a"`
	B Point3D `json:"b"`
	C Point3D `json:"c"`
}

// Normal returns the (non normalized) face normal.
func (t Triangle3D) Normal() Point3D {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A))
}

// BoundingBox returns the smallest box containing the three vertices. It
// never fails.
func (t Triangle3D) BoundingBox() (BoundingBox3D, error) {
	bb := BoundingBox3D{Min: t.A, Max: t.A}
	bb = bb.MergedPoint(t.B)
	bb = bb.MergedPoint(t.C)
	return bb, nil
}
