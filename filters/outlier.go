package filters

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pointfold/spatial/aabbtree"
	"github.com/pointfold/spatial/cloud"
	"github.com/pointfold/spatial/geom"
)

// ErrTypeInvalidRadius is the error type returned when an outlier filter is
// built with a non-positive search radius.
const ErrTypeInvalidRadius = "invalid_search_radius"

const outlierTreeDepth = 16

// refPoint tags a reference point with its cloud index so broad-phase
// duplicates can be told apart from points that genuinely share coordinates.
type refPoint struct {
	idx int
	p   geom.Point3D
}

func (r refPoint) BoundingBox() (geom.BoundingBox3D, error) {
	return r.p.BoundingBox()
}

// OutlierFilter keeps a point when at least minNeighbours reference points
// lie within searchRadius of it. Filtering a cloud against itself removes
// isolated points; note that each point then finds itself, so raise
// minNeighbours by one.
type OutlierFilter struct {
	tree          *aabbtree.Tree[refPoint]
	searchRadius  float64
	minNeighbours int
}

// NewOutlierFilter indexes the reference cloud for neighbour lookups.
func NewOutlierFilter(reference *cloud.PointCloud3D, searchRadius float64, minNeighbours int) (*OutlierFilter, error) {
	if searchRadius <= 0 {
		return nil, errors.New("search radius must be positive").
			WithType(ErrTypeInvalidRadius).
			WithTag("search_radius", searchRadius)
	}

	refs := make([]refPoint, len(reference.Points))
	for i, p := range reference.Points {
		refs[i] = refPoint{idx: i, p: p}
	}

	tree, err := aabbtree.New(refs, outlierTreeDepth)
	if err != nil {
		return nil, errors.New("indexing reference cloud failed").Wrap(err)
	}

	return &OutlierFilter{
		tree:          tree,
		searchRadius:  searchRadius,
		minNeighbours: minNeighbours,
	}, nil
}

func (f *OutlierFilter) Allows(p geom.Point3D) bool {
	query := geom.BoundingBox3D{
		Min: p.Sub(geom.Point3D{X: f.searchRadius, Y: f.searchRadius, Z: f.searchRadius}),
		Max: p.Add(geom.Point3D{X: f.searchRadius, Y: f.searchRadius, Z: f.searchRadius}),
	}

	// the tree may report a straddling candidate once per subtree, count
	// distinct reference indices only
	seen := make(map[int]struct{})
	for _, r := range f.tree.Colliding(query) {
		if _, ok := seen[r.idx]; ok {
			continue
		}
		if r.p.DistTo(p) <= f.searchRadius {
			seen[r.idx] = struct{}{}
		}
	}
	return len(seen) >= f.minNeighbours
}
