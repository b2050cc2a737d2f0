// Package index keeps named datasets, each pairing loaded geometry with
// the AABB tree built over it.
package index

import (
	"sort"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/google/uuid"
	"github.com/pointfold/spatial/aabbtree"
	"github.com/pointfold/spatial/cloud"
	"github.com/pointfold/spatial/geom"
)

// ErrTypeDatasetEmpty is the error type returned when a dataset is built
// from no elements at all.
const ErrTypeDatasetEmpty = "dataset_empty"

// Element is anything a dataset indexes. Concrete kinds are geom.Point3D
// and geom.Triangle3D.
type Element interface {
	aabbtree.Bounded
}

// Dataset is an immutable indexed snapshot of one geometry source. Updating
// a dataset means building a new one and swapping it in the store.
type Dataset struct {
	ID        string
	Name      string
	Source    string
	Points    *cloud.PointCloud3D
	Triangles []geom.Triangle3D
	Tree      *aabbtree.Tree[Element]
}

// NewDataset builds the tree over all points and triangles. points may be
// nil when the source was a mesh.
func NewDataset(name, source string, points *cloud.PointCloud3D, triangles []geom.Triangle3D, maxDepth int) (*Dataset, error) {
	if points == nil {
		points = cloud.New()
	}

	elements := make([]Element, 0, points.Len()+len(triangles))
	for _, p := range points.Points {
		elements = append(elements, p)
	}
	for _, t := range triangles {
		elements = append(elements, t)
	}
	if len(elements) == 0 {
		return nil, errors.New("dataset has no elements").
			WithType(ErrTypeDatasetEmpty).
			WithTag("name", name).
			WithTag("source", source)
	}

	tree, err := aabbtree.New(elements, maxDepth)
	if err != nil {
		return nil, errors.New("building dataset index failed").
			WithTag("name", name).
			Wrap(err)
	}

	return &Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    source,
		Points:    points,
		Triangles: triangles,
		Tree:      tree,
	}, nil
}

// Store is a concurrency safe dataset registry.
type Store struct {
	mutex    sync.RWMutex
	datasets map[string]*Dataset
}

func (s *Store) Add(d *Dataset) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.datasets == nil {
		s.datasets = make(map[string]*Dataset)
	}
	s.datasets[d.ID] = d

	datasetCount.Set(float64(len(s.datasets)))
	indexedElements.Add(float64(d.Tree.Len()))
}

func (s *Store) Get(id string) (*Dataset, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	d, ok := s.datasets[id]
	return d, ok
}

func (s *Store) Remove(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.datasets, id)
	datasetCount.Set(float64(len(s.datasets)))
}

func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.datasets)
}

// List returns all datasets ordered by name.
func (s *Store) List() []*Dataset {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]*Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
