// Package aabbtree provides an axis-aligned bounding box tree over arbitrary
// bounded elements, used as a broad-phase filter for spatial queries. Query
// results are candidates whose bounding box satisfies the query predicate,
// exact narrowing is up to the caller.
package aabbtree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pointfold/spatial/geom"
)

// ErrTypeUnbounded is the error type returned by New when an element cannot
// report a bounding box.
const ErrTypeUnbounded = "unbounded_element"

// Bounded is the capability an element must provide to be indexable.
// BoundingBox must be side effect free. Elements are copied into the tree
// by value and never mutated.
type Bounded interface {
	BoundingBox() (geom.BoundingBox3D, error)
}

// Tree is an immutable binary AABB tree. It is built once by New and safe
// for concurrent readers afterwards.
//
// An element whose box straddles a split plane is kept in both subtrees, so
// queries return each true candidate at least once but possibly more than
// once. Callers that need distinct results must deduplicate themselves.
type Tree[T Bounded] struct {
	root node[T]
	size int
}

type nodeKind uint8

const (
	kindEmpty nodeKind = iota
	kindLeaf
	kindBranch
)

// node is a tagged variant: empty carries nothing, a leaf carries elements,
// a branch carries exactly two children. bb is the cached box over the
// node's elements, invalid for empty nodes.
type node[T Bounded] struct {
	kind  nodeKind
	bb    geom.BoundingBox3D
	items []T
	left  *node[T]
	right *node[T]
}

type axis uint8

const (
	axisX axis = iota
	axisY
	axisZ
)

// New builds a tree over items. maxDepth bounds the recursion, at depth
// maxDepth all remaining elements are flattened into one leaf regardless of
// count. Construction fails without building anything if any element has no
// bounding box; it is the only failure mode, all queries are total.
func New[T Bounded](items []T, maxDepth int) (*Tree[T], error) {
	for i, it := range items {
		if _, err := it.BoundingBox(); err != nil {
			return nil, errors.New("element has no bounding box").
				WithType(ErrTypeUnbounded).
				WithTag("element_index", i).
				Wrap(err)
		}
	}

	return &Tree[T]{
		root: buildNode(items, maxDepth, 0),
		size: len(items),
	}, nil
}

func buildNode[T Bounded](items []T, maxDepth, depth int) node[T] {
	switch len(items) {
	case 0:
		return node[T]{kind: kindEmpty}

	case 1:
		return node[T]{kind: kindLeaf, bb: mustBox(items[0]), items: items}

	default:
		if depth >= maxDepth {
			return node[T]{kind: kindLeaf, bb: boxOf(items), items: items}
		}

		bb := boxOf(items)
		center := bb.Center()
		splitAxis := axis(depth % 3)

		var left, right []T
		for _, it := range items {
			itemBox := mustBox(it)
			if isLeftOf(splitAxis, itemBox, center) {
				left = append(left, it)
			}
			if isRightOf(splitAxis, itemBox, center) {
				right = append(right, it)
			}
		}

		// every element straddles the center, splitting makes no progress
		if len(left) == len(right) && len(left) == len(items) {
			return node[T]{kind: kindLeaf, bb: bb, items: items}
		}

		l := buildNode(left, maxDepth, depth+1)
		r := buildNode(right, maxDepth, depth+1)
		return node[T]{kind: kindBranch, bb: bb, left: &l, right: &r}
	}
}

func isLeftOf(a axis, bb geom.BoundingBox3D, center geom.Point3D) bool {
	switch a {
	case axisX:
		return bb.Min.X < center.X
	case axisY:
		return bb.Min.Y < center.Y
	default:
		return bb.Min.Z < center.Z
	}
}

func isRightOf(a axis, bb geom.BoundingBox3D, center geom.Point3D) bool {
	switch a {
	case axisX:
		return bb.Max.X >= center.X
	case axisY:
		return bb.Max.Y >= center.Y
	default:
		return bb.Max.Z >= center.Z
	}
}

// mustBox fetches an element's box. New has already verified every element,
// so the error cannot happen here.
func mustBox[T Bounded](it T) geom.BoundingBox3D {
	bb, _ := it.BoundingBox()
	return bb
}

func boxOf[T Bounded](items []T) geom.BoundingBox3D {
	bb := mustBox(items[0])
	for _, it := range items[1:] {
		bb = bb.Merged(mustBox(it))
	}
	return bb
}

// Len returns the number of elements the tree was built over.
func (t *Tree[T]) Len() int {
	return t.size
}

// BoundingBox returns the box enclosing every indexed element. ok is false
// for a tree over zero elements.
func (t *Tree[T]) BoundingBox() (bb geom.BoundingBox3D, ok bool) {
	if t.root.kind == kindEmpty {
		return geom.BoundingBox3D{}, false
	}
	return t.root.bb, true
}

// ForEachIntersectionCandidate calls fn once per candidate whose bounding
// box intersects line. fn is invoked sequentially, left subtree before
// right, leaf elements in construction order.
func (t *Tree[T]) ForEachIntersectionCandidate(line geom.Line3D, fn func(T)) {
	t.root.forEachIntersectionCandidate(line, fn)
}

func (n *node[T]) forEachIntersectionCandidate(line geom.Line3D, fn func(T)) {
	switch n.kind {
	case kindEmpty:

	case kindLeaf:
		if !line.IntersectsBox(n.bb) {
			return
		}
		for _, it := range n.items {
			if line.IntersectsBox(mustBox(it)) {
				fn(it)
			}
		}

	case kindBranch:
		if !line.IntersectsBox(n.bb) {
			return
		}
		n.left.forEachIntersectionCandidate(line, fn)
		n.right.forEachIntersectionCandidate(line, fn)
	}
}

// Colliding returns the candidates whose bounding box overlaps bb.
func (t *Tree[T]) Colliding(bb geom.BoundingBox3D) []T {
	return t.root.collect(nil, func(b geom.BoundingBox3D) bool {
		return b.CollidesWith(bb)
	})
}

// CrossingXValue returns the candidates whose bounding box straddles the
// plane x = v.
func (t *Tree[T]) CrossingXValue(v float64) []T {
	return t.root.collect(nil, func(b geom.BoundingBox3D) bool {
		return b.CrossingXValue(v)
	})
}

// CrossingYValue returns the candidates whose bounding box straddles the
// plane y = v.
func (t *Tree[T]) CrossingYValue(v float64) []T {
	return t.root.collect(nil, func(b geom.BoundingBox3D) bool {
		return b.CrossingYValue(v)
	})
}

// CrossingZValue returns the candidates whose bounding box straddles the
// plane z = v.
func (t *Tree[T]) CrossingZValue(v float64) []T {
	return t.root.collect(nil, func(b geom.BoundingBox3D) bool {
		return b.CrossingZValue(v)
	})
}

// collect gathers elements matching pred into result, pruning subtrees
// whose cached box does not match.
func (n *node[T]) collect(result []T, pred func(geom.BoundingBox3D) bool) []T {
	switch n.kind {
	case kindEmpty:
		return result

	case kindLeaf:
		if !pred(n.bb) {
			return result
		}
		for _, it := range n.items {
			if pred(mustBox(it)) {
				result = append(result, it)
			}
		}
		return result

	default:
		if !pred(n.bb) {
			return result
		}
		result = n.left.collect(result, pred)
		return n.right.collect(result, pred)
	}
}
