package pointcloud

import (
	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// indexedPoint is a point stored in the k-d tree together with its position
// in the input slice
type indexedPoint struct {
	geometry.Vector3
	index int
}

func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexedPoint)
	return p.Component(int(d)) - q.Component(int(d))
}

func (p indexedPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	d := p.Sub(c.(indexedPoint).Vector3)
	return d.Dot(d)
}

type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p indexedPoints) Len() int                              { return len(p) }
func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane{indexedPoints: p, Dim: d}, kdtree.MedianOfMedians(plane{indexedPoints: p, Dim: d}))
}

// plane sorts points along one dimension
type plane struct {
	indexedPoints
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.indexedPoints[i].Component(int(p.Dim)) < p.indexedPoints[j].Component(int(p.Dim))
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{indexedPoints: p.indexedPoints[start:end], Dim: p.Dim}
}

func (p plane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}

// Merge collapses points closer than tolerance to an earlier kept point. The
// first point of each cluster survives and input order is preserved. STL
// meshes store float32 coordinates, so vertices shared between facets can
// differ in the last bits and slip through Dedupe.
//
// A tolerance of zero or less behaves like Dedupe.
func Merge(points []geometry.Vector3, tolerance float64) []geometry.Vector3 {
	if tolerance <= 0 || len(points) == 0 {
		return Dedupe(points)
	}

	nodes := make(indexedPoints, len(points))
	for i, p := range points {
		nodes[i] = indexedPoint{Vector3: p, index: i}
	}
	tree := kdtree.New(nodes, false)

	removed := make([]bool, len(points))
	out := make([]geometry.Vector3, 0, len(points))
	for i, p := range points {
		if removed[i] {
			continue
		}
		out = append(out, p)

		keeper := kdtree.NewDistKeeper(tolerance * tolerance)
		tree.NearestSet(keeper, indexedPoint{Vector3: p, index: i})
		for _, c := range keeper.Heap {
			removed[c.Comparable.(indexedPoint).index] = true
		}
	}
	return out
}
