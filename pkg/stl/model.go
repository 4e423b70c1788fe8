package stl

import (
	"github.com/philipparndt/goellipsoid/pkg/geometry"
)

// Model represents a complete STL model
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// Vertices returns every triangle corner in file order. Corners shared by
// adjacent facets appear once per facet.
func (m *Model) Vertices() []geometry.Vector3 {
	vertices := make([]geometry.Vector3, 0, 3*len(m.Triangles))
	for _, triangle := range m.Triangles {
		corners := triangle.Vertices()
		vertices = append(vertices, corners[:]...)
	}
	return vertices
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}
