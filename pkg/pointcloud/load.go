// Package pointcloud loads 3D point sets from STL meshes, OpenSCAD models and
// plain-text coordinate files.
package pointcloud

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"github.com/philipparndt/goellipsoid/pkg/openscad"
	"github.com/philipparndt/goellipsoid/pkg/stl"
)

// Format identifies how a point file is read
type Format int

const (
	// FormatUnknown is any extension Load does not handle
	FormatUnknown Format = iota
	// FormatSTL is an ASCII or binary STL mesh; its vertices are the points
	FormatSTL
	// FormatSCAD is an OpenSCAD model, rendered to STL first
	FormatSCAD
	// FormatText is one point per line
	FormatText
)

// DetectFormat maps a file extension onto a Format
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return FormatSTL
	case ".scad":
		return FormatSCAD
	case ".xyz", ".txt", ".csv":
		return FormatText
	}
	return FormatUnknown
}

// Load reads the points stored in path. The context bounds OpenSCAD
// rendering and is otherwise unused.
func Load(ctx context.Context, path string) ([]geometry.Vector3, error) {
	switch DetectFormat(path) {
	case FormatSTL:
		model, err := stl.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STL file: %w", err)
		}
		return model.Vertices(), nil

	case FormatSCAD:
		return loadSCAD(ctx, path)

	case FormatText:
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()
		return ReadText(file)
	}

	return nil, fmt.Errorf("unsupported file type: %s (expected .stl, .scad, .xyz, .txt or .csv)", filepath.Ext(path))
}

// loadSCAD renders an OpenSCAD model to a temporary STL and reads its vertices
func loadSCAD(ctx context.Context, path string) ([]geometry.Vector3, error) {
	tmp, err := os.CreateTemp("", "goellipsoid-*.stl")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary STL: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	renderer := openscad.NewRenderer(filepath.Dir(path))
	if err := renderer.RenderToSTL(ctx, path, tmpPath); err != nil {
		return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
	}

	model, err := stl.Parse(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered STL: %w", err)
	}
	return model.Vertices(), nil
}

// WatchList returns the files whose changes alter the points loaded from
// path: the file itself, plus every use/include dependency for OpenSCAD.
func WatchList(path string) ([]string, error) {
	if DetectFormat(path) != FormatSCAD {
		return []string{path}, nil
	}
	return openscad.NewRenderer(filepath.Dir(path)).ResolveDependencies(filepath.Base(path))
}

// Dedupe returns points with exact duplicates removed, keeping the first
// occurrence. Mesh vertices are shared between facets and would otherwise
// weigh in once per facet.
func Dedupe(points []geometry.Vector3) []geometry.Vector3 {
	seen := make(map[geometry.Vector3]struct{}, len(points))
	out := make([]geometry.Vector3, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
