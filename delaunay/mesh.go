// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package delaunay

import (
	"github.com/golang/geo/r2"

	"github.com/2dChan/pointmap"
)

// Mesh ties a triangulation back to the point identifiers of a
// reconstructed layout.
type Mesh struct {
	*Triangulation
	// IDs maps triangulation vertex indices to point identifiers,
	// ascending.
	IDs []int
	// Skipped lists the identifiers excluded from meshing because the
	// reconstruction left them unresolved.
	Skipped []int
}

// NewMesh triangulates the resolved points of a reconstructed layout.
// Unresolved points are skipped, not guessed.
func NewMesh(m *pointmap.Map, setters ...TriangulationOption) (*Mesh, error) {
	resolved := m.Resolved()
	points := make([]r2.Point, len(resolved))
	ids := make([]int, len(resolved))
	for i, p := range resolved {
		points[i] = p.Pos
		ids[i] = p.ID
	}

	dt, err := NewTriangulation(points, setters...)
	if err != nil {
		return nil, err
	}
	return &Mesh{Triangulation: dt, IDs: ids, Skipped: m.UnresolvedIDs()}, nil
}

// TriangleIDs returns the triangles as point-identifier triples, in the
// triangulation's order and orientation.
func (ms *Mesh) TriangleIDs() [][3]int {
	tris := make([][3]int, len(ms.Triangles))
	for i, t := range ms.Triangles {
		tris[i] = [3]int{ms.IDs[t[0]], ms.IDs[t[1]], ms.IDs[t[2]]}
	}
	return tris
}
