// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package delaunay triangulates planar point sets. It lifts the points
// onto the paraboloid z = x² + y² and reads the Delaunay triangles off
// the lower convex hull.

package delaunay

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
)

const (
	// defaultEpsScale fixes the default tolerance relative to the
	// bounding-box diagonal of the input.
	defaultEpsScale = 1e-9
)

// WarningKind classifies the non-fatal findings of a triangulation.
type WarningKind int

const (
	// WarnCollinear marks an input whose points all lie on one line
	// within tolerance; no non-degenerate triangle exists.
	WarnCollinear WarningKind = iota
	// WarnDroppedTriangle marks a candidate triangle dropped because its
	// smallest height is below tolerance.
	WarnDroppedTriangle
)

// Warning describes one non-fatal finding of a triangulation.
type Warning struct {
	Kind WarningKind
	// Triangle holds the vertex indices of a dropped triangle.
	Triangle [3]int
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnCollinear:
		return "input points are collinear; no triangles emitted"
	case WarnDroppedTriangle:
		return fmt.Sprintf("triangle %v dropped: area below tolerance", w.Triangle)
	}
	return fmt.Sprintf("unknown warning kind %d", w.Kind)
}

// Triangulation is a Delaunay-style triangulation of a planar point set.
type Triangulation struct {
	// Points are the input vertices; triangle entries index into them.
	Points []r2.Point
	// Triangles lists vertex index triples, each counter-clockwise by
	// signed area, rotated to start at the smallest index and sorted
	// lexicographically.
	Triangles [][3]int
	// Warnings collects collinear-input and dropped-triangle findings.
	Warnings []Warning
}

// NumTriangles returns the number of emitted triangles.
func (dt *Triangulation) NumTriangles() int {
	return len(dt.Triangles)
}

// TriangleVertices returns the three vertices of the triangle at tIdx.
// It returns an error if tIdx is out of range.
func (dt *Triangulation) TriangleVertices(tIdx int) (a, b, c r2.Point, err error) {
	if tIdx < 0 || tIdx >= len(dt.Triangles) {
		return r2.Point{}, r2.Point{}, r2.Point{}, fmt.Errorf("TriangleVertices: index %d out of range [0 %d)", tIdx, len(dt.Triangles))
	}
	t := dt.Triangles[tIdx]
	return dt.Points[t[0]], dt.Points[t[1]], dt.Points[t[2]], nil
}

// TriangulationOptions holds the configuration of a triangulation.
type TriangulationOptions struct {
	// Eps is the degeneracy tolerance. Zero means a default scaled to
	// the bounding-box diagonal of the input.
	Eps float64
}

// TriangulationOption configures NewTriangulation.
type TriangulationOption func(*TriangulationOptions) error

// WithEps sets the degeneracy tolerance. Eps must be positive.
func WithEps(eps float64) TriangulationOption {
	return func(o *TriangulationOptions) error {
		if eps <= 0 {
			return fmt.Errorf("WithEps: eps must be positive, got %v", eps)
		}
		o.Eps = eps
		return nil
	}
}

// NewTriangulation triangulates the given points.
//
// Fewer than three points yield an empty triangulation without error.
// Collinear input yields an empty triangulation with a WarnCollinear
// warning. Candidate triangles whose smallest height is within tolerance
// of zero are dropped with a WarnDroppedTriangle warning.
func NewTriangulation(points []r2.Point, setters ...TriangulationOption) (*Triangulation, error) {
	opts := TriangulationOptions{}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	dt := &Triangulation{Points: points}
	if len(points) < 3 {
		return dt, nil
	}

	eps := opts.Eps
	if eps == 0 {
		eps = defaultEpsScale * diagonal(points)
	}
	if collinear(points, eps) {
		dt.Warnings = append(dt.Warnings, Warning{Kind: WarnCollinear})
		return dt, nil
	}

	var raw [][3]int
	if len(points) == 3 {
		raw = [][3]int{{0, 1, 2}}
	} else {
		var err error
		raw, err = lowerHullTriangles(points, eps)
		if err != nil {
			return nil, err
		}
	}

	for _, t := range raw {
		a, b, c := points[t[0]], points[t[1]], points[t[2]]
		area2 := b.Sub(a).Cross(c.Sub(a))
		if area2 < 0 {
			t[1], t[2] = t[2], t[1]
			area2 = -area2
		}
		if minHeight(a, b, c, area2) <= eps {
			dt.Warnings = append(dt.Warnings, Warning{Kind: WarnDroppedTriangle, Triangle: rotateMinFirst(t)})
			continue
		}
		dt.Triangles = append(dt.Triangles, rotateMinFirst(t))
	}

	sort.Slice(dt.Triangles, func(i, j int) bool {
		a, b := dt.Triangles[i], dt.Triangles[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})

	return dt, nil
}

// lowerHullTriangles lifts the points onto the paraboloid and keeps the
// downward-facing hull triangles.
func lowerHullTriangles(points []r2.Point, eps float64) ([][3]int, error) {
	lifted := make([]r3.Vector, len(points))
	for i, p := range points {
		lifted[i] = r3.Vector{X: p.X, Y: p.Y, Z: p.X*p.X + p.Y*p.Y}
	}

	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(lifted, true, true, eps)
	if len(ch.Indices)%3 != 0 {
		return nil, errors.New("delaunay: inconsistent number of indices returned from QuickHull")
	}

	// quickhull's face winding puts the cross product on the inside of
	// the hull, so downward-facing (lower hull) faces have positive z.
	var tris [][3]int
	for base := 0; base < len(ch.Indices); base += 3 {
		i, j, k := ch.Indices[base], ch.Indices[base+1], ch.Indices[base+2]
		norm := lifted[j].Sub(lifted[i]).Cross(lifted[k].Sub(lifted[i]))
		if norm.Z > 0 {
			tris = append(tris, [3]int{i, j, k})
		}
	}
	return tris, nil
}

// minHeight returns the smallest height of the triangle, given twice its
// (non-negative) area.
func minHeight(a, b, c r2.Point, area2 float64) float64 {
	longest := math.Max(b.Sub(a).Norm(), math.Max(c.Sub(b).Norm(), a.Sub(c).Norm()))
	if longest == 0 {
		return 0
	}
	return area2 / longest
}

// collinear reports whether every point lies within eps of one line.
func collinear(points []r2.Point, eps float64) bool {
	var dir r2.Point
	found := false
	for _, p := range points[1:] {
		v := p.Sub(points[0])
		if v.Norm() > eps {
			dir = v.Normalize()
			found = true
			break
		}
	}
	if !found {
		// All points coincide.
		return true
	}
	for _, p := range points {
		if math.Abs(p.Sub(points[0]).Cross(dir)) > eps {
			return false
		}
	}
	return true
}

func diagonal(points []r2.Point) float64 {
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return hi.Sub(lo).Norm()
}

func rotateMinFirst(t [3]int) [3]int {
	switch {
	case t[1] < t[0] && t[1] < t[2]:
		return [3]int{t[1], t[2], t[0]}
	case t[2] < t[0] && t[2] < t[1]:
		return [3]int{t[2], t[0], t[1]}
	}
	return t
}
