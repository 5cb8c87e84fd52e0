// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package pointmap reconstructs 2D point coordinates from pairwise
// distance measurements by incremental trilateration.

package pointmap

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r2"
)

const (
	// defaultEpsScale fixes the default tolerance relative to the
	// largest measured distance.
	defaultEpsScale = 1e-9
)

// Measurement records the measured distance between two labeled points.
// The pair is unordered: {P: 1, Q: 2, Dist: d} and {P: 2, Q: 1, Dist: d}
// describe the same measurement.
type Measurement struct {
	P, Q int
	Dist float64
}

// Point is a labeled point together with its reconstructed position.
type Point struct {
	ID  int
	Pos r2.Point
	// Resolved reports whether the measurements determined the position.
	// Pos is meaningful only when Resolved is true.
	Resolved bool
	// Assumed reports that no third measurement determined on which side
	// of its two reference points this point lies, and the positive-y
	// gauge rule chose the side.
	Assumed bool
}

// Map is the reconstructed layout produced by NewMap.
//
// The absolute frame is fixed deterministically: the seed point lies at
// the origin, its seed partner on the positive x axis, and reflection
// ambiguities resolve toward positive y (see Point.Assumed).
type Map struct {
	// Points maps every known point identifier to its Point.
	// Identifiers without enough consistent measurements are present
	// with Resolved set to false.
	Points map[int]Point
	// Warnings collects the non-fatal findings of the solve: unresolved
	// points and measurements the reconstruction disagrees with.
	Warnings []Warning
}

// Point returns the point with the given identifier.
// It returns an error if the identifier is unknown.
func (m *Map) Point(id int) (Point, error) {
	p, ok := m.Points[id]
	if !ok {
		return Point{}, fmt.Errorf("Point: unknown identifier %d", id)
	}
	return p, nil
}

// Position returns the reconstructed position of the given point and
// whether it was resolved.
func (m *Map) Position(id int) (r2.Point, bool) {
	p, ok := m.Points[id]
	if !ok || !p.Resolved {
		return r2.Point{}, false
	}
	return p.Pos, true
}

// NumPoints returns the number of known points, resolved or not.
func (m *Map) NumPoints() int {
	return len(m.Points)
}

// Resolved returns the resolved points sorted by identifier.
func (m *Map) Resolved() []Point {
	points := make([]Point, 0, len(m.Points))
	for _, p := range m.Points {
		if p.Resolved {
			points = append(points, p)
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].ID < points[j].ID })
	return points
}

// UnresolvedIDs returns the identifiers of unresolved points sorted
// ascending.
func (m *Map) UnresolvedIDs() []int {
	ids := make([]int, 0)
	for id, p := range m.Points {
		if !p.Resolved {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// MapOptions holds the configuration of a solve.
type MapOptions struct {
	// Eps is the numeric tolerance for degeneracy and inconsistency
	// checks. Zero means a default scaled to the largest measured
	// distance.
	Eps float64
	// Points lists identifiers that must appear in the result even when
	// no measurement references them.
	Points []int
}

// MapOption configures NewMap.
type MapOption func(*MapOptions) error

// WithEps sets the numeric tolerance. Eps must be positive.
func WithEps(eps float64) MapOption {
	return func(o *MapOptions) error {
		if eps <= 0 {
			return fmt.Errorf("WithEps: eps must be positive, got %v", eps)
		}
		o.Eps = eps
		return nil
	}
}

// WithPoints declares point identifiers that may not appear in any
// measurement, so they are still reported (as unresolved) in the result.
func WithPoints(ids ...int) MapOption {
	return func(o *MapOptions) error {
		o.Points = append(o.Points, ids...)
		return nil
	}
}
