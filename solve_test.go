// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package pointmap

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/2dChan/pointmap/utils"
)

func TestNewMap_Validation(t *testing.T) {
	tests := []struct {
		name string
		ms   []Measurement
	}{
		{"self pair", []Measurement{{P: 1, Q: 1, Dist: 5}}},
		{"zero distance", []Measurement{{P: 1, Q: 2, Dist: 0}}},
		{"negative distance", []Measurement{{P: 1, Q: 2, Dist: -1}}},
		{"NaN distance", []Measurement{{P: 1, Q: 2, Dist: math.NaN()}}},
		{"infinite distance", []Measurement{{P: 1, Q: 2, Dist: math.Inf(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMap(tt.ms); err == nil {
				t.Errorf("NewMap(%v) error = nil, want non-nil", tt.ms)
			}
		})
	}
}

func TestNewMap_NoSeed(t *testing.T) {
	if _, err := NewMap(nil); !errors.Is(err, ErrNoSeed) {
		t.Errorf("NewMap(nil) error = %v, want ErrNoSeed", err)
	}
	if _, err := NewMap(nil, WithPoints(1, 2)); !errors.Is(err, ErrNoSeed) {
		t.Errorf("NewMap(nil, WithPoints(1, 2)) error = %v, want ErrNoSeed", err)
	}
}

func TestNewMap_Conflict(t *testing.T) {
	ms := []Measurement{
		{P: 1, Q: 2, Dist: 10},
		{P: 2, Q: 1, Dist: 11},
	}
	_, err := NewMap(ms)

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("NewMap(...) error = %v, want *ConflictError", err)
	}
	want := &ConflictError{P: 1, Q: 2, A: 10, B: 11}
	if diff := cmp.Diff(want, conflict); diff != "" {
		t.Errorf("NewMap(...) conflict mismatch (-want +got):\n%s", diff)
	}
}

func TestNewMap_DuplicateAgreeing(t *testing.T) {
	ms := []Measurement{
		{P: 1, Q: 2, Dist: 10},
		{P: 2, Q: 1, Dist: 10},
	}
	m := mustNewMap(t, ms)
	if len(m.Warnings) != 0 {
		t.Errorf("m.Warnings = %v, want none", m.Warnings)
	}
}

func TestNewMap_Gauge(t *testing.T) {
	m := mustNewMap(t, []Measurement{{P: 5, Q: 9, Dist: 7}})

	got5, _ := m.Position(5)
	if diff := cmp.Diff(r2.Point{X: 0, Y: 0}, got5); diff != "" {
		t.Errorf("m.Position(5) mismatch (-want +got):\n%s", diff)
	}
	got9, _ := m.Position(9)
	if diff := cmp.Diff(r2.Point{X: 7, Y: 0}, got9); diff != "" {
		t.Errorf("m.Position(9) mismatch (-want +got):\n%s", diff)
	}
}

// Three mutual distances of 10: the third point is ambiguous under the
// data alone and must land on the positive-y side, flagged as assumed.
func TestNewMap_EquilateralAssumed(t *testing.T) {
	const epsilon = 1e-12
	ms := []Measurement{
		{P: 1, Q: 2, Dist: 10},
		{P: 1, Q: 3, Dist: 10},
		{P: 2, Q: 3, Dist: 10},
	}
	m := mustNewMap(t, ms)

	p, err := m.Point(3)
	if err != nil {
		t.Fatalf("m.Point(3) error = %v, want nil", err)
	}
	if !p.Resolved {
		t.Fatal("m.Point(3) Resolved = false, want true")
	}
	if !p.Assumed {
		t.Error("m.Point(3) Assumed = false, want true")
	}
	if !scalar.EqualWithinAbs(p.Pos.X, 5, epsilon) || !scalar.EqualWithinAbs(p.Pos.Y, math.Sqrt(75), epsilon) {
		t.Errorf("m.Point(3) Pos = %v, want (5, %v)", p.Pos, math.Sqrt(75))
	}

	for _, id := range []int{1, 2} {
		q, err := m.Point(id)
		if err != nil {
			t.Fatalf("m.Point(%d) error = %v, want nil", id, err)
		}
		if q.Assumed {
			t.Errorf("m.Point(%d) Assumed = true, want false", id)
		}
	}
}

// A fourth point with three measured distances is disambiguated by the
// third reference and must not carry the assumed flag.
func TestNewMap_ThirdReference(t *testing.T) {
	const epsilon = 1e-9
	truth := map[int]r2.Point{
		1: {X: 0, Y: 0},
		2: {X: 10, Y: 0},
		3: {X: 5, Y: math.Sqrt(75)},
		4: {X: 3.6, Y: 4.8},
	}
	m := mustNewMap(t, allPairs(truth))

	for id, want := range truth {
		got, ok := m.Position(id)
		if !ok {
			t.Fatalf("m.Position(%d) resolved = false, want true", id)
		}
		if !scalar.EqualWithinAbs(got.X, want.X, epsilon) || !scalar.EqualWithinAbs(got.Y, want.Y, epsilon) {
			t.Errorf("m.Position(%d) = %v, want %v", id, got, want)
		}
	}

	p3, _ := m.Point(3)
	if !p3.Assumed {
		t.Error("m.Point(3) Assumed = false, want true")
	}
	p4, _ := m.Point(4)
	if p4.Assumed {
		t.Error("m.Point(4) Assumed = true, want false")
	}
	if len(m.Warnings) != 0 {
		t.Errorf("m.Warnings = %v, want none", m.Warnings)
	}
}

// AB=5 with AC=3 and BC=100 cannot close a triangle: the solve must
// report the non-intersecting circles and leave C unresolved.
func TestNewMap_Inconsistent(t *testing.T) {
	ms := []Measurement{
		{P: 1, Q: 2, Dist: 5},
		{P: 1, Q: 3, Dist: 3},
		{P: 2, Q: 3, Dist: 100},
	}
	m := mustNewMap(t, ms)

	if _, ok := m.Position(3); ok {
		t.Error("m.Position(3) resolved = true, want false")
	}
	want := []Warning{{
		Kind:     WarnInconsistent,
		P:        3,
		Q:        1,
		R:        2,
		Measured: [2]float64{3, 100},
		Implied:  5,
	}}
	if diff := cmp.Diff(want, m.Warnings); diff != "" {
		t.Errorf("m.Warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestNewMap_Underdetermined(t *testing.T) {
	ms := []Measurement{
		{P: 1, Q: 2, Dist: 10},
		{P: 1, Q: 3, Dist: 4},
	}
	m := mustNewMap(t, ms, WithPoints(7))

	if diff := cmp.Diff([]int{3, 7}, m.UnresolvedIDs()); diff != "" {
		t.Errorf("m.UnresolvedIDs() mismatch (-want +got):\n%s", diff)
	}
	want := []Warning{
		{Kind: WarnUnderdetermined, P: 3, Q: -1, R: -1},
		{Kind: WarnUnderdetermined, P: 7, Q: -1, R: -1},
	}
	if diff := cmp.Diff(want, m.Warnings); diff != "" {
		t.Errorf("m.Warnings mismatch (-want +got):\n%s", diff)
	}
}

// An extra reference distance that matches neither candidate resolves the
// point to the closer fit and surfaces the residual as a mismatch.
func TestNewMap_DistanceMismatch(t *testing.T) {
	const epsilon = 1e-9
	ms := []Measurement{
		{P: 1, Q: 2, Dist: 10},
		{P: 1, Q: 3, Dist: 10},
		{P: 2, Q: 3, Dist: 10},
		{P: 1, Q: 4, Dist: 6},
		{P: 2, Q: 4, Dist: 8},
		{P: 3, Q: 4, Dist: 10},
	}
	m := mustNewMap(t, ms)

	// The negative-y candidate (3.6, -4.8) lies closer to the measured
	// 10 than the positive-y one.
	got, ok := m.Position(4)
	if !ok {
		t.Fatal("m.Position(4) resolved = false, want true")
	}
	if !scalar.EqualWithinAbs(got.X, 3.6, epsilon) || !scalar.EqualWithinAbs(got.Y, -4.8, epsilon) {
		t.Errorf("m.Position(4) = %v, want (3.6, -4.8)", got)
	}

	if len(m.Warnings) != 1 {
		t.Fatalf("m.Warnings = %v, want exactly one", m.Warnings)
	}
	w := m.Warnings[0]
	if w.Kind != WarnDistanceMismatch || w.P != 3 || w.Q != 4 || w.Measured[0] != 10 {
		t.Errorf("m.Warnings[0] = %+v, want DistanceMismatch for pair (3, 4) measured 10", w)
	}
	wantImplied := math.Hypot(5-3.6, math.Sqrt(75)+4.8)
	if !scalar.EqualWithinAbs(w.Implied, wantImplied, epsilon) {
		t.Errorf("m.Warnings[0].Implied = %v, want %v", w.Implied, wantImplied)
	}
}

func TestNewMap_RoundTrip(t *testing.T) {
	const epsilon = 1e-6
	truth := indexed(utils.GenerateRandomPoints(12, 1))
	m := mustNewMap(t, allPairs(truth))

	if len(m.Warnings) != 0 {
		t.Fatalf("m.Warnings = %v, want none", m.Warnings)
	}
	assertCongruent(t, truth, m, epsilon)
}

func TestNewMap_RigidMotionInvariance(t *testing.T) {
	const epsilon = 1e-6
	base := utils.GenerateRandomPoints(10, 3)
	moved := utils.Transform(base, 0.7, r2.Point{X: -20, Y: 13})

	m := mustNewMap(t, allPairs(indexed(moved)))

	// The reconstruction of the moved set must be congruent to the
	// original set: same pairwise distances, gauge aside.
	assertCongruent(t, indexed(base), m, epsilon)
}

func TestNewMap_Determinism(t *testing.T) {
	ms := allPairs(indexed(utils.GenerateRandomPoints(15, 5)))

	m1 := mustNewMap(t, ms)
	m2 := mustNewMap(t, ms)

	if diff := cmp.Diff(m1.Points, m2.Points); diff != "" {
		t.Errorf("repeated NewMap(...) points mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m1.Warnings, m2.Warnings); diff != "" {
		t.Errorf("repeated NewMap(...) warnings mismatch (-want +got):\n%s", diff)
	}
}

// circleIntersect

func TestCircleIntersect(t *testing.T) {
	const eps = 1e-9
	ca := r2.Point{X: 0, Y: 0}
	cb := r2.Point{X: 10, Y: 0}

	tests := []struct {
		name   string
		ra, rb float64
		wantN  int
		wantP1 r2.Point
		wantP2 r2.Point
	}{
		{"two solutions", 10, 10, 2, r2.Point{X: 5, Y: math.Sqrt(75)}, r2.Point{X: 5, Y: -math.Sqrt(75)}},
		{"tangent", 4, 6, 1, r2.Point{X: 4, Y: 0}, r2.Point{X: 4, Y: 0}},
		{"near tangent within eps", 4, 6 - 1e-12, 1, r2.Point{X: 4, Y: 0}, r2.Point{X: 4, Y: 0}},
		{"disjoint", 3, 4, 0, r2.Point{}, r2.Point{}},
		{"contained", 1, 20, 0, r2.Point{}, r2.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p1, p2, n := circleIntersect(ca, cb, tt.ra, tt.rb, eps)
			if n != tt.wantN {
				t.Fatalf("circleIntersect(%v, %v, %v, %v) n = %v, want %v", ca, cb, tt.ra, tt.rb, n, tt.wantN)
			}
			if n == 0 {
				return
			}
			if !pointNear(p1, tt.wantP1, eps) || !pointNear(p2, tt.wantP2, eps) {
				t.Errorf("circleIntersect(%v, %v, %v, %v) = %v, %v, want %v, %v",
					ca, cb, tt.ra, tt.rb, p1, p2, tt.wantP1, tt.wantP2)
			}
		})
	}
}

// Benchmarks

func BenchmarkNewMap(b *testing.B) {
	sizes := []int{10, 30, 100}
	for _, pointsCnt := range sizes {
		b.Run(fmt.Sprintf("N%d", pointsCnt), func(b *testing.B) {
			ms := allPairs(indexed(utils.GenerateRandomPoints(pointsCnt, 0)))

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := NewMap(ms)
				if err != nil {
					b.Fatalf("NewMap(...) error = %v, want nil", err)
				}
			}
		})
	}
}

// Helpers

func mustNewMap(t *testing.T, ms []Measurement, setters ...MapOption) *Map {
	t.Helper()
	m, err := NewMap(ms, setters...)
	if err != nil {
		t.Fatalf("NewMap(...) error = %v, want nil", err)
	}
	return m
}

func indexed(points []r2.Point) map[int]r2.Point {
	truth := make(map[int]r2.Point, len(points))
	for i, p := range points {
		truth[i] = p
	}
	return truth
}

func allPairs(truth map[int]r2.Point) []Measurement {
	ids := make([]int, 0, len(truth))
	for id := range truth {
		ids = append(ids, id)
	}
	// Sorted for reproducible measurement order.
	sort.Ints(ids)

	var ms []Measurement
	for i, p := range ids {
		for _, q := range ids[i+1:] {
			ms = append(ms, Measurement{P: p, Q: q, Dist: truth[p].Sub(truth[q]).Norm()})
		}
	}
	return ms
}

// assertCongruent checks that the reconstructed pairwise distances match
// the ground truth's.
func assertCongruent(t *testing.T, truth map[int]r2.Point, m *Map, epsilon float64) {
	t.Helper()
	for p, tp := range truth {
		for q, tq := range truth {
			if p >= q {
				continue
			}
			gp, ok1 := m.Position(p)
			gq, ok2 := m.Position(q)
			if !ok1 || !ok2 {
				t.Fatalf("points %d, %d not resolved", p, q)
			}
			want := tp.Sub(tq).Norm()
			got := gp.Sub(gq).Norm()
			if !scalar.EqualWithinAbs(got, want, epsilon) {
				t.Errorf("reconstructed distance (%d, %d) = %v, want %v", p, q, got, want)
			}
		}
	}
}

func pointNear(a, b r2.Point, eps float64) bool {
	return a.Sub(b).Norm() <= eps
}
