// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package pointmap

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats/scalar"
)

// NewMap reconstructs point positions from the given measurements.
//
// The first resolvable pair (lowest identifiers) seeds the frame: the
// first point at the origin, the second on the positive x axis. Every
// further point is placed by intersecting the circles around two already
// resolved references and disambiguated by a third reference when one is
// measured, by the positive-y gauge rule otherwise. Points without two
// consistent resolved references stay unresolved and are reported in
// Map.Warnings.
//
// NewMap returns an error for malformed input: conflicting duplicate
// measurements (ConflictError), non-positive or non-finite distances,
// self-measurements, or an input with no measured pair at all (ErrNoSeed).
func NewMap(measurements []Measurement, setters ...MapOption) (*Map, error) {
	opts := MapOptions{}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	s, err := newSolver(measurements, opts)
	if err != nil {
		return nil, err
	}
	return s.run()
}

type edge struct {
	to   int
	dist float64
}

type solver struct {
	eps float64
	ids []int          // all identifiers, sorted
	adj map[int][]edge // per point, sorted by neighbor identifier
	// dist holds the deduplicated measurements keyed by canonical pair.
	dist map[[2]int]float64

	pos      map[int]r2.Point
	assumed  map[int]bool
	failed   map[int]bool
	queued   map[int]bool
	queue    []int
	warnings []Warning
}

func pairKey(p, q int) [2]int {
	if p > q {
		p, q = q, p
	}
	return [2]int{p, q}
}

func newSolver(measurements []Measurement, opts MapOptions) (*solver, error) {
	maxDist := 0.0
	for _, m := range measurements {
		if m.P == m.Q {
			return nil, fmt.Errorf("pointmap: measurement (%d, %d): endpoints must be distinct", m.P, m.Q)
		}
		if !(m.Dist > 0) || math.IsInf(m.Dist, 1) {
			return nil, fmt.Errorf("pointmap: measurement (%d, %d): distance must be positive and finite, got %v", m.P, m.Q, m.Dist)
		}
		maxDist = math.Max(maxDist, m.Dist)
	}

	eps := opts.Eps
	if eps == 0 {
		eps = defaultEpsScale * maxDist
	}

	s := &solver{
		eps:     eps,
		adj:     make(map[int][]edge),
		dist:    make(map[[2]int]float64),
		pos:     make(map[int]r2.Point),
		assumed: make(map[int]bool),
		failed:  make(map[int]bool),
		queued:  make(map[int]bool),
	}

	known := make(map[int]bool)
	for _, m := range measurements {
		key := pairKey(m.P, m.Q)
		if prev, ok := s.dist[key]; ok {
			if !scalar.EqualWithinAbs(prev, m.Dist, s.eps) {
				return nil, &ConflictError{P: key[0], Q: key[1], A: prev, B: m.Dist}
			}
			continue
		}
		s.dist[key] = m.Dist
		s.adj[m.P] = append(s.adj[m.P], edge{to: m.Q, dist: m.Dist})
		s.adj[m.Q] = append(s.adj[m.Q], edge{to: m.P, dist: m.Dist})
		known[m.P] = true
		known[m.Q] = true
	}
	for _, id := range opts.Points {
		known[id] = true
	}

	s.ids = make([]int, 0, len(known))
	for id := range known {
		s.ids = append(s.ids, id)
	}
	sort.Ints(s.ids)
	for _, edges := range s.adj {
		sort.Slice(edges, func(i, j int) bool { return edges[i].to < edges[j].to })
	}

	return s, nil
}

func (s *solver) run() (*Map, error) {
	if err := s.seed(); err != nil {
		return nil, err
	}

	for len(s.queue) > 0 {
		p := s.queue[0]
		s.queue = s.queue[1:]
		s.queued[p] = false
		s.resolve(p)
	}

	for _, id := range s.ids {
		if _, ok := s.pos[id]; ok || s.failed[id] {
			continue
		}
		s.warnings = append(s.warnings, Warning{Kind: WarnUnderdetermined, P: id, Q: -1, R: -1})
	}
	s.checkConsistency()

	m := &Map{
		Points:   make(map[int]Point, len(s.ids)),
		Warnings: s.warnings,
	}
	for _, id := range s.ids {
		pos, ok := s.pos[id]
		m.Points[id] = Point{
			ID:       id,
			Pos:      pos,
			Resolved: ok,
			Assumed:  s.assumed[id],
		}
	}
	return m, nil
}

// seed anchors the frame on the lowest-identifier measured pair.
func (s *solver) seed() error {
	for _, id := range s.ids {
		edges := s.adj[id]
		if len(edges) == 0 {
			continue
		}
		first := edges[0]
		s.place(id, r2.Point{X: 0, Y: 0})
		s.place(first.to, r2.Point{X: first.dist, Y: 0})
		return nil
	}
	return ErrNoSeed
}

// place fixes a point's position and queues every neighbor that now has
// two resolved references.
func (s *solver) place(id int, pos r2.Point) {
	s.pos[id] = pos
	for _, e := range s.adj[id] {
		n := e.to
		if _, ok := s.pos[n]; ok || s.failed[n] || s.queued[n] {
			continue
		}
		if s.resolvedRefs(n) < 2 {
			continue
		}
		s.queued[n] = true
		s.queue = append(s.queue, n)
	}
}

func (s *solver) resolvedRefs(id int) int {
	cnt := 0
	for _, e := range s.adj[id] {
		if _, ok := s.pos[e.to]; ok {
			cnt++
		}
	}
	return cnt
}

// resolve places point p from its resolved references, if possible.
func (s *solver) resolve(p int) {
	refs := make([]edge, 0, len(s.adj[p]))
	for _, e := range s.adj[p] {
		if _, ok := s.pos[e.to]; ok {
			refs = append(refs, e)
		}
	}

	// First reference pair with distinct positions. Coincident pairs
	// cannot pin a direction; the point may still resolve later when
	// another reference appears.
	ai, bi := -1, -1
	for i := 0; i < len(refs) && ai < 0; i++ {
		for j := i + 1; j < len(refs); j++ {
			if s.pos[refs[i].to].Sub(s.pos[refs[j].to]).Norm() > s.eps {
				ai, bi = i, j
				break
			}
		}
	}
	if ai < 0 {
		return
	}

	a, b := refs[ai], refs[bi]
	ca, cb := s.pos[a.to], s.pos[b.to]
	c1, c2, n := circleIntersect(ca, cb, a.dist, b.dist, s.eps)
	if n == 0 {
		s.warnings = append(s.warnings, Warning{
			Kind:     WarnInconsistent,
			P:        p,
			Q:        a.to,
			R:        b.to,
			Measured: [2]float64{a.dist, b.dist},
			Implied:  cb.Sub(ca).Norm(),
		})
		s.failed[p] = true
		return
	}
	if n == 1 {
		s.place(p, c1)
		return
	}

	extras := make([]edge, 0, len(refs)-2)
	for i, e := range refs {
		if i != ai && i != bi {
			extras = append(extras, e)
		}
	}
	if len(extras) == 0 {
		// Genuinely ambiguous: gauge rule picks the greater y
		// (ties broken by greater x) and records the assumption.
		pick := c1
		if c2.Y > c1.Y || (c2.Y == c1.Y && c2.X > c1.X) {
			pick = c2
		}
		s.assumed[p] = true
		s.place(p, pick)
		return
	}

	// The first extra reference matching either candidate within eps is
	// authoritative. If none matches, the closest fit to the first extra
	// reference wins and the consistency pass reports the residual.
	for _, e := range extras {
		res1 := math.Abs(c1.Sub(s.pos[e.to]).Norm() - e.dist)
		res2 := math.Abs(c2.Sub(s.pos[e.to]).Norm() - e.dist)
		if res1 <= s.eps || res2 <= s.eps {
			if res1 <= res2 {
				s.place(p, c1)
			} else {
				s.place(p, c2)
			}
			return
		}
	}
	e := extras[0]
	if math.Abs(c1.Sub(s.pos[e.to]).Norm()-e.dist) <= math.Abs(c2.Sub(s.pos[e.to]).Norm()-e.dist) {
		s.place(p, c1)
	} else {
		s.place(p, c2)
	}
}

// checkConsistency verifies every measurement between resolved endpoints
// against the reconstruction.
func (s *solver) checkConsistency() {
	keys := make([][2]int, 0, len(s.dist))
	for key := range s.dist {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	for _, key := range keys {
		pa, ok1 := s.pos[key[0]]
		pb, ok2 := s.pos[key[1]]
		if !ok1 || !ok2 {
			continue
		}
		want := s.dist[key]
		got := pb.Sub(pa).Norm()
		if !scalar.EqualWithinAbs(got, want, s.eps) {
			s.warnings = append(s.warnings, Warning{
				Kind:     WarnDistanceMismatch,
				P:        key[0],
				Q:        key[1],
				R:        -1,
				Measured: [2]float64{want},
				Implied:  got,
			})
		}
	}
}

// circleIntersect solves the two-circle intersection for centers ca, cb
// and radii ra, rb. It returns zero, one (tangential within eps), or two
// candidate points. With two candidates, p1 lies on the counter-clockwise
// side of the ca→cb axis.
func circleIntersect(ca, cb r2.Point, ra, rb, eps float64) (p1, p2 r2.Point, n int) {
	ab := cb.Sub(ca)
	d := ab.Norm()
	if d > ra+rb+eps || d < math.Abs(ra-rb)-eps {
		return r2.Point{}, r2.Point{}, 0
	}

	along := (ra*ra - rb*rb + d*d) / (2 * d)
	h2 := ra*ra - along*along
	if h2 < 0 {
		h2 = 0
	}
	h := math.Sqrt(h2)

	u := ab.Mul(1 / d)
	base := ca.Add(u.Mul(along))
	if h <= eps {
		return base, base, 1
	}
	off := u.Ortho().Mul(h)
	return base.Add(off), base.Sub(off), 2
}
