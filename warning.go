// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package pointmap

import (
	"errors"
	"fmt"
)

// ErrNoSeed is returned by NewMap when no measured pair exists to anchor
// the coordinate frame.
var ErrNoSeed = errors.New("pointmap: no measured pair to seed the reconstruction")

// ConflictError reports two measurements that disagree about the same
// pair beyond tolerance.
type ConflictError struct {
	P, Q int
	A, B float64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("pointmap: conflicting distances for pair (%d, %d): %g and %g", e.P, e.Q, e.A, e.B)
}

// WarningKind classifies the non-fatal findings collected during a solve.
type WarningKind int

const (
	// WarnInconsistent marks a point P whose circles around the
	// references Q and R do not intersect; the point stays unresolved.
	// Measured holds the radii d(P,Q) and d(P,R), Implied the reference
	// separation |QR|.
	WarnInconsistent WarningKind = iota
	// WarnUnderdetermined marks a point P that never accumulated two
	// resolved reference distances. The remaining fields are unused.
	WarnUnderdetermined
	// WarnDistanceMismatch marks a measurement between endpoints P and Q
	// whose resolved positions disagree with the measured distance.
	// Measured[0] holds the recorded distance, Implied the reconstructed
	// |PQ|; R and Measured[1] are unused.
	WarnDistanceMismatch
)

// Warning describes one non-fatal finding of a solve. Which fields are
// meaningful depends on Kind (see the kind constants); unused identifier
// fields hold -1 and unused distances zero.
type Warning struct {
	Kind     WarningKind
	P, Q, R  int
	Measured [2]float64
	Implied  float64
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnInconsistent:
		return fmt.Sprintf("point %d: circles around %d (r=%g) and %d (r=%g) separated by %g do not intersect",
			w.P, w.Q, w.Measured[0], w.R, w.Measured[1], w.Implied)
	case WarnUnderdetermined:
		return fmt.Sprintf("point %d: fewer than two resolved reference distances", w.P)
	case WarnDistanceMismatch:
		return fmt.Sprintf("points %d and %d: measured distance %g, reconstructed %g",
			w.P, w.Q, w.Measured[0], w.Implied)
	}
	return fmt.Sprintf("unknown warning kind %d", w.Kind)
}
