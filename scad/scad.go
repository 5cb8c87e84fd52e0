// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package scad writes reconstructed points and triangle meshes as
// OpenSCAD vector literals. OpenSCAD cannot read CSV, but the generated
// files can be imported with `include <points.scad>`.

package scad

import (
	"fmt"
	"io"
	"strings"

	"github.com/2dChan/pointmap"
)

// WritePoints writes the points as a single vector literal:
//
//	points = [
//	         [1, [0,0]],
//	         [2, [10,0]],
//	];
//
// Callers pass resolved points only; the writer does no validation.
func WritePoints(w io.Writer, points []pointmap.Point) error {
	const decl = "points = ["
	if _, err := fmt.Fprintln(w, decl); err != nil {
		return err
	}
	indent := strings.Repeat(" ", len(decl)-1)
	for _, p := range points {
		if _, err := fmt.Fprintf(w, "%s[%d, [%g,%g]],\n", indent, p.ID, p.Pos.X, p.Pos.Y); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "];")
	return err
}

// WriteTriangles writes the triangles as a single vector literal:
//
//	tris = [
//	       [1, 2, 3],
//	];
//
// The triples are point identifiers, as produced by Mesh.TriangleIDs.
func WriteTriangles(w io.Writer, tris [][3]int) error {
	const decl = "tris = ["
	if _, err := fmt.Fprintln(w, decl); err != nil {
		return err
	}
	indent := strings.Repeat(" ", len(decl)-1)
	for _, t := range tris {
		if _, err := fmt.Fprintf(w, "%s[%d, %d, %d],\n", indent, t[0], t[1], t[2]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "];")
	return err
}
