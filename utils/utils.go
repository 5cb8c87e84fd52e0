// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides helpers for generating and transforming planar
// point sets for examples and tests.

package utils

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
)

// Span is the side length of the square that GenerateRandomPoints
// samples from.
const Span = 100.0

// GenerateRandomPoints generates a slice of random points in the square
// [0, Span) × [0, Span). The seed parameter ensures reproducibility.
func GenerateRandomPoints(cnt int, seed int64) []r2.Point {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	points := make([]r2.Point, cnt)

	for i := 0; i < cnt; i++ {
		points[i] = r2.Point{
			X: random.Float64() * Span,
			Y: random.Float64() * Span,
		}
	}

	return points
}

// Transform returns the points rotated by angle radians about the origin
// and then translated by offset.
func Transform(points []r2.Point, angle float64, offset r2.Point) []r2.Point {
	sin, cos := math.Sincos(angle)
	out := make([]r2.Point, len(points))
	for i, p := range points {
		out[i] = r2.Point{
			X: p.X*cos - p.Y*sin + offset.X,
			Y: p.X*sin + p.Y*cos + offset.Y,
		}
	}
	return out
}
