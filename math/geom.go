// math/geom.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
)

///////////////////////////////////////////////////////////////////////////
// Extent2

// Extent2 represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent2 struct {
	P0, P1 [2]float64
}

// EmptyExtent2 returns an Extent2 representing an empty bounding box.
func EmptyExtent2() Extent2 {
	// Degenerate bounds
	return Extent2{P0: [2]float64{1e30, 1e30}, P1: [2]float64{-1e30, -1e30}}
}

// Extent2FromPoints returns an Extent2 that bounds all of the provided
// points.
func Extent2FromPoints(pts [][2]float64) Extent2 {
	e := EmptyExtent2()
	for _, p := range pts {
		for d := 0; d < 2; d++ {
			if p[d] < e.P0[d] {
				e.P0[d] = p[d]
			}
			if p[d] > e.P1[d] {
				e.P1[d] = p[d]
			}
		}
	}
	return e
}

func (e Extent2) Inside(p [2]float64) bool {
	return p[0] >= e.P0[0] && p[0] <= e.P1[0] && p[1] >= e.P0[1] && p[1] <= e.P1[1]
}

// Overlaps returns true if the two provided Extent2s overlap.
func Overlaps(a Extent2, b Extent2) bool {
	x := (a.P1[0] >= b.P0[0]) && (a.P0[0] <= b.P1[0])
	y := (a.P1[1] >= b.P0[1]) && (a.P0[1] <= b.P1[1])
	return x && y
}

///////////////////////////////////////////////////////////////////////////
// Geometry

// LineLineIntersect returns the intersection point of the two lines
// specified by the vertices (p1, p2) and (p3, p4).  An additional returned
// Boolean value indicates whether a valid intersection was found.  (There's
// no intersection for parallel lines, and none may be found in cases with
// tricky numerics.)
func LineLineIntersect(p1, p2, p3, p4 [2]float64) ([2]float64, bool) {
	d12 := Sub2(p1, p2)
	d34 := Sub2(p3, p4)
	denom := d12[0]*d34[1] - d12[1]*d34[0]
	if gomath.Abs(denom) < 1e-9 {
		return [2]float64{}, false
	}
	numx := (p1[0]*p2[1]-p1[1]*p2[0])*(p3[0]-p4[0]) - (p1[0]-p2[0])*(p3[0]*p4[1]-p3[1]*p4[0])
	numy := (p1[0]*p2[1]-p1[1]*p2[0])*(p3[1]-p4[1]) - (p1[1]-p2[1])*(p3[0]*p4[1]-p3[1]*p4[0])

	return [2]float64{numx / denom, numy / denom}, true
}

// SegmentSegmentIntersect returns the intersection point of the two line segments
// specified by the vertices (p1, p2) and (p3, p4). An additional returned Boolean
// value indicates whether a valid intersection was found within both segments.
func SegmentSegmentIntersect(p1, p2, p3, p4 [2]float64) ([2]float64, bool) {
	// First check if the infinite lines intersect
	p, ok := LineLineIntersect(p1, p2, p3, p4)
	if !ok {
		return [2]float64{}, false
	}

	// See if the intersection point is within the bounding boxes of both segments.
	b0 := Extent2FromPoints([][2]float64{p1, p2})
	b1 := Extent2FromPoints([][2]float64{p3, p4})

	return p, b0.Inside(p) && b1.Inside(p)
}

// PointInPolygon checks whether the given point is inside the given polygon;
// it assumes that the last vertex does not repeat the first one, and so includes
// the edge from pts[len(pts)-1] to pts[0] in its test.
func PointInPolygon(p [2]float64, pts [][2]float64) bool {
	inside := false
	for i := 0; i < len(pts); i++ {
		p0, p1 := pts[i], pts[(i+1)%len(pts)]
		if (p0[1] <= p[1] && p[1] < p1[1]) || (p1[1] <= p[1] && p[1] < p0[1]) {
			x := p0[0] + (p[1]-p0[1])*(p1[0]-p0[0])/(p1[1]-p0[1])
			if x > p[0] {
				inside = !inside
			}
		}
	}
	return inside
}

// PolygonsOverlap reports whether the two simple polygons (open rings, last
// vertex not repeating the first) share any area or touch. Containment of
// either polygon in the other is caught by the vertex tests; crossing or
// touching boundaries by the edge pair tests.
func PolygonsOverlap(a, b [][2]float64) bool {
	if len(a) < 3 || len(b) < 3 {
		return false
	}
	if !Overlaps(Extent2FromPoints(a), Extent2FromPoints(b)) {
		return false
	}

	for _, p := range a {
		if PointInPolygon(p, b) {
			return true
		}
	}
	for _, p := range b {
		if PointInPolygon(p, a) {
			return true
		}
	}

	for i := range a {
		a0, a1 := a[i], a[(i+1)%len(a)]
		for j := range b {
			b0, b1 := b[j], b[(j+1)%len(b)]
			if _, ok := SegmentSegmentIntersect(a0, a1, b0, b1); ok {
				return true
			}
		}
	}
	return false
}

// CirclePoints returns the vertices for a unit circle at the origin with
// the given number of segments, starting at the +y axis and winding
// clockwise.
func CirclePoints(nsegs int) [][2]float64 {
	pts := make([][2]float64, 0, nsegs)
	for d := 0; d < nsegs; d++ {
		angle := Radians(float64(d) / float64(nsegs) * 360)
		pts = append(pts, [2]float64{Sin(angle), Cos(angle)})
	}
	return pts
}
