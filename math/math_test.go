// math/math_test.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"math/rand"
	"testing"
)

func TestBearing(t *testing.T) {
	type Test struct {
		from, to Point3
		heading  float64
	}
	for _, test := range []Test{
		Test{from: Point3{0, 0, 0}, to: Point3{0, 1000, 0}, heading: 0},
		Test{from: Point3{0, 0, 0}, to: Point3{1000, 0, 0}, heading: 90},
		Test{from: Point3{0, 0, 0}, to: Point3{0, -1000, 0}, heading: 180},
		Test{from: Point3{0, 0, 0}, to: Point3{-1000, 0, 0}, heading: 270},
		Test{from: Point3{0, 0, 0}, to: Point3{500, 500, 0}, heading: 45},
		Test{from: Point3{100, 100, 50}, to: Point3{100, 100, 90}, heading: 0}, // coincident in the plane
	} {
		h := Bearing(test.from, test.to)
		if Abs(h-test.heading) > 1e-9 {
			t.Errorf("bearing %v -> %v: got %g, expected %g", test.from, test.to, h, test.heading)
		}
	}
}

func TestProject(t *testing.T) {
	p := Project(Point3{0, 0, 42}, 1000, 0)
	if Abs(p[0]) > 1e-9 || Abs(p[1]-1000) > 1e-9 {
		t.Errorf("project north: got %v", p)
	}
	if p[2] != 42 {
		t.Errorf("project should carry elevation over: got z=%g", p[2])
	}

	p = Project(Point3{10, 10, 0}, 500, 90)
	if Abs(p[0]-510) > 1e-9 || Abs(p[1]-10) > 1e-9 {
		t.Errorf("project east: got %v", p)
	}

	// Projecting and taking the bearing back should round-trip.
	for i := 0; i < 32; i++ {
		orig := Point3{-1e5 + 2e5*rand.Float64(), -1e5 + 2e5*rand.Float64(), 0}
		dist := 1 + 9999*rand.Float64()
		hdg := 360 * rand.Float64()
		q := Project(orig, dist, hdg)
		if d := HorizontalDistance(orig, q); Abs(d-dist) > 1e-6 {
			t.Errorf("project distance: expected %g got %g", dist, d)
		}
		if h := Bearing(orig, q); HeadingDifference(h, NormalizeHeading(hdg)) > 1e-6 {
			t.Errorf("project bearing: expected %g got %g", hdg, h)
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	type Test struct {
		a, b float64
		diff float64
	}
	for _, test := range []Test{
		Test{a: 10, b: 350, diff: 20},
		Test{a: 350, b: 10, diff: 20},
		Test{a: 0, b: 180, diff: 180},
		Test{a: 90, b: 90, diff: 0},
		Test{a: 5, b: 95, diff: 90},
	} {
		d := HeadingDifference(test.a, test.b)
		if Abs(d-test.diff) > 1e-9 {
			t.Errorf("heading difference (%g,%g): got %g, expected %g", test.a, test.b, d, test.diff)
		}
	}
}

func TestNormalizeHeading(t *testing.T) {
	type Test struct {
		h, norm float64
	}
	for _, test := range []Test{
		Test{h: -90, norm: 270},
		Test{h: 360, norm: 0},
		Test{h: 725, norm: 5},
		Test{h: 180, norm: 180},
	} {
		if n := NormalizeHeading(test.h); Abs(n-test.norm) > 1e-9 {
			t.Errorf("normalize %g: got %g, expected %g", test.h, n, test.norm)
		}
	}
}

func TestPointInPolygon(t *testing.T) {
	testCases := []struct {
		name     string
		point    [2]float64
		polygon  [][2]float64
		expected bool
	}{
		{
			name:     "PointInsideSimpleSquare",
			point:    [2]float64{1, 1},
			polygon:  [][2]float64{{0, 0}, {0, 2}, {2, 2}, {2, 0}},
			expected: true,
		},
		{
			name:     "PointOutsideSimpleSquare",
			point:    [2]float64{3, 3},
			polygon:  [][2]float64{{0, 0}, {0, 2}, {2, 2}, {2, 0}},
			expected: false,
		},
		{
			name:     "PointInsideConcavePolygon",
			point:    [2]float64{3, 3},
			polygon:  [][2]float64{{0, 0}, {0, 6}, {6, 6}, {6, 0}, {3, 3}},
			expected: true,
		},
		{
			name:     "PointInConcaveNotch",
			point:    [2]float64{3, 1},
			polygon:  [][2]float64{{0, 0}, {0, 6}, {6, 6}, {6, 0}, {3, 3}},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := PointInPolygon(tc.point, tc.polygon)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v for point %v and polygon %v",
					tc.expected, result, tc.point, tc.polygon)
			}
		})
	}
}

func TestPolygonsOverlap(t *testing.T) {
	sq := func(x, y, half float64) [][2]float64 {
		return [][2]float64{{x - half, y - half}, {x - half, y + half}, {x + half, y + half}, {x + half, y - half}}
	}

	testCases := []struct {
		name     string
		a, b     [][2]float64
		expected bool
	}{
		{name: "Disjoint", a: sq(0, 0, 1), b: sq(10, 10, 1), expected: false},
		{name: "PartialOverlap", a: sq(0, 0, 1), b: sq(1, 1, 1), expected: true},
		{name: "AContainsB", a: sq(0, 0, 10), b: sq(0, 0, 1), expected: true},
		{name: "BContainsA", a: sq(0, 0, 1), b: sq(0, 0, 10), expected: true},
		{
			// Cross shapes: edges intersect but no vertex of either is
			// inside the other.
			name:     "EdgesCrossOnly",
			a:        [][2]float64{{-5, -1}, {-5, 1}, {5, 1}, {5, -1}},
			b:        [][2]float64{{-1, -5}, {-1, 5}, {1, 5}, {1, -5}},
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PolygonsOverlap(tc.a, tc.b); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
			// Must be symmetric.
			if got := PolygonsOverlap(tc.b, tc.a); got != tc.expected {
				t.Errorf("swapped args: expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestCirclePoints(t *testing.T) {
	pts := CirclePoints(16)
	if len(pts) != 16 {
		t.Fatalf("expected 16 points, got %d", len(pts))
	}
	for _, p := range pts {
		if r := gomath.Hypot(p[0], p[1]); Abs(r-1) > 1e-9 {
			t.Errorf("point %v not on unit circle (r=%g)", p, r)
		}
	}
	// First point is due north, fifth is due east.
	if Abs(pts[0][0]) > 1e-9 || Abs(pts[0][1]-1) > 1e-9 {
		t.Errorf("expected first point at (0,1), got %v", pts[0])
	}
	if Abs(pts[4][0]-1) > 1e-9 || Abs(pts[4][1]) > 1e-9 {
		t.Errorf("expected fifth point at (1,0), got %v", pts[4])
	}
}

func TestSegmentSegmentIntersect(t *testing.T) {
	p, ok := SegmentSegmentIntersect([2]float64{-1, 0}, [2]float64{1, 0}, [2]float64{0, -1}, [2]float64{0, 1})
	if !ok {
		t.Fatal("expected intersection")
	}
	if Abs(p[0]) > 1e-9 || Abs(p[1]) > 1e-9 {
		t.Errorf("expected intersection at origin, got %v", p)
	}

	if _, ok := SegmentSegmentIntersect([2]float64{-1, 0}, [2]float64{1, 0}, [2]float64{2, -1}, [2]float64{2, 1}); ok {
		t.Error("expected no intersection for disjoint segments")
	}

	if _, ok := SegmentSegmentIntersect([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{0, 1}, [2]float64{1, 1}); ok {
		t.Error("expected no intersection for parallel segments")
	}
}
