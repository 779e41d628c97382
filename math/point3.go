// math/point3.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// 3D points

// Point3 represents a point in a projected planar coordinate system: x and
// y are metres in the projection, z is elevation in metres and is tracked
// independently of the planar components.
type Point3 [3]float64

func MakePoint3(xy [2]float64, z float64) Point3 {
	return Point3{xy[0], xy[1], z}
}

// XY returns the planar components of p.
func (p Point3) XY() [2]float64 {
	return [2]float64{p[0], p[1]}
}

// WithZ returns p with its elevation replaced by z.
func (p Point3) WithZ(z float64) Point3 {
	return Point3{p[0], p[1], z}
}

// Mid3 returns the midpoint of a and b, averaging elevation as well.
func Mid3(a, b Point3) Point3 {
	return Point3{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
}

// Project returns the point at the given distance from p along the compass
// bearing (degrees, 0 = +y axis, clockwise). The elevation of p is carried
// over unchanged; callers that need a different z assign it afterward.
func Project(p Point3, distance float64, bearing float64) Point3 {
	b := Radians(bearing)
	return Point3{p[0] + distance*Sin(b), p[1] + distance*Cos(b), p[2]}
}

// Bearing returns the azimuth from 'from' to 'to' in degrees, in [0,360).
//
// Note that atan2() normally measures w.r.t. the +x axis and angles are
// positive for counter-clockwise. We want to measure w.r.t. +y and to have
// positive angles be clockwise. Happily, swapping the order of values
// passed to atan2()--passing (x,y), gives what we want.
//
// Coincident points have no defined direction; Bearing returns 0 for them
// rather than failing.
func Bearing(from, to Point3) float64 {
	dx, dy := to[0]-from[0], to[1]-from[1]
	if dx == 0 && dy == 0 {
		return 0
	}
	return NormalizeHeading(Degrees(Atan2(dx, dy)))
}

// HorizontalDistance returns the planar distance between a and b, ignoring
// their elevations.
func HorizontalDistance(a, b Point3) float64 {
	return Sqrt(Sqr(b[0]-a[0]) + Sqr(b[1]-a[1]))
}
