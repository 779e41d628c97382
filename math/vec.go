// math/vec.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// point 2d

// Various useful functions for arithmetic with 2D points/vectors.
// Names are brief in order to avoid clutter when they're used.

// a+b
func Add2(a [2]float64, b [2]float64) [2]float64 {
	return [2]float64{a[0] + b[0], a[1] + b[1]}
}

// midpoint of a and b
func Mid2(a [2]float64, b [2]float64) [2]float64 {
	return Scale2(Add2(a, b), 0.5)
}

// a-b
func Sub2(a [2]float64, b [2]float64) [2]float64 {
	return [2]float64{a[0] - b[0], a[1] - b[1]}
}

// a*s
func Scale2(a [2]float64, s float64) [2]float64 {
	return [2]float64{s * a[0], s * a[1]}
}

func Dot(a, b [2]float64) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// Linearly interpolate x of the way between a and b. x==0 corresponds to
// a, x==1 corresponds to b, etc.
func Lerp2(x float64, a [2]float64, b [2]float64) [2]float64 {
	return [2]float64{(1-x)*a[0] + x*b[0], (1-x)*a[1] + x*b[1]}
}

// Length of v
func Length2(v [2]float64) float64 {
	return Sqrt(v[0]*v[0] + v[1]*v[1])
}

// Distance between two points
func Distance2(a [2]float64, b [2]float64) float64 {
	return Length2(Sub2(a, b))
}

// Normalizes the given vector.
func Normalize2(a [2]float64) [2]float64 {
	l := Length2(a)
	if l == 0 {
		return [2]float64{0, 0}
	}
	return Scale2(a, 1/l)
}
