// tofpa/surface.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tofpa

import (
	"log/slog"

	"github.com/andures/tofpa/log"
	"github.com/andures/tofpa/math"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// ICAO Doc 8168 AOC Type A constants.
	DivergenceRatio  = 0.125 // half-width growth per metre of forward distance
	ClimbGradient    = 0.012 // minimum elevation growth per metre of forward distance
	SurfaceLength    = 10000 // metres from the surface start to its far edge
	RefLineHalfWidth = 3000  // metres each side for the perpendicular reference line
)

// Indices into Surface.Polygon. The near edge is the DER edge.
const (
	FarRight = iota
	FarLeft
	MidLeft
	NearLeft
	NearRight
	MidRight
)

// Surface is the TOFPA obstacle-clearance surface: a closed six-vertex ring
// (closure implied) plus the perpendicular reference line at its start.
type Surface struct {
	Polygon [6]math.Point3
	RefLine [2]math.Point3

	Azimuth     float64     // takeoff direction, compass degrees
	Start       math.Point3 // surface start on the extended centerline (DER/clearway end)
	RunwaySlope float64     // computed for reporting; not applied to elevations
}

// Ring returns the planar outline of the surface, open (the closing edge
// from the last vertex back to the first is implied).
func (s *Surface) Ring() [][2]float64 {
	ring := make([][2]float64, 0, len(s.Polygon))
	for _, p := range s.Polygon {
		ring = append(ring, p.XY())
	}
	return ring
}

// TakeoffReferencePoint returns the midpoint of the surface's near (DER)
// edge; all shadow-analysis bearings and elevation angles are anchored
// here.
func (s *Surface) TakeoffReferencePoint() math.Point3 {
	return math.Mid3(s.Polygon[NearLeft], s.Polygon[NearRight])
}

// BuildSurface constructs the TOFPA surface and reference line from the
// digitized runway centerline, the threshold point, and the scalar
// parameters.
//
// The surface start sits ClearwayLength metres past the threshold along the
// takeoff azimuth, at elevation ze; no slope interpolation between z0 and
// ze is applied to the surface points (the slope is computed and reported
// only).
func BuildSurface(runway orb.LineString, threshold orb.Point, p SurfaceParams, lg *log.Logger) (*Surface, error) {
	if len(runway) < 2 {
		return nil, ErrRunwayTooShort
	}

	rwyLength := planar.Length(runway)
	if rwyLength == 0 {
		return nil, ErrZeroLengthRunway
	}
	rwySlope := (p.ThresholdElev - p.EndElev) / rwyLength

	var start, end math.Point3
	if p.Direction == StartToEnd {
		start = math.MakePoint3(runway[0], 0)
		end = math.MakePoint3(runway[len(runway)-1], 0)
	} else {
		start = math.MakePoint3(runway[len(runway)-1], 0)
		end = math.MakePoint3(runway[0], 0)
	}
	azimuth := math.Bearing(start, end)

	lg.Debug("runway resolved",
		slog.Float64("length_m", rwyLength),
		slog.Float64("slope", rwySlope),
		slog.Float64("azimuth_deg", azimuth),
		slog.String("direction", p.Direction.String()))

	threshold3 := math.MakePoint3(threshold, p.ThresholdElev)

	// Surface start: threshold displaced by the clearway length along the
	// takeoff direction, elevation forced to the runway-end elevation.
	ptStart := math.Project(threshold3, p.ClearwayLength, azimuth).WithZ(p.EndElev)
	nearLeft := math.Project(ptStart, p.Width/2, azimuth+90)
	nearRight := math.Project(ptStart, p.Width/2, azimuth-90)

	// Distance to reach maximum width; the surface climbs at the fixed
	// gradient from the start elevation. Equal widths give dDiv == 0 and
	// the surface degenerates to a rectangle.
	dDiv := (p.MaxWidth/2 - p.Width/2) / DivergenceRatio
	ptMid := math.Project(ptStart, dDiv, azimuth).WithZ(p.EndElev + dDiv*ClimbGradient)
	midLeft := math.Project(ptMid, p.MaxWidth/2, azimuth+90)
	midRight := math.Project(ptMid, p.MaxWidth/2, azimuth-90)

	ptEnd := math.Project(ptStart, SurfaceLength, azimuth).WithZ(p.EndElev + SurfaceLength*ClimbGradient)
	farLeft := math.Project(ptEnd, p.MaxWidth/2, azimuth+90)
	farRight := math.Project(ptEnd, p.MaxWidth/2, azimuth-90)

	lg.Debug("surface points",
		slog.Any("start", ptStart),
		slog.Float64("divergence_dist_m", dDiv),
		slog.Any("mid", ptMid),
		slog.Any("end", ptEnd))

	return &Surface{
		Polygon: [6]math.Point3{
			FarRight:  farRight,
			FarLeft:   farLeft,
			MidLeft:   midLeft,
			NearLeft:  nearLeft,
			NearRight: nearRight,
			MidRight:  midRight,
		},
		RefLine: [2]math.Point3{
			math.Project(ptStart, RefLineHalfWidth, azimuth+90),
			math.Project(ptStart, RefLineHalfWidth, azimuth-90),
		},
		Azimuth:     azimuth,
		Start:       ptStart,
		RunwaySlope: rwySlope,
	}, nil
}
