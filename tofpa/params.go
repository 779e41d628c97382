// tofpa/params.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package tofpa computes the ICAO Doc 8168 Take-Off Flight Path Area
// obstacle-clearance surface for a runway and evaluates which survey
// obstacles penetrate it, including line-of-sight shadowing among the
// penetrating obstacles.
package tofpa

import (
	"github.com/andures/tofpa/geo"
	"github.com/andures/tofpa/util"
)

// Direction selects which end of the digitized runway centerline is the
// takeoff origin.
type Direction int

const (
	StartToEnd Direction = iota
	EndToStart
)

func (d Direction) String() string {
	if d == EndToStart {
		return "END_TO_START"
	}
	return "START_TO_END"
}

// SurfaceParams are the scalar inputs to the surface builder. Widths and
// lengths are metres; elevations are metres MSL.
type SurfaceParams struct {
	Width          float64 // surface width at the DER
	MaxWidth       float64 // width at full divergence
	ClearwayLength float64 // 0 = no clearway
	ThresholdElev  float64 // z0
	EndElev        float64 // ze, elevation at the end of the runway
	Direction      Direction
}

// Validate appends a human-readable message to e for each problem with the
// scalar parameters. It never touches geometry.
func (p SurfaceParams) Validate(e *util.ErrorLogger) {
	if p.Width <= 0 {
		e.ErrorString("Initial width must be greater than 0 m")
	}
	if p.MaxWidth < p.Width {
		e.ErrorString("Maximum width must be >= initial width")
	}
	if p.MaxWidth == p.Width {
		e.ErrorString("Max width equals initial width; surface will have no divergence")
	}
}

// ValidateParameters runs all pre-flight checks and returns the list of
// violations; an empty list means the calculation may proceed.
func ValidateParameters(p SurfaceParams, runway, threshold *geo.Layer) []string {
	var e util.ErrorLogger
	p.Validate(&e)
	if runway == nil {
		e.ErrorString("No runway layer selected")
	}
	if threshold == nil {
		e.ErrorString("No threshold layer selected")
	}
	return e.Errors()
}

// ObstacleParams control the obstacle evaluation and shadow passes.
type ObstacleParams struct {
	HeightField     string  // attribute holding obstacle height; "" = use MinHeight for all
	BufferDistance  float64 // horizontal safety buffer radius, metres
	MinHeight       float64 // floor for resolved obstacle heights, metres
	EnableShadow    bool
	ShadowTolerance float64 // angular cone, degrees
	Workers         int     // obstacle evaluation concurrency; <=1 is serial
}

func DefaultObstacleParams() ObstacleParams {
	return ObstacleParams{
		BufferDistance:  10,
		MinHeight:       5,
		ShadowTolerance: 5,
		Workers:         1,
	}
}
