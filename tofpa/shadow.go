// tofpa/shadow.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tofpa

import (
	"log/slog"

	"github.com/andures/tofpa/log"
	"github.com/andures/tofpa/math"
	"github.com/brunoga/deep"
)

// ShadowPartition is the outcome of the shadow pass: every input record
// lands in exactly one of the two sets, with its shadow fields filled in.
// The records are copies; the evaluator's slice is never touched.
type ShadowPartition struct {
	Shadowed []ObstacleRecord
	Visible  []ObstacleRecord

	TakeoffPoint    math.Point3
	HaveTakeoffSpot bool
}

// AnalyzeShadows determines which critical obstacles are hidden behind
// another critical obstacle as seen from the takeoff reference point. An
// obstacle is shadowed by the first record in input order that is strictly
// closer to the takeoff point, strictly taller, within the bearing
// tolerance, and subtends a greater elevation angle.
//
// Non-critical records are tagged NOT_APPLICABLE and placed in the visible
// set. With no resolvable takeoff reference point (nil surface) the
// analysis degenerates to "all critical obstacles visible".
func AnalyzeShadows(records []ObstacleRecord, surface *Surface, toleranceDeg float64, lg *log.Logger) ShadowPartition {
	recs := deep.MustCopy(records)

	var part ShadowPartition
	if surface != nil {
		part.TakeoffPoint = surface.TakeoffReferencePoint()
		part.HaveTakeoffSpot = true
	}

	var criticals []ObstacleRecord
	for _, r := range recs {
		if r.Critical {
			criticals = append(criticals, r)
		}
	}

	for _, target := range criticals {
		target.ShadowStatus = ShadowVisible
		target.ShadowedBy = -1
		if part.HaveTakeoffSpot {
			if by, ok := findShadower(target, criticals, part.TakeoffPoint, toleranceDeg); ok {
				target.ShadowStatus = ShadowShadowed
				target.ShadowedBy = by
				lg.Debug("obstacle shadowed",
					slog.Int64("id", target.ID), slog.Int64("by", by))
				part.Shadowed = append(part.Shadowed, target)
				continue
			}
		}
		part.Visible = append(part.Visible, target)
	}

	// Non-critical obstacles never participate in shadowing.
	for _, r := range recs {
		if !r.Critical {
			r.ShadowStatus = ShadowNotApplicable
			r.ShadowedBy = -1
			part.Visible = append(part.Visible, r)
		}
	}

	return part
}

// findShadower returns the id of the first obstacle in input order that
// blocks the line of sight from the takeoff point to target. The four
// conditions are checked in order; all must hold.
func findShadower(target ObstacleRecord, all []ObstacleRecord, takeoff math.Point3, toleranceDeg float64) (int64, bool) {
	targetDist := math.HorizontalDistance(takeoff, target.Point)
	targetBearing := math.Bearing(takeoff, target.Point)

	for _, other := range all {
		if other.ID == target.ID {
			continue
		}
		otherDist := math.HorizontalDistance(takeoff, other.Point)
		if otherDist >= targetDist {
			continue // shadower must be strictly closer
		}
		if other.Height <= target.Height {
			continue // and strictly taller
		}
		if math.HeadingDifference(targetBearing, math.Bearing(takeoff, other.Point)) > toleranceDeg {
			continue
		}
		if targetDist <= 0 || otherDist <= 0 {
			continue
		}
		if elevationAngle(takeoff, other.Point) > elevationAngle(takeoff, target.Point) {
			return other.ID, true
		}
	}
	return -1, false
}

// elevationAngle returns the angle, in degrees, of the line of sight from
// 'from' up to the top of the obstacle at pt.
func elevationAngle(from math.Point3, pt math.Point3) float64 {
	return math.Degrees(math.Atan2(pt[2]-from[2], math.HorizontalDistance(from, pt)))
}
