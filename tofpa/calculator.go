// tofpa/calculator.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tofpa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/andures/tofpa/geo"
	"github.com/andures/tofpa/log"
	"github.com/andures/tofpa/util"
	"github.com/paulmach/orb"
)

// Calculator runs a full TOFPA calculation: validation, surface
// construction, and the optional obstacle and shadow passes. Each Run works
// on an independently constructed result, so one Calculator may serve
// concurrent calculations.
type Calculator struct {
	lg *log.Logger
}

func NewCalculator(lg *log.Logger) *Calculator {
	return &Calculator{lg: lg}
}

// Result is the complete output of one calculation.
type Result struct {
	Surface *Surface
	CRS     string

	// Evaluator output, in obstacle feature order; nil when no obstacle
	// layer was supplied.
	Records []ObstacleRecord
	// Shadow pass output; nil when shadow analysis was not requested.
	Partition *ShadowPartition

	TotalObstacles    int
	CriticalObstacles int
	SkippedObstacles  int
}

// CriticalRecords returns the records whose buffer intersects the surface,
// in evaluation order.
func (r *Result) CriticalRecords() []ObstacleRecord {
	return util.FilterSlice(r.Records, func(rec ObstacleRecord) bool { return rec.Critical })
}

// SafeRecords returns the records clear of the surface, in evaluation order.
func (r *Result) SafeRecords() []ObstacleRecord {
	return util.FilterSlice(r.Records, func(rec ObstacleRecord) bool { return !rec.Critical })
}

// Summary returns the one-line result message, e.g.
// "Analyzed 12 obstacles, 3 are critical, 1 shadowed, 2 visible".
func (r *Result) Summary() string {
	if r.Records == nil {
		return "Surface created"
	}
	s := fmt.Sprintf("Analyzed %d obstacles, %d are critical", r.TotalObstacles, r.CriticalObstacles)
	if r.Partition != nil {
		visible := 0
		for _, rec := range r.Partition.Visible {
			if rec.Critical {
				visible++
			}
		}
		s += fmt.Sprintf(", %d shadowed, %d visible", len(r.Partition.Shadowed), visible)
	}
	return s
}

// Run executes the calculation. obstacles and op may be nil to build the
// surface only.
func (c *Calculator) Run(ctx context.Context, runway, threshold *geo.Layer, sp SurfaceParams,
	obstacles *geo.Layer, op *ObstacleParams) (*Result, error) {
	if problems := ValidateParameters(sp, runway, threshold); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidParameters, strings.Join(problems, "; "))
	}

	rwyFeature, err := runway.SingleFeature()
	if err != nil {
		return nil, fmt.Errorf("runway layer: %w", err)
	}
	centerline, err := runwayCenterline(rwyFeature)
	if err != nil {
		return nil, err
	}

	thrFeature, err := threshold.SingleFeature()
	if err != nil {
		return nil, fmt.Errorf("threshold layer: %w", err)
	}
	thrPoint, err := thresholdPoint(thrFeature)
	if err != nil {
		return nil, err
	}

	surface, err := BuildSurface(centerline, thrPoint, sp, c.lg)
	if err != nil {
		return nil, err
	}

	result := &Result{Surface: surface, CRS: runway.CRS}
	if obstacles == nil || op == nil {
		c.lg.Info("calculation complete", slog.String("summary", result.Summary()))
		return result, nil
	}

	records, err := EvaluateObstacles(ctx, obstacles, *op, surface, c.lg)
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.TotalObstacles = len(records)
	result.SkippedObstacles = len(obstacles.Features) - len(records)
	for _, r := range records {
		if r.Critical {
			result.CriticalObstacles++
		}
	}

	if op.EnableShadow {
		part := AnalyzeShadows(records, surface, op.ShadowTolerance, c.lg)
		result.Partition = &part
	}

	c.lg.Info("calculation complete", slog.String("summary", result.Summary()))
	return result, nil
}

// runwayCenterline extracts the digitized centerline from the runway
// feature; multi-part lines contribute their first part.
func runwayCenterline(f *geo.Feature) (orb.LineString, error) {
	switch g := f.Geometry.(type) {
	case orb.LineString:
		return g, nil
	case orb.MultiLineString:
		if len(g) == 0 {
			return nil, ErrRunwayNotALine
		}
		return g[0], nil
	default:
		return nil, ErrRunwayNotALine
	}
}

func thresholdPoint(f *geo.Feature) (orb.Point, error) {
	switch g := f.Geometry.(type) {
	case orb.Point:
		return g, nil
	case orb.MultiPoint:
		if len(g) == 0 {
			return orb.Point{}, ErrThresholdNotAPoint
		}
		return g[0], nil
	default:
		return orb.Point{}, ErrThresholdNotAPoint
	}
}
