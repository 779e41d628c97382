// tofpa/obstacles.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tofpa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andures/tofpa/geo"
	"github.com/andures/tofpa/log"
	"github.com/andures/tofpa/math"
	"golang.org/x/sync/errgroup"
)

type ShadowStatus int

const (
	ShadowNotApplicable ShadowStatus = iota
	ShadowVisible
	ShadowShadowed
)

func (s ShadowStatus) String() string {
	switch s {
	case ShadowVisible:
		return "VISIBLE"
	case ShadowShadowed:
		return "SHADOWED"
	default:
		return "NOT_APPLICABLE"
	}
}

// ObstacleRecord is the evaluation result for one survey obstacle. Height
// is treated as the absolute elevation of the obstacle top, in the same
// frame as the surface elevations, and is duplicated in Point's z.
type ObstacleRecord struct {
	ID           int64
	Point        math.Point3
	Height       float64
	BufferRadius float64
	Buffer       [][2]float64 // tessellated safety-buffer ring
	Critical     bool
	Intersection string

	// Filled in by the shadow analyzer, on its own copy of the records.
	ShadowStatus ShadowStatus
	ShadowedBy   int64 // id of the shadowing obstacle; -1 when none
}

const (
	bufferSegments = 16

	intersectionNone   = "None"
	intersectionBuffer = "Buffer intersects TOFPA surface"
)

// EvaluateObstacle classifies one obstacle feature against the surface.
// The obstacle height comes from the configured attribute when it resolves
// numerically (floored at MinHeight) and is MinHeight otherwise; the
// obstacle is CRITICAL iff its tessellated circular buffer overlaps the
// surface polygon.
func EvaluateObstacle(f *geo.Feature, p ObstacleParams, surface *Surface) (ObstacleRecord, error) {
	return evaluateObstacle(f, p, surface, math.CirclePoints(bufferSegments))
}

func evaluateObstacle(f *geo.Feature, p ObstacleParams, surface *Surface, circle [][2]float64) (ObstacleRecord, error) {
	pt, err := geo.RepresentativePoint(f.Geometry)
	if err != nil {
		return ObstacleRecord{}, fmt.Errorf("obstacle %d: %w", f.ID, err)
	}

	height := p.MinHeight
	if p.HeightField != "" {
		if v, ok := f.NumericAttribute(p.HeightField); ok {
			height = max(v, p.MinHeight)
		}
	}

	buffer := make([][2]float64, 0, len(circle))
	for _, c := range circle {
		buffer = append(buffer, math.Add2(pt, math.Scale2(c, p.BufferDistance)))
	}

	critical := math.PolygonsOverlap(buffer, surface.Ring())

	return ObstacleRecord{
		ID:           f.ID,
		Point:        math.MakePoint3(pt, height),
		Height:       height,
		BufferRadius: p.BufferDistance,
		Buffer:       buffer,
		Critical:     critical,
		Intersection: func() string {
			if critical {
				return intersectionBuffer
			}
			return intersectionNone
		}(),
		ShadowedBy: -1,
	}, nil
}

// EvaluateObstacles runs the evaluator over every feature of the obstacles
// layer. Obstacles are independent, so the batch fans out over
// p.Workers goroutines; record order always matches feature order. A
// malformed obstacle is logged and skipped without aborting the batch, but
// if nothing at all survives the batch fails with ErrNoObstacles.
func EvaluateObstacles(ctx context.Context, layer *geo.Layer, p ObstacleParams, surface *Surface, lg *log.Logger) ([]ObstacleRecord, error) {
	if layer == nil || len(layer.Features) == 0 {
		return nil, ErrNoObstacles
	}
	if p.HeightField != "" && !layer.HasField(p.HeightField) {
		return nil, fmt.Errorf("Height field '%s' not found in obstacles layer: %w",
			p.HeightField, geo.ErrFieldNotFound)
	}

	circle := math.CirclePoints(bufferSegments)
	results := make([]*ObstacleRecord, len(layer.Features))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, p.Workers))
	for i := range layer.Features {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := evaluateObstacle(&layer.Features[i], p, surface, circle)
			if err != nil {
				// Partial-failure semantics: one bad feature must not
				// abort the batch.
				lg.Warn("skipping obstacle", slog.Int64("id", layer.Features[i].ID),
					slog.Any("error", err))
				return nil
			}
			results[i] = &rec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	records := make([]ObstacleRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	if len(records) == 0 {
		return nil, ErrNoObstacles
	}
	if skipped := len(layer.Features) - len(records); skipped > 0 {
		lg.Infof("skipped %d of %d obstacle features", skipped, len(layer.Features))
	}
	return records, nil
}
