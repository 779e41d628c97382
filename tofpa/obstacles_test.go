// tofpa/obstacles_test.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tofpa

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/andures/tofpa/geo"
	"github.com/andures/tofpa/log"
	"github.com/paulmach/orb"
)

func pointFeature(id int64, x, y float64, props map[string]interface{}) geo.Feature {
	return geo.Feature{ID: id, Geometry: orb.Point{x, y}, Properties: props}
}

func TestObstacleHeightResolution(t *testing.T) {
	s := buildNorth(t)
	p := DefaultObstacleParams()
	p.HeightField = "height"

	testCases := []struct {
		name   string
		props  map[string]interface{}
		height float64
	}{
		{name: "AttributeAboveMin", props: map[string]interface{}{"height": 25.0}, height: 25},
		{name: "AttributeBelowMin", props: map[string]interface{}{"height": 2.0}, height: 5},
		{name: "NoAttribute", props: map[string]interface{}{}, height: 5},
		{name: "NonNumericAttribute", props: map[string]interface{}{"height": "tall"}, height: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := pointFeature(1, 0, 5000, tc.props)
			rec, err := EvaluateObstacle(&f, p, s)
			if err != nil {
				t.Fatal(err)
			}
			if rec.Height != tc.height {
				t.Errorf("resolved height: got %g, expected %g", rec.Height, tc.height)
			}
			if rec.Point[2] != tc.height {
				t.Errorf("point elevation: got %g, expected %g", rec.Point[2], tc.height)
			}
		})
	}
}

func TestObstacleCriticality(t *testing.T) {
	s := buildNorth(t)
	p := DefaultObstacleParams()

	testCases := []struct {
		name     string
		x, y     float64
		critical bool
	}{
		{name: "OnCenterline", x: 0, y: 5000, critical: true},
		{name: "NearDEREdge", x: 0, y: 5, critical: true},
		{name: "FarOutside", x: 50000, y: 0, critical: false},
		{name: "BeyondFarEdge", x: 0, y: 10500, critical: false},
		{name: "JustPastFarEdgeWithinBuffer", x: 0, y: 10005, critical: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := pointFeature(1, tc.x, tc.y, nil)
			rec, err := EvaluateObstacle(&f, p, s)
			if err != nil {
				t.Fatal(err)
			}
			if rec.Critical != tc.critical {
				t.Errorf("critical: got %v, expected %v", rec.Critical, tc.critical)
			}
			wantIntersection := "None"
			if tc.critical {
				wantIntersection = "Buffer intersects TOFPA surface"
			}
			if rec.Intersection != wantIntersection {
				t.Errorf("intersection: got %q", rec.Intersection)
			}
		})
	}
}

func TestObstacleBufferMonotonicity(t *testing.T) {
	s := buildNorth(t)
	f := pointFeature(1, 0, 10050, nil) // 50 m past the far edge

	p := DefaultObstacleParams()
	p.BufferDistance = 10
	rec, err := EvaluateObstacle(&f, p, s)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Critical {
		t.Fatal("10 m buffer should not reach the surface")
	}

	// Growing the buffer may only ever flip SAFE -> CRITICAL.
	wasCritical := false
	for _, radius := range []float64{10, 25, 49, 51, 100, 500} {
		p.BufferDistance = radius
		rec, err := EvaluateObstacle(&f, p, s)
		if err != nil {
			t.Fatal(err)
		}
		if wasCritical && !rec.Critical {
			t.Errorf("radius %g: obstacle reverted to SAFE", radius)
		}
		wasCritical = wasCritical || rec.Critical
	}
	if !wasCritical {
		t.Error("obstacle never became critical with a 500 m buffer")
	}
}

func TestObstacleArealGeometry(t *testing.T) {
	s := buildNorth(t)
	p := DefaultObstacleParams()

	// A building footprint centered at (0, 5000): evaluated at its
	// centroid.
	f := geo.Feature{ID: 9, Geometry: orb.Polygon{orb.Ring{
		{-20, 4980}, {20, 4980}, {20, 5020}, {-20, 5020}, {-20, 4980},
	}}}
	rec, err := EvaluateObstacle(&f, p, s)
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Critical {
		t.Error("footprint centroid inside the surface should be critical")
	}
	if !near(rec.Point[0], 0) || !near(rec.Point[1], 5000) {
		t.Errorf("centroid: got %v", rec.Point)
	}
}

func TestEvaluateObstaclesBatch(t *testing.T) {
	s := buildNorth(t)
	lg := log.Discard()
	p := DefaultObstacleParams()

	layer := &geo.Layer{Features: []geo.Feature{
		pointFeature(0, 0, 5000, nil),
		{ID: 1}, // no geometry: skipped, not fatal
		pointFeature(2, 50000, 0, nil),
	}}

	records, err := EvaluateObstacles(context.Background(), layer, p, s, lg)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != 0 || !records[0].Critical {
		t.Errorf("record 0: %+v", records[0])
	}
	if records[1].ID != 2 || records[1].Critical {
		t.Errorf("record 1: %+v", records[1])
	}

	// All features failing is a batch-level error.
	bad := &geo.Layer{Features: []geo.Feature{{ID: 0}, {ID: 1}}}
	if _, err := EvaluateObstacles(context.Background(), bad, p, s, lg); !errors.Is(err, ErrNoObstacles) {
		t.Errorf("all-bad batch: expected ErrNoObstacles, got %v", err)
	}

	// So is an empty (or missing) layer.
	if _, err := EvaluateObstacles(context.Background(), &geo.Layer{}, p, s, lg); !errors.Is(err, ErrNoObstacles) {
		t.Errorf("empty layer: expected ErrNoObstacles, got %v", err)
	}

	// Unknown height field is reported before any evaluation.
	p.HeightField = "elev_ft"
	if _, err := EvaluateObstacles(context.Background(), layer, p, s, lg); !errors.Is(err, geo.ErrFieldNotFound) {
		t.Errorf("unknown field: expected ErrFieldNotFound, got %v", err)
	}
}

func TestEvaluateObstaclesIdempotent(t *testing.T) {
	s := buildNorth(t)
	lg := log.Discard()
	p := DefaultObstacleParams()
	p.HeightField = "height"

	layer := &geo.Layer{Features: []geo.Feature{
		pointFeature(0, 0, 2000, map[string]interface{}{"height": 30.0}),
		pointFeature(1, 400, 6000, map[string]interface{}{"height": 55.0}),
		pointFeature(2, 20000, 20000, nil),
	}}

	first, err := EvaluateObstacles(context.Background(), layer, p, s, lg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := EvaluateObstacles(context.Background(), layer, p, s, lg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different records")
	}

	// Concurrency must not change results or their order.
	p.Workers = 4
	parallel, err := EvaluateObstacles(context.Background(), layer, p, s, lg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, parallel) {
		t.Error("parallel evaluation differs from serial")
	}
}
