// tofpa/calculator_test.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tofpa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/andures/tofpa/geo"
	"github.com/andures/tofpa/log"
	"github.com/paulmach/orb"
)

func testLayers() (runway, threshold, obstacles *geo.Layer) {
	runway = &geo.Layer{Name: "runway", CRS: "EPSG:32617", Features: []geo.Feature{
		{ID: 1, Geometry: orb.LineString{{0, 0}, {0, 1000}}},
	}}
	threshold = &geo.Layer{Name: "threshold", Features: []geo.Feature{
		{ID: 1, Geometry: orb.Point{0, 0}},
	}}
	obstacles = &geo.Layer{Name: "obstacles", Features: []geo.Feature{
		{ID: 0, Geometry: orb.Point{0, 500}, Properties: map[string]interface{}{"height": 200.0}},
		{ID: 1, Geometry: orb.Point{0, 800}, Properties: map[string]interface{}{"height": 150.0}},
		{ID: 2, Geometry: orb.Point{40000, 0}, Properties: map[string]interface{}{"height": 60.0}},
	}}
	return
}

func TestCalculatorRun(t *testing.T) {
	c := NewCalculator(log.Discard())
	runway, threshold, obstacles := testLayers()

	op := DefaultObstacleParams()
	op.HeightField = "height"
	op.EnableShadow = true

	result, err := c.Run(context.Background(), runway, threshold, northParams(), obstacles, &op)
	if err != nil {
		t.Fatal(err)
	}

	if result.Surface == nil {
		t.Fatal("no surface built")
	}
	if result.CRS != "EPSG:32617" {
		t.Errorf("crs: got %q", result.CRS)
	}
	if result.TotalObstacles != 3 || result.CriticalObstacles != 2 {
		t.Errorf("counts: total %d critical %d", result.TotalObstacles, result.CriticalObstacles)
	}
	if result.Partition == nil {
		t.Fatal("no shadow partition")
	}
	if len(result.Partition.Shadowed) != 1 {
		t.Errorf("shadowed: %+v", result.Partition.Shadowed)
	}
	if crit, safe := result.CriticalRecords(), result.SafeRecords(); len(crit) != 2 || len(safe) != 1 {
		t.Errorf("partition: %d critical, %d safe", len(crit), len(safe))
	}

	want := "Analyzed 3 obstacles, 2 are critical, 1 shadowed, 1 visible"
	if got := result.Summary(); got != want {
		t.Errorf("summary: got %q, want %q", got, want)
	}
}

func TestCalculatorSurfaceOnly(t *testing.T) {
	c := NewCalculator(log.Discard())
	runway, threshold, _ := testLayers()

	result, err := c.Run(context.Background(), runway, threshold, northParams(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Records != nil || result.Partition != nil {
		t.Error("surface-only run should not produce obstacle output")
	}
	if result.Summary() != "Surface created" {
		t.Errorf("summary: got %q", result.Summary())
	}
}

func TestCalculatorValidation(t *testing.T) {
	c := NewCalculator(log.Discard())
	runway, threshold, _ := testLayers()

	bad := northParams()
	bad.Width = 0
	_, err := c.Run(context.Background(), runway, threshold, bad, nil, nil)
	if !errors.Is(err, ErrInvalidParameters) {
		t.Fatalf("expected ErrInvalidParameters, got %v", err)
	}
	if !strings.Contains(err.Error(), "greater than 0") {
		t.Errorf("error should carry the violation text: %v", err)
	}

	if _, err := c.Run(context.Background(), nil, threshold, northParams(), nil, nil); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("missing runway layer: got %v", err)
	}
}

func TestCalculatorGeometryTypes(t *testing.T) {
	c := NewCalculator(log.Discard())
	_, threshold, _ := testLayers()

	pointRunway := &geo.Layer{Features: []geo.Feature{{ID: 1, Geometry: orb.Point{0, 0}}}}
	if _, err := c.Run(context.Background(), pointRunway, threshold, northParams(), nil, nil); !errors.Is(err, ErrRunwayNotALine) {
		t.Errorf("point runway: got %v", err)
	}

	runway, _, _ := testLayers()
	lineThreshold := &geo.Layer{Features: []geo.Feature{{ID: 1, Geometry: orb.LineString{{0, 0}, {1, 1}}}}}
	if _, err := c.Run(context.Background(), runway, lineThreshold, northParams(), nil, nil); !errors.Is(err, ErrThresholdNotAPoint) {
		t.Errorf("line threshold: got %v", err)
	}
}
