// export/geojson.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package export serializes calculation results for external consumers:
// GeoJSON for GIS round-trips, KML/KMZ for Google Earth, and AIXM 5.1.1
// for aeronautical data exchange. It is format-translation glue only; no
// analysis happens here.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/andures/tofpa/math"
	"github.com/andures/tofpa/tofpa"
	"github.com/andures/tofpa/util"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Transform optionally reprojects planar points for sinks that need a
// different coordinate system (KML wants WGS-84). Reprojection mathematics
// live with the host; Identity passes coordinates through unchanged.
type Transform func(orb.Point) orb.Point

func Identity(p orb.Point) orb.Point { return p }

// surfaceRing returns the closed exterior ring of the surface.
func surfaceRing(s *tofpa.Surface, tr Transform) orb.Ring {
	ring := make(orb.Ring, 0, len(s.Polygon)+1)
	for _, p := range s.Polygon {
		ring = append(ring, tr(orb.Point(p.XY())))
	}
	ring = append(ring, ring[0])
	return ring
}

// shadowRecords returns the obstacle records with shadow fields populated
// when a shadow pass ran, and the evaluator records otherwise.
func shadowRecords(res *tofpa.Result) []tofpa.ObstacleRecord {
	if res.Partition == nil {
		return res.Records
	}
	return append(util.DuplicateSlice(res.Partition.Visible), res.Partition.Shadowed...)
}

func shadowedByLabel(rec tofpa.ObstacleRecord) string {
	if rec.ShadowedBy < 0 {
		return ""
	}
	return fmt.Sprintf("Obstacle ID %d", rec.ShadowedBy)
}

func statusLabel(critical bool) string {
	return util.Select(critical, "CRITICAL", "SAFE")
}

// ResultCollection flattens a calculation result into one GeoJSON feature
// collection: the surface polygon, the reference line, one point per
// obstacle, and one polygon per obstacle buffer.
func ResultCollection(res *tofpa.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	surface := geojson.NewFeature(orb.Polygon{surfaceRing(res.Surface, Identity)})
	surface.Properties = geojson.Properties{
		"layer":       "RWY_TOFPA_AOC_TypeA",
		"SurfaceName": "TOFPA AOC Type A",
		"azimuth":     res.Surface.Azimuth,
	}
	fc.Append(surface)

	refLine := geojson.NewFeature(orb.LineString(util.MapSlice(res.Surface.RefLine[:],
		func(p math.Point3) orb.Point { return orb.Point(p.XY()) })))
	refLine.Properties = geojson.Properties{
		"layer":     "reference_line",
		"txt-label": "tofpa reference line",
	}
	fc.Append(refLine)

	for _, rec := range shadowRecords(res) {
		pt := geojson.NewFeature(orb.Point(rec.Point.XY()))
		pt.Properties = geojson.Properties{
			"layer":         "obstacles",
			"id":            rec.ID,
			"height":        rec.Height,
			"buffer_m":      rec.BufferRadius,
			"status":        statusLabel(rec.Critical),
			"intersection":  rec.Intersection,
			"shadow_status": rec.ShadowStatus.String(),
			"shadowed_by":   shadowedByLabel(rec),
		}
		fc.Append(pt)

		buffer := geojson.NewFeature(orb.Polygon{closedRing(rec.Buffer)})
		buffer.Properties = geojson.Properties{
			"layer":       "Obstacle_Buffers",
			"obstacle_id": rec.ID,
			"buffer_m":    rec.BufferRadius,
			"status":      statusLabel(rec.Critical),
		}
		fc.Append(buffer)
	}

	return fc
}

func closedRing(pts [][2]float64) orb.Ring {
	ring := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		ring = append(ring, orb.Point(p))
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// WriteGeoJSON writes the result feature collection to w.
func WriteGeoJSON(w io.Writer, res *tofpa.Result) error {
	b, err := json.MarshalIndent(ResultCollection(res), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
