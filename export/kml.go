// export/kml.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package export

import (
	"archive/zip"
	"fmt"
	"image/color"
	"io"

	"github.com/andures/tofpa/tofpa"
	"github.com/paulmach/orb"
	"github.com/twpayne/go-kml"
)

// KML coordinates are geographic, so planar results must pass through a
// Transform to WGS-84 before they are useful in Google Earth. The Alt of
// each coordinate is the surface or obstacle elevation in metres.

func coordinate(p orb.Point, alt float64, tr Transform) kml.Coordinate {
	q := tr(p)
	return kml.Coordinate{Lon: q[0], Lat: q[1], Alt: alt}
}

func surfaceCoordinates(s *tofpa.Surface, tr Transform) []kml.Coordinate {
	coords := make([]kml.Coordinate, 0, len(s.Polygon)+1)
	for _, p := range s.Polygon {
		coords = append(coords, coordinate(orb.Point(p.XY()), p[2], tr))
	}
	coords = append(coords, coords[0])
	return coords
}

func bufferCoordinates(rec tofpa.ObstacleRecord, tr Transform) []kml.Coordinate {
	coords := make([]kml.Coordinate, 0, len(rec.Buffer)+1)
	for _, p := range rec.Buffer {
		coords = append(coords, coordinate(orb.Point(p), rec.Point[2], tr))
	}
	if len(coords) > 0 {
		coords = append(coords, coords[0])
	}
	return coords
}

func obstacleDescription(rec tofpa.ObstacleRecord) string {
	desc := fmt.Sprintf("Height: %.1f m\nStatus: %s\nIntersection: %s",
		rec.Height, statusLabel(rec.Critical), rec.Intersection)
	if rec.ShadowStatus != tofpa.ShadowNotApplicable {
		desc += fmt.Sprintf("\nShadow: %s", rec.ShadowStatus)
		if by := shadowedByLabel(rec); by != "" {
			desc += fmt.Sprintf(" (%s)", by)
		}
	}
	return desc
}

func obstaclePlacemark(rec tofpa.ObstacleRecord, tr Transform) kml.Element {
	style := "#safeObstacle"
	if rec.Critical {
		style = "#criticalObstacle"
	}
	return kml.Placemark(
		kml.Name(fmt.Sprintf("Obstacle %d", rec.ID)),
		kml.Description(obstacleDescription(rec)),
		kml.StyleURL(style),
		kml.Point(
			kml.AltitudeMode(kml.AltitudeModeAbsolute),
			kml.Coordinates(coordinate(orb.Point(rec.Point.XY()), rec.Point[2], tr)),
		),
	)
}

func bufferPlacemark(rec tofpa.ObstacleRecord, tr Transform) kml.Element {
	style := "#safeBuffer"
	if rec.Critical {
		style = "#criticalBuffer"
	}
	return kml.Placemark(
		kml.Name(fmt.Sprintf("Obstacle %d buffer (%.0f m)", rec.ID, rec.BufferRadius)),
		kml.StyleURL(style),
		kml.Polygon(
			kml.AltitudeMode(kml.AltitudeModeAbsolute),
			kml.OuterBoundaryIs(
				kml.LinearRing(kml.Coordinates(bufferCoordinates(rec, tr)...)),
			),
		),
	)
}

// Document assembles the full KML document tree for a calculation result.
// tr maps planar coordinates to Lon/Lat; pass Identity when the result is
// already geographic.
func Document(res *tofpa.Result, tr Transform) *kml.CompoundElement {
	if tr == nil {
		tr = Identity
	}

	doc := kml.Document(
		kml.Name("TOFPA AOC Type A"),
		kml.SharedStyle("surface",
			kml.LineStyle(kml.Color(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}), kml.Width(2)),
			kml.PolyStyle(kml.Color(color.RGBA{R: 0x00, G: 0xa5, B: 0xff, A: 0x66})),
		),
		kml.SharedStyle("referenceLine",
			kml.LineStyle(kml.Color(color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}), kml.Width(3)),
		),
		kml.SharedStyle("criticalObstacle",
			kml.IconStyle(kml.Color(color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff})),
		),
		kml.SharedStyle("safeObstacle",
			kml.IconStyle(kml.Color(color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff})),
		),
		kml.SharedStyle("criticalBuffer",
			kml.LineStyle(kml.Color(color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}), kml.Width(1)),
			kml.PolyStyle(kml.Color(color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0x4c})),
		),
		kml.SharedStyle("safeBuffer",
			kml.LineStyle(kml.Color(color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}), kml.Width(1)),
			kml.PolyStyle(kml.Color(color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0x33})),
		),
	)

	doc.Add(kml.Placemark(
		kml.Name("TOFPA surface"),
		kml.StyleURL("#surface"),
		kml.Polygon(
			kml.AltitudeMode(kml.AltitudeModeAbsolute),
			kml.Extrude(false),
			kml.Tessellate(false),
			kml.OuterBoundaryIs(
				kml.LinearRing(kml.Coordinates(surfaceCoordinates(res.Surface, tr)...)),
			),
		),
	))

	refCoords := make([]kml.Coordinate, 0, len(res.Surface.RefLine))
	for _, p := range res.Surface.RefLine {
		refCoords = append(refCoords, coordinate(orb.Point(p.XY()), p[2], tr))
	}
	doc.Add(kml.Placemark(
		kml.Name("Reference line"),
		kml.StyleURL("#referenceLine"),
		kml.LineString(
			kml.AltitudeMode(kml.AltitudeModeAbsolute),
			kml.Coordinates(refCoords...),
		),
	))

	tp := res.Surface.TakeoffReferencePoint()
	doc.Add(kml.Placemark(
		kml.Name("Takeoff reference point"),
		kml.Point(
			kml.AltitudeMode(kml.AltitudeModeAbsolute),
			kml.Coordinates(coordinate(orb.Point(tp.XY()), tp[2], tr)),
		),
	))

	if recs := shadowRecords(res); len(recs) > 0 {
		obstacles := kml.Folder(kml.Name("Obstacles"))
		buffers := kml.Folder(kml.Name("Obstacle buffers"))
		for _, rec := range recs {
			obstacles.Add(obstaclePlacemark(rec, tr))
			buffers.Add(bufferPlacemark(rec, tr))
		}
		doc.Add(obstacles, buffers)
	}

	return kml.KML(doc)
}

// WriteKML writes the result as indented KML.
func WriteKML(w io.Writer, res *tofpa.Result, tr Transform) error {
	return Document(res, tr).WriteIndent(w, "", "  ")
}

// WriteKMZ writes the result as a KMZ archive holding a single doc.kml.
func WriteKMZ(w io.Writer, res *tofpa.Result, tr Transform) error {
	zw := zip.NewWriter(w)
	f, err := zw.Create("doc.kml")
	if err != nil {
		return err
	}
	if err := WriteKML(f, res, tr); err != nil {
		return err
	}
	return zw.Close()
}
