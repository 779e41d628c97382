// export/aixm.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/andures/tofpa/math"
	"github.com/andures/tofpa/tofpa"
	"github.com/paulmach/orb"
)

// AIXM 5.1.1 basic message. The surface and each obstacle buffer are
// NavigationArea features; the reference line is a Curve. Coordinates are
// emitted latitude first, per the GML position list convention.

type aixmMessage struct {
	XMLName        xml.Name        `xml:"aixm:AIXMBasicMessage"`
	NSAIXM         string          `xml:"xmlns:aixm,attr"`
	NSGML          string          `xml:"xmlns:gml,attr"`
	NSXLink        string          `xml:"xmlns:xlink,attr"`
	NSXSI          string          `xml:"xmlns:xsi,attr"`
	SchemaLocation string          `xml:"xsi:schemaLocation,attr"`
	BoundedBy      aixmBoundedBy   `xml:"gml:boundedBy"`
	Members        []featureMember `xml:"gml:featureMember"`
}

type aixmBoundedBy struct {
	Null string `xml:"gml:Null"`
}

type featureMember struct {
	NavigationArea    *navigationArea    `xml:"aixm:NavigationArea"`
	Curve             *aixmCurveOuter    `xml:"aixm:Curve"`
	VerticalStructure *verticalStructure `xml:"aixm:VerticalStructure"`
}

type navigationArea struct {
	ID        string       `xml:"gml:id,attr"`
	TimeSlice navTimeSlice `xml:"aixm:timeSlice"`
}

type navTimeSlice struct {
	Slice navAreaTimeSlice `xml:"aixm:NavigationAreaTimeSlice"`
}

type navAreaTimeSlice struct {
	ID             string             `xml:"gml:id,attr"`
	ValidTime      validTime          `xml:"gml:validTime"`
	Interpretation string             `xml:"aixm:interpretation"`
	Designator     string             `xml:"aixm:designator"`
	Type           string             `xml:"aixm:type"`
	Geometry       *geometryComponent `xml:"aixm:geometryComponent"`
}

type validTime struct {
	TimePeriod timePeriod `xml:"gml:TimePeriod"`
}

type timePeriod struct {
	ID            string      `xml:"gml:id,attr"`
	BeginPosition string      `xml:"gml:beginPosition"`
	EndPosition   endPosition `xml:"gml:endPosition"`
}

type endPosition struct {
	Indeterminate string `xml:"indeterminatePosition,attr"`
}

type geometryComponent struct {
	Surface *gmlSurface `xml:"aixm:Surface"`
	Curve   *gmlCurve   `xml:"aixm:Curve"`
}

type gmlSurface struct {
	ID           string     `xml:"gml:id,attr"`
	SrsName      string     `xml:"srsName,attr"`
	SrsDimension string     `xml:"srsDimension,attr"`
	Patches      gmlPatches `xml:"gml:patches"`
}

type gmlPatches struct {
	PolygonPatch gmlPolygonPatch `xml:"gml:PolygonPatch"`
}

type gmlPolygonPatch struct {
	Exterior gmlExterior `xml:"gml:exterior"`
}

type gmlExterior struct {
	LinearRing gmlLinearRing `xml:"gml:LinearRing"`
}

type gmlLinearRing struct {
	PosList string `xml:"gml:posList"`
}

type aixmCurveOuter struct {
	ID         string             `xml:"gml:id,attr"`
	Designator string             `xml:"aixm:designator"`
	Geometry   *geometryComponent `xml:"aixm:geometryComponent"`
}

type gmlCurve struct {
	ID           string      `xml:"gml:id,attr"`
	SrsName      string      `xml:"srsName,attr"`
	SrsDimension string      `xml:"srsDimension,attr"`
	Segments     gmlSegments `xml:"gml:segments"`
}

type verticalStructure struct {
	ID        string      `xml:"gml:id,attr"`
	TimeSlice vsTimeSlice `xml:"aixm:timeSlice"`
}

type vsTimeSlice struct {
	Slice vsTimeSliceBody `xml:"aixm:VerticalStructureTimeSlice"`
}

type vsTimeSliceBody struct {
	ID             string    `xml:"gml:id,attr"`
	ValidTime      validTime `xml:"gml:validTime"`
	Interpretation string    `xml:"aixm:interpretation"`
	Name           string    `xml:"aixm:name"`
	Type           string    `xml:"aixm:type"`
	Part           vsPart    `xml:"aixm:part"`
}

type vsPart struct {
	Part vsPartBody `xml:"aixm:VerticalStructurePart"`
}

type vsPartBody struct {
	ID         string       `xml:"gml:id,attr"`
	Projection vsProjection `xml:"aixm:horizontalProjection"`
}

type vsProjection struct {
	Point elevatedPoint `xml:"aixm:ElevatedPoint"`
}

type elevatedPoint struct {
	ID           string `xml:"gml:id,attr"`
	SrsName      string `xml:"srsName,attr"`
	SrsDimension string `xml:"srsDimension,attr"`
	Pos          string `xml:"gml:pos"`
}

type gmlSegments struct {
	LineStringSegment gmlLineStringSegment `xml:"gml:LineStringSegment"`
}

type gmlLineStringSegment struct {
	PosList string `xml:"gml:posList"`
}

const aixmCRS = "urn:ogc:def:crs:EPSG::4326"

func gmlID(prefix string) string {
	return fmt.Sprintf("%s_%08x", prefix, rand.Uint32())
}

// posList3 formats 3d vertices as "lat lon alt ..." with the original
// 8/8/3 decimal precision.
func posList3(pts []math.Point3, tr Transform) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		q := tr(orb.Point(p.XY()))
		fmt.Fprintf(&sb, "%.8f %.8f %.3f", q[1], q[0], p[2])
	}
	return sb.String()
}

func newValidTime(now time.Time) validTime {
	return validTime{
		TimePeriod: timePeriod{
			ID:            gmlID("tp"),
			BeginPosition: now.UTC().Format("2006-01-02T15:04:05Z"),
			EndPosition:   endPosition{Indeterminate: "unknown"},
		},
	}
}

func navigationAreaMember(designator, areaType string, ring []math.Point3, now time.Time, tr Transform) featureMember {
	var geom *geometryComponent
	if len(ring) > 0 {
		closed := append(append([]math.Point3{}, ring...), ring[0])
		geom = &geometryComponent{
			Surface: &gmlSurface{
				ID:           gmlID("srf"),
				SrsName:      aixmCRS,
				SrsDimension: "3",
				Patches: gmlPatches{
					PolygonPatch: gmlPolygonPatch{
						Exterior: gmlExterior{
							LinearRing: gmlLinearRing{PosList: posList3(closed, tr)},
						},
					},
				},
			},
		}
	}
	return featureMember{
		NavigationArea: &navigationArea{
			ID: gmlID("tofpa_surface"),
			TimeSlice: navTimeSlice{
				Slice: navAreaTimeSlice{
					ID:             gmlID("ts"),
					ValidTime:      newValidTime(now),
					Interpretation: "BASELINE",
					Designator:     designator,
					Type:           areaType,
					Geometry:       geom,
				},
			},
		},
	}
}

func referenceLineMember(line []math.Point3, tr Transform) featureMember {
	return featureMember{
		Curve: &aixmCurveOuter{
			ID:         gmlID("reference_line"),
			Designator: "TOFPA_REFERENCE_LINE",
			Geometry: &geometryComponent{
				Curve: &gmlCurve{
					ID:           gmlID("crv"),
					SrsName:      aixmCRS,
					SrsDimension: "3",
					Segments: gmlSegments{
						LineStringSegment: gmlLineStringSegment{PosList: posList3(line, tr)},
					},
				},
			},
		},
	}
}

func obstacleMember(rec tofpa.ObstacleRecord, now time.Time, tr Transform) featureMember {
	return featureMember{
		VerticalStructure: &verticalStructure{
			ID: gmlID("obstacle"),
			TimeSlice: vsTimeSlice{
				Slice: vsTimeSliceBody{
					ID:             gmlID("ts"),
					ValidTime:      newValidTime(now),
					Interpretation: "BASELINE",
					Name:           fmt.Sprintf("OBSTACLE %d", rec.ID),
					Type:           "OTHER",
					Part: vsPart{
						Part: vsPartBody{
							ID: gmlID("vsp"),
							Projection: vsProjection{
								Point: elevatedPoint{
									ID:           gmlID("ep"),
									SrsName:      aixmCRS,
									SrsDimension: "3",
									Pos:          posList3([]math.Point3{rec.Point}, tr),
								},
							},
						},
					},
				},
			},
		},
	}
}

func bufferRing(rec tofpa.ObstacleRecord) []math.Point3 {
	ring := make([]math.Point3, len(rec.Buffer))
	for i, p := range rec.Buffer {
		ring[i] = math.MakePoint3(p, rec.Point[2])
	}
	return ring
}

// WriteAIXM writes the result as an AIXM 5.1.1 basic message. tr maps
// planar coordinates to Lon/Lat; pass Identity if the result is already
// geographic.
func WriteAIXM(w io.Writer, res *tofpa.Result, tr Transform) error {
	if tr == nil {
		tr = Identity
	}
	now := time.Now()

	msg := aixmMessage{
		NSAIXM:  "http://www.aixm.aero/schema/5.1.1",
		NSGML:   "http://www.opengis.net/gml/3.2",
		NSXLink: "http://www.w3.org/1999/xlink",
		NSXSI:   "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: "http://www.aixm.aero/schema/5.1.1 " +
			"http://www.aixm.aero/schema/5.1.1/AIXM_BasicMessage.xsd",
		BoundedBy: aixmBoundedBy{Null: "unknown"},
	}

	msg.Members = append(msg.Members,
		navigationAreaMember("TOFPA_AOC_TypeA", "TAKEOFF_CLIMB_SURFACE",
			res.Surface.Polygon[:], now, tr))
	msg.Members = append(msg.Members, referenceLineMember(res.Surface.RefLine[:], tr))

	for _, rec := range shadowRecords(res) {
		msg.Members = append(msg.Members, obstacleMember(rec, now, tr))
		msg.Members = append(msg.Members,
			navigationAreaMember(fmt.Sprintf("OBSTACLE_BUFFER_%d", rec.ID),
				"OBSTACLE", bufferRing(rec), now, tr))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc, err := xml.MarshalIndent(&msg, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(enc)
	return err
}
