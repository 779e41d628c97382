// geo/feature.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package geo is the boundary to the vector feature store: typed features
// with geometry and attributes, grouped into layers. All geometry is
// assumed to be in a single consistent projected coordinate system with
// metre units; the CRS identifier is carried for labeling only and no
// reprojection is ever performed.
package geo

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var (
	ErrMissingGeometry  = errors.New("Feature has missing or empty geometry")
	ErrNoFeatures       = errors.New("No features found in layer")
	ErrMultipleFeatures = errors.New("Layer has multiple features; exactly one is required")
	ErrFieldNotFound    = errors.New("Field not found in layer")
)

// Feature is a single vector feature: geometry plus a free-form attribute
// map. Properties hold JSON-decoded values, so numeric attributes arrive as
// float64.
type Feature struct {
	ID         int64
	Geometry   orb.Geometry
	Properties map[string]interface{}
}

// NumericAttribute returns the named attribute as a float64. The second
// return value is false when the attribute is absent or not numeric.
func (f *Feature) NumericAttribute(name string) (float64, bool) {
	v, ok := f.Properties[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// IsAreal reports whether g encloses area, i.e. a representative point must
// be derived from a centroid rather than read directly.
func IsAreal(g orb.Geometry) bool {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return true
	default:
		return false
	}
}

// RepresentativePoint collapses a geometry to a single planar point: points
// map to themselves and everything else to its centroid. Returns
// ErrMissingGeometry for nil or empty geometry.
func RepresentativePoint(g orb.Geometry) (orb.Point, error) {
	if g == nil {
		return orb.Point{}, ErrMissingGeometry
	}
	switch gg := g.(type) {
	case orb.Point:
		return gg, nil
	case orb.MultiPoint:
		if len(gg) == 0 {
			return orb.Point{}, ErrMissingGeometry
		}
		return gg[0], nil
	default:
		bound := g.Bound()
		if bound.IsEmpty() && bound.Min == (orb.Point{}) && bound.Max == (orb.Point{}) {
			return orb.Point{}, ErrMissingGeometry
		}
		c, _ := planar.CentroidArea(g)
		return c, nil
	}
}

// Layer is an ordered collection of features sharing one geometry source.
type Layer struct {
	Name     string
	CRS      string // authority identifier, e.g. "EPSG:32617"; label only
	Features []Feature
}

// HasField reports whether any feature in the layer carries the named
// attribute.
func (l *Layer) HasField(name string) bool {
	for i := range l.Features {
		if _, ok := l.Features[i].Properties[name]; ok {
			return true
		}
	}
	return false
}

// SingleFeature returns the layer's one feature. Runway and threshold
// layers must contain exactly one feature each; anything else is a caller
// error that should be reported rather than silently resolved.
func (l *Layer) SingleFeature() (*Feature, error) {
	switch len(l.Features) {
	case 0:
		return nil, ErrNoFeatures
	case 1:
		return &l.Features[0], nil
	default:
		return nil, ErrMultipleFeatures
	}
}
