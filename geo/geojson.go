// geo/geojson.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads a GeoJSON feature collection into a Layer. Feature IDs
// are taken from the GeoJSON "id" member when it is numeric and otherwise
// assigned sequentially. crs is recorded as-is (label only; the file's
// coordinates are trusted to already be planar metres).
func LoadGeoJSON(path string, crs string) (*Layer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	layer := &Layer{Name: name, CRS: crs}
	for i, f := range fc.Features {
		id := int64(i)
		switch v := f.ID.(type) {
		case float64:
			id = int64(v)
		case int:
			id = int64(v)
		case int64:
			id = v
		}
		layer.Features = append(layer.Features, Feature{
			ID:         id,
			Geometry:   f.Geometry,
			Properties: f.Properties,
		})
	}
	return layer, nil
}
