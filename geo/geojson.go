package geo

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads Polygon and MultiPolygon features from a GeoJSON
// FeatureCollection. Other geometry types are dropped.
func LoadGeoJSON(path, nameField, groupField string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read geojson: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	return FromFeatureCollection(fc, nameField, groupField), nil
}

// FromFeatureCollection converts decoded GeoJSON features.
func FromFeatureCollection(fc *geojson.FeatureCollection, nameField, groupField string) []Feature {
	var features []Feature
	for _, f := range fc.Features {
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}
		features = append(features, Feature{
			Name:     f.Properties.MustString(nameField, ""),
			Group:    f.Properties.MustString(groupField, ""),
			Geometry: f.Geometry,
		})
	}
	return features
}
