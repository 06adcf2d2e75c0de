package geo

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// LoadShapefile reads polygon records from a shapefile. The name and group
// of each record come from the given DBF attribute fields. Non-polygon
// shapes are skipped. Records with several outer rings become
// MultiPolygons, so labels are placed as for GeoJSON input.
func LoadShapefile(path, nameField, groupField string) ([]Feature, error) {
	shapeFile, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shapeFile.Close()

	nameIdx, groupIdx := -1, -1
	for i, f := range shapeFile.Fields() {
		switch strings.ToUpper(f.String()) {
		case strings.ToUpper(nameField):
			nameIdx = i
		case strings.ToUpper(groupField):
			groupIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("shapefile %s has no %q field", path, nameField)
	}

	var features []Feature
	for shapeFile.Next() {
		n, shape := shapeFile.Shape()
		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		f := Feature{
			Name:     strings.TrimSpace(shapeFile.ReadAttribute(n, nameIdx)),
			Geometry: shapeGeometry(polygon),
		}
		if groupIdx >= 0 {
			f.Group = strings.TrimSpace(shapeFile.ReadAttribute(n, groupIdx))
		}
		features = append(features, f)
	}
	if err := shapeFile.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}

	if len(features) == 0 {
		return nil, fmt.Errorf("no polygons found in shapefile: %s", path)
	}
	return features, nil
}

// polygonRings splits a shapefile polygon into one ring per part.
func polygonRings(p *shp.Polygon) orb.Polygon {
	poly := make(orb.Polygon, 0, len(p.Parts))
	for i, start := range p.Parts {
		end := len(p.Points)
		if i+1 < len(p.Parts) {
			end = int(p.Parts[i+1])
		}
		if int(start) >= end || end > len(p.Points) {
			continue
		}
		ring := make(orb.Ring, 0, end-int(start))
		for _, pt := range p.Points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		poly = append(poly, ring)
	}
	return poly
}

// shapeGeometry groups the parts of a shapefile polygon into polygons.
// Outer rings are clockwise; a counter-clockwise ring is a hole of the
// outer ring before it.
func shapeGeometry(p *shp.Polygon) orb.Geometry {
	var parts orb.MultiPolygon
	for _, ring := range polygonRings(p) {
		if len(parts) == 0 || ring.Orientation() != orb.CCW {
			parts = append(parts, orb.Polygon{ring})
			continue
		}
		last := len(parts) - 1
		parts[last] = append(parts[last], ring)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return parts
}
