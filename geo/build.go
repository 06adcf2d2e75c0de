package geo

import (
	"log/slog"
	"strings"

	"github.com/paulmach/orb"
	"golang.org/x/text/unicode/norm"

	"mapquiz/logger"
	"mapquiz/region"
)

// Feature is one raw boundary record, coordinates in (lon, lat).
type Feature struct {
	Name     string
	Group    string
	Geometry orb.Geometry
}

// fallbackGroupColor is used for groups missing from the color table.
const fallbackGroupColor = "#999999"

// Builder converts raw features into a region asset.
type Builder struct {
	Projection  Projection
	Tolerance   float64
	Aliases     map[string]string
	GroupColors map[string]string
	Log         *slog.Logger
}

// NewBuilder returns a builder preloaded with the default projection,
// tolerance, aliases and group colors.
func NewBuilder() *Builder {
	return &Builder{
		Projection:  DefaultProjection,
		Tolerance:   DefaultTolerance,
		Aliases:     DefaultAliases,
		GroupColors: DefaultGroupColors,
	}
}

// Build projects every usable feature. Features with no polygon rings,
// no name, or a name already taken are skipped and logged.
func (b *Builder) Build(features []Feature) *region.Asset {
	l := b.Log
	if l == nil {
		l = logger.L()
	}
	aliases := normalizedKeys(b.Aliases)

	asset := &region.Asset{
		CanvasWidth:  b.Projection.Width,
		CanvasHeight: b.Projection.Height,
		GroupColors:  make(map[string]string, len(b.GroupColors)),
	}
	for g, c := range b.GroupColors {
		asset.GroupColors[g] = c
	}

	seen := make(map[string]bool, len(features))
	for i, f := range features {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			l.Warn("feature_skipped", "index", i, "reason", "missing name")
			continue
		}
		if seen[name] {
			l.Warn("feature_skipped", "index", i, "name", name, "reason", "duplicate name")
			continue
		}
		polys := polygons(f.Geometry)
		if len(polys) == 0 {
			l.Warn("feature_skipped", "index", i, "name", name, "reason", "no polygon rings")
			continue
		}
		label, ok := LabelPoint(polys)
		if !ok {
			l.Warn("feature_skipped", "index", i, "name", name, "reason", "empty outer ring")
			continue
		}

		var rings []orb.Ring
		for _, poly := range polys {
			for _, ring := range poly {
				if len(ring) == 0 {
					continue
				}
				rings = append(rings, b.Projection.ProjectRing(ring, b.Tolerance))
			}
		}
		labelPt := b.Projection.Project(label)

		color, ok := b.GroupColors[f.Group]
		if !ok {
			color = fallbackGroupColor
		}
		localized, ok := aliases[norm.NFC.String(name)]
		if !ok {
			localized = name
		}

		seen[name] = true
		asset.Regions = append(asset.Regions, region.Region{
			Name:          name,
			LocalizedName: localized,
			Group:         f.Group,
			GroupColor:    color,
			Outline:       region.FormatOutline(rings),
			LabelX:        labelPt[0],
			LabelY:        labelPt[1],
		})
	}
	l.Info("regions_built", "features", len(features), "regions", len(asset.Regions))
	return asset
}

// LabelPoint is the unweighted mean of the vertices of the first ring of
// every polygon part. It is not an area centroid and can fall outside a
// concave shape.
func LabelPoint(polys []orb.Polygon) (orb.Point, bool) {
	var sumX, sumY float64
	count := 0
	for _, poly := range polys {
		if len(poly) == 0 {
			continue
		}
		for _, p := range poly[0] {
			sumX += p[0]
			sumY += p[1]
			count++
		}
	}
	if count == 0 {
		return orb.Point{}, false
	}
	return orb.Point{sumX / float64(count), sumY / float64(count)}, true
}

func polygons(g orb.Geometry) []orb.Polygon {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) == 0 {
			return nil
		}
		return []orb.Polygon{v}
	case orb.MultiPolygon:
		var out []orb.Polygon
		for _, p := range v {
			if len(p) > 0 {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

func normalizedKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[norm.NFC.String(strings.TrimSpace(k))] = v
	}
	return out
}
