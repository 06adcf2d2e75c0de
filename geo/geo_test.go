package geo

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"mapquiz/region"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSimplifyCollapsesNearStraightRun(t *testing.T) {
	ring := orb.Ring{{90.0, 23.0}, {90.5, 23.001}, {91.0, 23.0}}
	got := Simplify(ring, DefaultTolerance)
	if len(got) != 2 || got[0] != ring[0] || got[1] != ring[2] {
		t.Fatalf("Simplify = %v, want endpoints only", got)
	}
}

func TestSimplifyKeepsCorners(t *testing.T) {
	ring := orb.Ring{{0, 0}, {0.5, 0.0001}, {1, 0}, {1, 1}, {0.5, 1.0001}, {0, 1}}
	got := Simplify(ring, 0.01)
	want := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if len(got) != len(want) {
		t.Fatalf("Simplify = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Simplify[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSimplifyShortRings(t *testing.T) {
	for _, ring := range []orb.Ring{nil, {{1, 1}}, {{1, 1}, {2, 2}}} {
		if got := Simplify(ring, 1); len(got) != len(ring) {
			t.Errorf("Simplify(%v) = %v", ring, got)
		}
	}
}

func TestSimplifyClosedRingMeasuresFromStart(t *testing.T) {
	// first == last, so every deviation is the distance to that point
	ring := orb.Ring{{0, 0}, {0.001, 0}, {2, 0}, {0, 0}}
	got := Simplify(ring, 0.5)
	if len(got) != 3 || got[1] != (orb.Point{2, 0}) {
		t.Fatalf("Simplify = %v", got)
	}
}

func TestProjectFlipsY(t *testing.T) {
	p := DefaultProjection
	tests := []struct {
		in   orb.Point
		want orb.Point
	}{
		{orb.Point{87.5, 20.3}, orb.Point{0, 700}},
		{orb.Point{93.0, 26.9}, orb.Point{500, 0}},
		{orb.Point{90.25, 23.6}, orb.Point{250, 350}},
	}
	for _, tc := range tests {
		if got := p.Project(tc.in); got != tc.want {
			t.Errorf("Project(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got := (Projection{Width: 1, Height: 1}).Project(orb.Point{1, 1}); got != (orb.Point{}) {
		t.Errorf("degenerate projection = %v", got)
	}
}

func TestLabelPointIsUnweightedMeanOfOuterRings(t *testing.T) {
	polys := []orb.Polygon{
		{{{0, 0}, {4, 0}, {4, 4}, {0, 4}}, {{1, 1}, {2, 1}, {2, 2}}},
		{{{10, 10}, {12, 10}}},
	}
	got, ok := LabelPoint(polys)
	if !ok {
		t.Fatal("LabelPoint reported no vertices")
	}
	want := orb.Point{30.0 / 6, 28.0 / 6}
	if math.Abs(got[0]-want[0]) > 1e-9 || math.Abs(got[1]-want[1]) > 1e-9 {
		t.Fatalf("LabelPoint = %v, want %v", got, want)
	}
	if _, ok := LabelPoint(nil); ok {
		t.Fatal("LabelPoint(nil) should report no vertices")
	}
}

func TestBuild(t *testing.T) {
	b := NewBuilder()
	b.Log = quiet
	square := orb.Polygon{{{89, 22}, {90, 22}, {90, 23}, {89, 23}, {89, 22}}}
	features := []Feature{
		{Name: "Dhaka", Group: "Dhaka", Geometry: square},
		{Name: "Dhaka", Group: "Dhaka", Geometry: square},
		{Name: "", Group: "Dhaka", Geometry: square},
		{Name: "Nowhere", Group: "Atlantis", Geometry: orb.MultiPolygon{square, square}},
		{Name: "Line", Group: "Dhaka", Geometry: orb.LineString{{0, 0}, {1, 1}}},
	}
	asset := b.Build(features)
	if len(asset.Regions) != 2 {
		t.Fatalf("built %d regions, want 2", len(asset.Regions))
	}
	dhaka := asset.Regions[0]
	if dhaka.LocalizedName != DefaultAliases["Dhaka"] || dhaka.LocalizedName == "Dhaka" {
		t.Errorf("localized name = %q", dhaka.LocalizedName)
	}
	if dhaka.GroupColor != "#F44336" {
		t.Errorf("group color = %q", dhaka.GroupColor)
	}
	rings, err := region.ParseOutline(dhaka.Outline)
	if err != nil || len(rings) != 1 {
		t.Fatalf("outline %q: %v", dhaka.Outline, err)
	}
	for _, p := range rings[0] {
		if p[0] < 0 || p[0] > 500 || p[1] < 0 || p[1] > 700 {
			t.Fatalf("outline point %v outside canvas", p)
		}
	}
	// mean of the 5 closed-ring vertices, projected
	wantLabel := DefaultProjection.Project(orb.Point{89.4, 22.4})
	if dhaka.LabelX != wantLabel[0] || dhaka.LabelY != wantLabel[1] {
		t.Errorf("label = %v,%v want %v", dhaka.LabelX, dhaka.LabelY, wantLabel)
	}

	other := asset.Regions[1]
	if other.GroupColor != fallbackGroupColor || other.LocalizedName != "Nowhere" {
		t.Errorf("fallbacks not applied: %+v", other)
	}
	if rings, _ := region.ParseOutline(other.Outline); len(rings) != 2 {
		t.Errorf("multipolygon produced %d rings, want 2", len(rings))
	}
}

func TestLoadGeoJSON(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"ADM2_EN":"Feni","ADM1_EN":"Chittagong"},
	   "geometry":{"type":"Polygon","coordinates":[[[91,23],[91.5,23],[91.5,23.5],[91,23]]]}},
	  {"type":"Feature","properties":{"ADM2_EN":"Point"},
	   "geometry":{"type":"Point","coordinates":[91,23]}}
	]}`
	path := filepath.Join(t.TempDir(), "in.geojson")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	features, err := LoadGeoJSON(path, "ADM2_EN", "ADM1_EN")
	if err != nil {
		t.Fatalf("LoadGeoJSON: %v", err)
	}
	if len(features) != 1 || features[0].Name != "Feni" || features[0].Group != "Chittagong" {
		t.Fatalf("features = %+v", features)
	}
	if _, err := LoadGeoJSON(filepath.Join(t.TempDir(), "missing.geojson"), "a", "b"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadShapefileMissing(t *testing.T) {
	if _, err := LoadShapefile(filepath.Join(t.TempDir(), "none.shp"), "NAME", "GROUP"); err == nil {
		t.Fatal("expected error for missing shapefile")
	}
}

func TestShapeGeometrySplitsOuterRings(t *testing.T) {
	// two clockwise islands, the first with a counter-clockwise hole
	pts := []shp.Point{
		{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0}, {X: 0, Y: 0},
		{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 2}, {X: 1, Y: 1},
		{X: 10, Y: 0}, {X: 10, Y: 4}, {X: 14, Y: 4}, {X: 14, Y: 0}, {X: 10, Y: 0},
	}
	p := &shp.Polygon{NumParts: 3, NumPoints: int32(len(pts)), Parts: []int32{0, 5, 10}, Points: pts}

	mp, ok := shapeGeometry(p).(orb.MultiPolygon)
	if !ok || len(mp) != 2 {
		t.Fatalf("geometry = %#v, want two polygons", shapeGeometry(p))
	}
	if len(mp[0]) != 2 || len(mp[1]) != 1 {
		t.Fatalf("rings per part = %d, %d, want 2, 1", len(mp[0]), len(mp[1]))
	}

	// labels average the outer ring of every island, like MultiPolygon GeoJSON
	label, ok := LabelPoint(polygons(mp))
	if !ok || label != (orb.Point{6.6, 1.6}) {
		t.Fatalf("label = %v, want (6.6, 1.6)", label)
	}

	single := &shp.Polygon{NumParts: 1, NumPoints: 5, Parts: []int32{0}, Points: pts[:5]}
	if _, ok := shapeGeometry(single).(orb.Polygon); !ok {
		t.Fatal("single outer ring should stay a Polygon")
	}
}
