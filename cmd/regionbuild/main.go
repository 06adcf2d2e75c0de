// Command regionbuild turns district boundaries (GeoJSON or shapefile) into
// the region asset the quiz loads.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"mapquiz/geo"
	"mapquiz/logger"
	"mapquiz/region"
	"mapquiz/render"
)

type options struct {
	in         string
	out        string
	png        string
	nameField  string
	groupField string
	tolerance  float64
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup(nil)

	tol := geo.DefaultTolerance
	if s := os.Getenv("REGIONBUILD_TOLERANCE"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			tol = v
		}
	}

	var o options
	flag.StringVar(&o.in, "in", os.Getenv("REGIONBUILD_IN"), "input .geojson/.json or .shp")
	flag.StringVar(&o.out, "out", envOr("REGIONBUILD_OUT", "data/regions.json"), "output asset path")
	flag.StringVar(&o.png, "png", os.Getenv("REGIONBUILD_PNG"), "optional preview PNG path")
	flag.StringVar(&o.nameField, "name-field", envOr("REGIONBUILD_NAME_FIELD", "ADM2_EN"), "attribute holding the district name")
	flag.StringVar(&o.groupField, "group-field", envOr("REGIONBUILD_GROUP_FIELD", "ADM1_EN"), "attribute holding the division name")
	flag.Float64Var(&o.tolerance, "tolerance", tol, "simplification tolerance in degrees")
	flag.Parse()

	if o.in == "" {
		l.Error("input_missing", "hint", "pass -in or set REGIONBUILD_IN")
		os.Exit(1)
	}
	if err := run(o); err != nil {
		l.Error("regionbuild_failed", "err", err)
		os.Exit(1)
	}
}

func run(o options) error {
	l := logger.L()
	var (
		features []geo.Feature
		err      error
	)
	switch strings.ToLower(filepath.Ext(o.in)) {
	case ".shp":
		features, err = geo.LoadShapefile(o.in, o.nameField, o.groupField)
	case ".geojson", ".json":
		features, err = geo.LoadGeoJSON(o.in, o.nameField, o.groupField)
	default:
		return fmt.Errorf("unsupported input %q", o.in)
	}
	if err != nil {
		return err
	}

	b := geo.NewBuilder()
	b.Tolerance = o.tolerance
	asset := b.Build(features)
	if len(asset.Regions) == 0 {
		return fmt.Errorf("no regions built from %s", o.in)
	}
	if dir := filepath.Dir(o.out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := asset.Save(o.out); err != nil {
		return err
	}
	l.Info("asset_written", "path", o.out, "features", len(features), "regions", len(asset.Regions))

	if o.png == "" {
		return nil
	}
	sc := render.Scene{
		Regions: asset.Regions,
		Index:   region.NewIndex(asset.Regions),
	}
	return render.SavePNG(o.png, sc, render.DefaultOptions())
}
