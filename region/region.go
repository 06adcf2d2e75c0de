package region

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// Region is one district shape, already projected into canvas space.
type Region struct {
	Name          string  `json:"name"`
	LocalizedName string  `json:"localizedName"`
	Group         string  `json:"group"`
	GroupColor    string  `json:"groupColor"`
	Outline       string  `json:"outline"`
	LabelX        float64 `json:"labelX"`
	LabelY        float64 `json:"labelY"`
}

// ID returns the stable key of the region.
func (r Region) ID() string { return r.Name }

// DisplayName returns the localized alias, falling back to the name.
func (r Region) DisplayName() string {
	if r.LocalizedName == "" {
		return r.Name
	}
	return r.LocalizedName
}

// Asset is the static data file produced by the geometry pipeline.
type Asset struct {
	CanvasWidth  float64           `json:"canvasWidth"`
	CanvasHeight float64           `json:"canvasHeight"`
	GroupColors  map[string]string `json:"groupColors"`
	Regions      []Region          `json:"regions"`
}

// Skipped describes a region dropped while decoding an asset.
type Skipped struct {
	Index  int
	Name   string
	Reason string
}

// Load reads and sanitizes an asset file.
func Load(path string) (*Asset, []Skipped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open region asset: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses an asset and drops malformed regions instead of failing the
// whole set. The returned asset never holds two regions with the same name.
func Decode(r io.Reader) (*Asset, []Skipped, error) {
	var raw Asset
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("decode region asset: %w", err)
	}
	if raw.CanvasWidth <= 0 || raw.CanvasHeight <= 0 {
		return nil, nil, fmt.Errorf("region asset has invalid canvas %gx%g", raw.CanvasWidth, raw.CanvasHeight)
	}

	var skipped []Skipped
	seen := make(map[string]bool, len(raw.Regions))
	kept := raw.Regions[:0]
	for i, reg := range raw.Regions {
		reason := validate(reg)
		if reason == "" && seen[reg.Name] {
			reason = "duplicate name"
		}
		if reason != "" {
			skipped = append(skipped, Skipped{Index: i, Name: reg.Name, Reason: reason})
			continue
		}
		seen[reg.Name] = true
		if reg.LocalizedName == "" {
			reg.LocalizedName = reg.Name
		}
		if reg.GroupColor == "" {
			reg.GroupColor = raw.GroupColors[reg.Group]
		}
		kept = append(kept, reg)
	}
	raw.Regions = kept
	if len(raw.Regions) == 0 {
		return nil, skipped, fmt.Errorf("no usable regions found in asset")
	}
	return &raw, skipped, nil
}

func validate(reg Region) string {
	switch {
	case reg.Name == "":
		return "missing name"
	case reg.Outline == "":
		return "missing outline"
	case math.IsNaN(reg.LabelX) || math.IsNaN(reg.LabelY) ||
		math.IsInf(reg.LabelX, 0) || math.IsInf(reg.LabelY, 0):
		return "invalid label point"
	}
	if _, err := ParseOutline(reg.Outline); err != nil {
		return err.Error()
	}
	return ""
}

// Save writes the asset as indented JSON.
func (a *Asset) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode region asset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write region asset: %w", err)
	}
	return nil
}

// IDs returns region ids in asset order.
func (a *Asset) IDs() []string {
	ids := make([]string, len(a.Regions))
	for i, r := range a.Regions {
		ids[i] = r.ID()
	}
	return ids
}

// Find looks a region up by id.
func (a *Asset) Find(id string) (Region, bool) {
	for _, r := range a.Regions {
		if r.ID() == id {
			return r, true
		}
	}
	return Region{}, false
}

// Groups lists the distinct groups in first-seen order.
func (a *Asset) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, r := range a.Regions {
		if !seen[r.Group] {
			seen[r.Group] = true
			groups = append(groups, r.Group)
		}
	}
	return groups
}

// InGroup returns the regions belonging to group.
func (a *Asset) InGroup(group string) []Region {
	var out []Region
	for _, r := range a.Regions {
		if r.Group == group {
			out = append(out, r)
		}
	}
	return out
}
