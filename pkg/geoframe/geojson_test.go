package geoframe

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geoframe/pkg/frame"
	"geoframe/pkg/projection"
)

func TestToJSON_FeatureCollectionShape(t *testing.T) {
	g := newTestGeoFrame(t)

	data, err := g.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID         string         `json:"id"`
			Type       string         `json:"type"`
			Properties map[string]any `json:"properties"`
			Geometry   struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}

	if fc.Type != "FeatureCollection" {
		t.Errorf("Expected type FeatureCollection, got %s", fc.Type)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("Expected 2 features, got %d", len(fc.Features))
	}

	f := fc.Features[0]
	if f.ID != "0" {
		t.Errorf("Expected id \"0\", got %q", f.ID)
	}
	if f.Type != "Feature" {
		t.Errorf("Expected Feature type, got %s", f.Type)
	}
	if f.Properties["name"] != "a" {
		t.Errorf("Expected name property \"a\", got %v", f.Properties["name"])
	}
	if f.Geometry.Type != "Point" {
		t.Errorf("Expected Point geometry, got %s", f.Geometry.Type)
	}
	if f.Geometry.Coordinates[0] != 0 || f.Geometry.Coordinates[1] != 0 {
		t.Errorf("Unexpected coordinates: %v", f.Geometry.Coordinates)
	}

	second := fc.Features[1]
	if second.ID != "1" {
		t.Errorf("Expected id \"1\", got %q", second.ID)
	}
	if second.Properties["name"] != "b" {
		t.Errorf("Expected name property \"b\", got %v", second.Properties["name"])
	}
	if second.Geometry.Coordinates[0] != 1 || second.Geometry.Coordinates[1] != 1 {
		t.Errorf("Unexpected coordinates: %v", second.Geometry.Coordinates)
	}
}

func TestToJSON_MissingGeometry(t *testing.T) {
	f, err := frame.New(frame.NewSeries("name", []any{"a"}))
	if err != nil {
		t.Fatalf("Failed to build frame: %v", err)
	}
	g := New(f, projection.WGS84)

	if _, err := g.ToJSON(); err == nil {
		t.Fatal("Expected error for missing geometry column")
	}
}

func TestFromFeatureCollection(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	a := geojson.NewFeature(orb.Point{10, 20})
	a.Properties["name"] = "a"
	a.Properties["score"] = 1.5
	fc.Append(a)
	b := geojson.NewFeature(orb.Point{30, 40})
	b.Properties["name"] = "b"
	fc.Append(b)

	g, err := FromFeatureCollection(fc, projection.WGS84)
	if err != nil {
		t.Fatalf("FromFeatureCollection failed: %v", err)
	}

	if g.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", g.Len())
	}
	gs, err := g.Geometry()
	if err != nil {
		t.Fatalf("Geometry failed: %v", err)
	}
	if gs.Geoms[0].(orb.Point) != (orb.Point{10, 20}) {
		t.Errorf("Unexpected geometry: %v", gs.Geoms[0])
	}

	name, err := g.Table().Col("name")
	if err != nil {
		t.Fatalf("Col failed: %v", err)
	}
	if name.Values[1] != "b" {
		t.Errorf("Unexpected value: %v", name.Values[1])
	}

	// Property missing on a feature becomes a nil cell.
	score, err := g.Table().Col("score")
	if err != nil {
		t.Fatalf("Col failed: %v", err)
	}
	if score.Values[1] != nil {
		t.Errorf("Expected nil for missing property, got %v", score.Values[1])
	}
}

func TestGeoJSON_RoundTrip(t *testing.T) {
	g := newTestGeoFrame(t)

	data, err := g.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	back, err := FromFeatureCollection(fc, g.CRS)
	if err != nil {
		t.Fatalf("FromFeatureCollection failed: %v", err)
	}

	gs, _ := back.Geometry()
	orig, _ := g.Geometry()
	if len(gs.Geoms) != len(orig.Geoms) {
		t.Fatalf("Row count changed: %d != %d", len(gs.Geoms), len(orig.Geoms))
	}
	for i := range gs.Geoms {
		if gs.Geoms[i].(orb.Point) != orig.Geoms[i].(orb.Point) {
			t.Errorf("Row %d geometry changed: %v != %v", i, gs.Geoms[i], orig.Geoms[i])
		}
	}
}

func TestPlot_Delegates(t *testing.T) {
	g := newTestGeoFrame(t)

	var got *GeoFrame
	r := rendererFunc(func(gf *GeoFrame) error {
		got = gf
		return nil
	})
	if err := g.Plot(r); err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	if got != g {
		t.Error("Expected renderer to receive the frame itself")
	}
}

type rendererFunc func(*GeoFrame) error

func (f rendererFunc) Render(g *GeoFrame) error { return f(g) }
