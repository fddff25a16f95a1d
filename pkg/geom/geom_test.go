package geom

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

func TestCommonType(t *testing.T) {
	tests := []struct {
		name    string
		types   []string
		want    string
		wantErr bool
	}{
		{"single type", []string{"Point"}, "Point", false},
		{"repeated type", []string{"Polygon", "Polygon"}, "Polygon", false},
		{"point and multipoint", []string{"Point", "MultiPoint"}, "Point", false},
		{"linestring and multilinestring", []string{"LineString", "MultiLineString"}, "LineString", false},
		{"polygon and multipolygon", []string{"Polygon", "MultiPolygon"}, "Polygon", false},
		{"incompatible", []string{"Point", "Polygon"}, "", true},
		{"empty", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CommonType(tt.types)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %v, got %q", tt.types, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("CommonType failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCommonType_MixedIncompatibleError(t *testing.T) {
	_, err := CommonType([]string{"Point", "Polygon"})
	if !errors.Is(err, ErrMixedGeometryTypes) {
		t.Errorf("Expected ErrMixedGeometryTypes, got %v", err)
	}
}

func TestGeoSeries_Types(t *testing.T) {
	s := NewGeoSeries(GeometryColumn, []orb.Geometry{
		orb.Point{0, 0},
		orb.MultiPoint{{1, 1}},
		orb.Point{2, 2},
	}, "EPSG:4326")

	types := s.Types()
	if len(types) != 2 || types[0] != "Point" || types[1] != "MultiPoint" {
		t.Errorf("Unexpected distinct types: %v", types)
	}
}

func TestGeoSeries_CopyDeep(t *testing.T) {
	line := orb.LineString{{0, 0}, {1, 1}}
	s := NewGeoSeries(GeometryColumn, []orb.Geometry{line}, "EPSG:4326")

	cp := s.Copy(true)
	cp.Geoms[0].(orb.LineString)[0][0] = 99

	if line[0][0] != 0 {
		t.Error("Deep copy mutation leaked into source geometry")
	}
	if cp.CRS != s.CRS {
		t.Errorf("Expected CRS %q, got %q", s.CRS, cp.CRS)
	}
}

func TestGeoSeries_CopyShallowShares(t *testing.T) {
	line := orb.LineString{{0, 0}, {1, 1}}
	s := NewGeoSeries(GeometryColumn, []orb.Geometry{line}, "EPSG:4326")

	cp := s.Copy(false)
	cp.Geoms[0].(orb.LineString)[0][0] = 99

	if line[0][0] != 99 {
		t.Error("Expected shallow copy to share geometry storage")
	}
}

func TestFromValues_RejectsNonGeometry(t *testing.T) {
	_, err := FromValues([]any{orb.Point{0, 0}, "not a geometry"})
	if err == nil {
		t.Fatal("Expected error for non-geometry value")
	}
}
