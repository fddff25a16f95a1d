package geoio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"

	"geoframe/pkg/frame"
	"geoframe/pkg/geom"
	"geoframe/pkg/geoframe"
	"geoframe/pkg/projection"
)

func pointFrame(t *testing.T, geoms ...orb.Geometry) *geoframe.GeoFrame {
	t.Helper()
	names := make([]any, len(geoms))
	values := make([]any, len(geoms))
	cells := make([]any, len(geoms))
	for i, g := range geoms {
		names[i] = "row"
		values[i] = int64(i)
		cells[i] = g
	}
	f, err := frame.New(
		frame.NewSeries("name", names),
		frame.NewSeries("value", values),
		frame.NewSeries(geom.GeometryColumn, cells),
	)
	if err != nil {
		t.Fatalf("Failed to build frame: %v", err)
	}
	return geoframe.New(f, projection.WGS84)
}

func TestInferSchema_HomogeneousPoints(t *testing.T) {
	g := pointFrame(t, orb.Point{0, 0}, orb.Point{1, 1})

	schema, err := InferSchema(g)
	if err != nil {
		t.Fatalf("InferSchema failed: %v", err)
	}

	if schema.Geometry != "Point" {
		t.Errorf("Expected geometry type Point, got %q", schema.Geometry)
	}
	if schema.Properties["name"] != "str" {
		t.Errorf("Expected name:str, got %q", schema.Properties["name"])
	}
	if schema.Properties["value"] != "int" {
		t.Errorf("Expected value:int, got %q", schema.Properties["value"])
	}
	if names := schema.PropertyNames(); len(names) != 2 || names[0] != "name" || names[1] != "value" {
		t.Errorf("Unexpected property order: %v", names)
	}
}

func TestInferSchema_PointAndMultiPoint(t *testing.T) {
	g := pointFrame(t, orb.Point{0, 0}, orb.MultiPoint{{1, 1}})

	schema, err := InferSchema(g)
	if err != nil {
		t.Fatalf("InferSchema failed: %v", err)
	}
	if schema.Geometry != "Point" {
		t.Errorf("Expected reconciled type Point, got %q", schema.Geometry)
	}
}

func TestInferSchema_MixedIncompatible(t *testing.T) {
	g := pointFrame(t, orb.Point{0, 0}, orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})

	_, err := InferSchema(g)
	if !errors.Is(err, geom.ErrMixedGeometryTypes) {
		t.Errorf("Expected ErrMixedGeometryTypes, got %v", err)
	}
}

func TestWriteFile_MixedTypesFailBeforeFilesystem(t *testing.T) {
	g := pointFrame(t, orb.Point{0, 0}, orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})

	path := filepath.Join(t.TempDir(), "out.shp")
	err := WriteFile(context.Background(), g, path, "")
	if !errors.Is(err, geom.ErrMixedGeometryTypes) {
		t.Fatalf("Expected ErrMixedGeometryTypes, got %v", err)
	}

	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("Expected no file to be written on schema error")
	}
}

func TestSQLString(t *testing.T) {
	if got := sqlString("/tmp/out.shp"); got != "'/tmp/out.shp'" {
		t.Errorf("Unexpected quoting: %s", got)
	}
	if got := sqlString("/tmp/o'brien.shp"); got != "'/tmp/o''brien.shp'" {
		t.Errorf("Embedded quote not doubled: %s", got)
	}
}

func TestFieldType(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   string
	}{
		{"ints", []any{int64(1), int64(2)}, "int"},
		{"floats", []any{1.5, 2.5}, "float"},
		{"bools", []any{true, false}, "bool"},
		{"strings", []any{"a", "b"}, "str"},
		{"mixed", []any{int64(1), "a"}, "str"},
		{"nils only", []any{nil, nil}, "str"},
		{"nil then int", []any{nil, int64(2)}, "int"},
		{"untyped object", []any{struct{}{}}, "str"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fieldType(tt.values); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
