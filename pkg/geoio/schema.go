// Package geoio is the import/export boundary for GeoFrames: vector files
// and PostGIS queries through DuckDB's spatial extension, parquet through
// arrow, with the frame bridged in and out as arrow record batches.
package geoio

import (
	"geoframe/pkg/geom"
	"geoframe/pkg/geoframe"
)

// Schema describes a single-geometry-type vector file: one geometry type
// name plus a field-type name per property column.
type Schema struct {
	Geometry   string
	Properties map[string]string

	order []string
}

// PropertyNames returns the property columns in frame column order.
func (s *Schema) PropertyNames() []string {
	return s.order
}

// InferSchema derives the vector file schema for a frame. Property types
// come from the stored values; untyped or mixed columns map to "str". The
// geometry type is reconciled across all rows and mixed incompatible
// types fail here, before any file resource is opened.
func InferSchema(g *geoframe.GeoFrame) (*Schema, error) {
	gs, err := g.Geometry()
	if err != nil {
		return nil, err
	}
	geomType, err := geom.CommonType(gs.Types())
	if err != nil {
		return nil, err
	}

	schema := &Schema{Geometry: geomType, Properties: make(map[string]string)}
	schema.order, schema.Properties, err = inferProperties(g)
	if err != nil {
		return nil, err
	}
	return schema, nil
}

func inferProperties(g *geoframe.GeoFrame) ([]string, map[string]string, error) {
	var order []string
	props := make(map[string]string)
	for _, name := range g.Table().Columns() {
		if name == geom.GeometryColumn {
			continue
		}
		col, err := g.Table().Col(name)
		if err != nil {
			return nil, nil, err
		}
		order = append(order, name)
		props[name] = fieldType(col.Values)
	}
	return order, props, nil
}

// fieldType maps a column's storage type to a schema primitive name. A
// column with no single concrete type is a generic "str".
func fieldType(values []any) string {
	var found string
	for _, v := range values {
		var t string
		switch v.(type) {
		case nil:
			continue
		case int, int32, int64:
			t = "int"
		case float32, float64:
			t = "float"
		case bool:
			t = "bool"
		case string:
			t = "str"
		default:
			return "str"
		}
		if found == "" {
			found = t
		} else if found != t {
			return "str"
		}
	}
	if found == "" {
		return "str"
	}
	return found
}
