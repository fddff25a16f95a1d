package geoio

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paulmach/orb/encoding/wkb"

	"geoframe/pkg/frame"
	"geoframe/pkg/geom"
	"geoframe/pkg/geoframe"
)

func arrowType(fieldType string) arrow.DataType {
	switch fieldType {
	case "int":
		return arrow.PrimitiveTypes.Int64
	case "float":
		return arrow.PrimitiveTypes.Float64
	case "bool":
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// FrameToRecordBatch builds an arrow record batch from a frame: one field
// per property column typed by the inferred field types, plus the geometry
// column as WKB bytes. The caller releases the returned batch.
func FrameToRecordBatch(pool memory.Allocator, g *geoframe.GeoFrame) (arrow.RecordBatch, error) {
	gs, err := g.Geometry()
	if err != nil {
		return nil, err
	}
	order, props, err := inferProperties(g)
	if err != nil {
		return nil, err
	}
	schema := &Schema{Properties: props, order: order}

	fields := make([]arrow.Field, 0, len(schema.order)+1)
	for _, name := range schema.order {
		fields = append(fields, arrow.Field{Name: name, Type: arrowType(schema.Properties[name]), Nullable: true})
	}
	fields = append(fields, arrow.Field{Name: geom.GeometryColumn, Type: arrow.BinaryTypes.Binary, Nullable: true})

	builder := array.NewRecordBuilder(pool, arrow.NewSchema(fields, nil))
	defer builder.Release()

	for fieldIdx, name := range schema.order {
		col, err := g.Table().Col(name)
		if err != nil {
			return nil, err
		}
		for _, v := range col.Values {
			if err := appendCell(builder.Field(fieldIdx), schema.Properties[name], v); err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
		}
	}

	geomBuilder := builder.Field(len(fields) - 1).(*array.BinaryBuilder)
	for _, g := range gs.Geoms {
		data, err := wkb.Marshal(g)
		if err != nil {
			return nil, fmt.Errorf("failed to encode geometry: %w", err)
		}
		geomBuilder.Append(data)
	}

	return builder.NewRecordBatch(), nil
}

func appendCell(b array.Builder, fieldType string, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch fieldType {
	case "int":
		iv, ok := asInt64(v)
		if !ok {
			return fmt.Errorf("value %v (%T) is not an integer", v, v)
		}
		b.(*array.Int64Builder).Append(iv)
	case "float":
		fv, ok := asFloat64(v)
		if !ok {
			return fmt.Errorf("value %v (%T) is not a float", v, v)
		}
		b.(*array.Float64Builder).Append(fv)
	case "bool":
		bv, ok := v.(bool)
		if !ok {
			return fmt.Errorf("value %v (%T) is not a bool", v, v)
		}
		b.(*array.BooleanBuilder).Append(bv)
	default:
		b.(*array.StringBuilder).Append(fmt.Sprint(v))
	}
	return nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// RecordsToFrame converts arrow record batches into a frame, decoding the
// named geometry column from WKB and installing it under the reserved
// geometry column name.
func RecordsToFrame(recs []arrow.RecordBatch, geomCol string) (*frame.Frame, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("no records to convert")
	}

	schema := recs[0].Schema()
	names := make([]string, schema.NumFields())
	values := make([][]any, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		names[i] = schema.Field(i).Name
	}

	for _, batch := range recs {
		numRows := int(batch.NumRows())
		for colIdx := 0; colIdx < int(batch.NumCols()); colIdx++ {
			col := batch.Column(colIdx)
			for rowIdx := 0; rowIdx < numRows; rowIdx++ {
				v, err := cellValue(col, rowIdx)
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", names[colIdx], rowIdx, err)
				}
				values[colIdx] = append(values[colIdx], v)
			}
		}
	}

	columns := make([]*frame.Series, 0, len(names))
	for i, name := range names {
		if name == geomCol {
			geoms, err := decodeWKBColumn(values[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
			columns = append(columns, frame.NewSeries(geom.GeometryColumn, geoms))
			continue
		}
		columns = append(columns, frame.NewSeries(name, values[i]))
	}

	return frame.New(columns...)
}

func decodeWKBColumn(values []any) ([]any, error) {
	geoms := make([]any, len(values))
	for i, v := range values {
		var data []byte
		switch raw := v.(type) {
		case []byte:
			data = raw
		case string:
			data = []byte(raw)
		default:
			return nil, fmt.Errorf("row %d holds %T, not WKB bytes", i, v)
		}
		g, err := wkb.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		geoms[i] = g
	}
	return geoms, nil
}

// cellValue extracts a Go value from an arrow column at a given index.
func cellValue(col arrow.Array, idx int) (any, error) {
	if col.IsNull(idx) {
		return nil, nil
	}
	switch c := col.(type) {
	case *array.Float64:
		return c.Value(idx), nil
	case *array.Float32:
		return float64(c.Value(idx)), nil
	case *array.Int64:
		return c.Value(idx), nil
	case *array.Int32:
		return int64(c.Value(idx)), nil
	case *array.String:
		return c.Value(idx), nil
	case *array.LargeString:
		return c.Value(idx), nil
	case *array.Boolean:
		return c.Value(idx), nil
	case *array.Binary:
		// Copy out of the arrow buffer, which the caller may release.
		return string(c.Value(idx)), nil
	case *array.LargeBinary:
		return string(c.Value(idx)), nil
	default:
		return nil, fmt.Errorf("unsupported column type: %T", col)
	}
}
