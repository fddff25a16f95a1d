package geoio

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/ewkb"

	"geoframe/pkg/frame"
	"geoframe/pkg/geom"
	"geoframe/pkg/geoframe"
)

// PostGISOptions controls how a query result becomes a GeoFrame.
type PostGISOptions struct {
	// GeomColumn is the geometry column of the query, "geom" by default.
	GeomColumn string
	// CRS to attach to the resulting frame.
	CRS string
	// IndexColumn, when set, becomes the row index instead of a column.
	IndexColumn string
	// CoerceNumeric converts numeric text values to float64.
	CoerceNumeric bool
	// Params are passed to the query.
	Params []any
}

// ReadPostGIS runs a query containing a geometry column against a
// database and assembles the rows into a GeoFrame. The geometry column is
// decoded from (hex-encoded) EWKB, the format PostGIS sends geometry
// values in.
func ReadPostGIS(ctx context.Context, db *sql.DB, query string, opts PostGISOptions) (*geoframe.GeoFrame, error) {
	geomCol := opts.GeomColumn
	if geomCol == "" {
		geomCol = "geom"
	}

	rows, err := db.QueryContext(ctx, query, opts.Params...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	values := make([][]any, len(names))
	for rows.Next() {
		cells := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		for i, v := range cells {
			if names[i] != geomCol {
				v = normalizeCell(v, opts.CoerceNumeric)
			}
			values[i] = append(values[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	var index []any
	columns := make([]*frame.Series, 0, len(names))
	for i, name := range names {
		switch name {
		case geomCol:
			geoms, err := decodeEWKBColumn(values[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
			columns = append(columns, frame.NewSeries(geom.GeometryColumn, geoms))
		case opts.IndexColumn:
			index = values[i]
		default:
			columns = append(columns, frame.NewSeries(name, values[i]))
		}
	}

	f, err := frame.New(columns...)
	if err != nil {
		return nil, err
	}
	if index != nil {
		if err := f.SetIndex(index); err != nil {
			return nil, err
		}
	}
	return geoframe.New(f, opts.CRS), nil
}

func decodeEWKBColumn(values []any) ([]any, error) {
	geoms := make([]any, len(values))
	for i, v := range values {
		g, err := decodeEWKB(v)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		geoms[i] = g
	}
	return geoms, nil
}

func decodeEWKB(v any) (orb.Geometry, error) {
	s := ewkb.Scanner(nil)
	if err := s.Scan(v); err != nil {
		return nil, err
	}
	return s.Geometry, nil
}

// normalizeCell turns driver-dependent raw values into plain Go values.
// Text-protocol drivers hand numerics back as bytes; with coercion on,
// anything that parses as a number becomes a float64.
func normalizeCell(v any, coerceNumeric bool) any {
	raw, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(raw)
	if coerceNumeric {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
