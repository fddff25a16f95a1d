// Package geoframe provides a tabular container with a designated geometry
// column. A GeoFrame keeps its coordinate reference system attached across
// slicing, copying and reprojection, and classifies the results of column
// access as geometry-bearing or plain.
package geoframe

import (
	"fmt"

	"github.com/paulmach/orb"

	"geoframe/pkg/frame"
	"geoframe/pkg/geom"
	"geoframe/pkg/projection"
)

// GeoFrame is a frame whose "geometry" column holds geometry values, all
// expressed in the frame's CRS.
type GeoFrame struct {
	table *frame.Frame
	CRS   string
}

func New(table *frame.Frame, crs string) *GeoFrame {
	return &GeoFrame{table: table, CRS: crs}
}

// Table returns the underlying frame.
func (g *GeoFrame) Table() *frame.Frame {
	return g.table
}

func (g *GeoFrame) Len() int {
	return g.table.Len()
}

// Geometry returns the geometry column as a GeoSeries carrying the frame's
// CRS. The underlying geometry values are shared, not copied.
func (g *GeoFrame) Geometry() (*geom.GeoSeries, error) {
	col, err := g.table.Col(geom.GeometryColumn)
	if err != nil {
		return nil, err
	}
	geoms, err := geom.FromValues(col.Values)
	if err != nil {
		return nil, err
	}
	return geom.NewGeoSeries(geom.GeometryColumn, geoms, g.CRS), nil
}

// SetGeometry installs a new geometry column. The source is either an
// existing column name, a []orb.Geometry, or a *geom.GeoSeries of length
// equal to the row count. When the source is a column name and drop is
// true, the source column is removed after its values are extracted, so a
// source already named "geometry" is handled safely. With inplace false
// the receiver is left untouched and a modified deep copy is returned;
// with inplace true the receiver itself is modified and returned. On error
// nothing is modified.
func (g *GeoFrame) SetGeometry(src any, drop, inplace bool) (*GeoFrame, error) {
	target := g
	if !inplace {
		target = g.Copy(true)
	}

	var geoms []orb.Geometry
	var remove string

	switch v := src.(type) {
	case string:
		// Extract from the target so a fresh copy keeps its own storage,
		// and before any removal so a source already named "geometry" is
		// not lost.
		col, err := target.table.Col(v)
		if err != nil {
			return nil, err
		}
		geoms, err = geom.FromValues(col.Values)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", v, err)
		}
		if drop {
			remove = v
		}
	case []orb.Geometry:
		geoms = v
	case *geom.GeoSeries:
		geoms = v.Geoms
	default:
		return nil, fmt.Errorf("unsupported geometry source %T", src)
	}

	if target.table.Len() > 0 && len(geoms) != target.table.Len() {
		return nil, fmt.Errorf("geometry column has %d values, want %d", len(geoms), target.table.Len())
	}

	if remove != "" {
		if err := target.table.DropCol(remove); err != nil {
			return nil, err
		}
	}
	if err := target.table.SetCol(frame.NewSeries(geom.GeometryColumn, geom.ToValues(geoms))); err != nil {
		return nil, err
	}
	return target, nil
}

// ToCRS reprojects every geometry value into the target CRS and updates
// the frame's CRS. Vertices are transformed independently; segments
// between them are assumed to remain straight lines. Same copy/inplace
// contract as SetGeometry.
func (g *GeoFrame) ToCRS(target string, inplace bool) (*GeoFrame, error) {
	gs, err := g.Geometry()
	if err != nil {
		return nil, err
	}
	projected, err := projection.TransformSeries(gs, target)
	if err != nil {
		return nil, err
	}

	out := g
	if !inplace {
		out = g.Copy(true)
	}
	if err := out.table.SetCol(frame.NewSeries(geom.GeometryColumn, geom.ToValues(projected.Geoms))); err != nil {
		return nil, err
	}
	out.CRS = target
	return out, nil
}

// Copy returns a new GeoFrame over a copy of the underlying frame. The CRS
// is carried over explicitly since the plain frame knows nothing about it.
func (g *GeoFrame) Copy(deep bool) *GeoFrame {
	return &GeoFrame{table: g.table.Copy(deep), CRS: g.CRS}
}
