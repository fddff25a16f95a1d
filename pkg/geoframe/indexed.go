package geoframe

import (
	"slices"

	"geoframe/pkg/frame"
	"geoframe/pkg/geom"
)

// Kind discriminates the result of indexed access on a GeoFrame.
type Kind int

const (
	// KindSeries is a plain single column.
	KindSeries Kind = iota
	// KindGeoSeries is the geometry column with the frame's CRS attached.
	KindGeoSeries
	// KindFrame is a sub-table without geometry semantics.
	KindFrame
	// KindGeoFrame is a sub-table that still carries the geometry column.
	KindGeoFrame
)

// Indexed is the classified result of column access: exactly the field
// matching Kind is set. Classification attaches type and CRS metadata to
// the shared underlying storage; it never copies values.
type Indexed struct {
	Kind      Kind
	Series    *frame.Series
	GeoSeries *geom.GeoSeries
	Frame     *frame.Frame
	GeoFrame  *GeoFrame
}

// Col returns a single column, classified as a GeoSeries when the key is
// the geometry column name and as a plain series otherwise.
func (g *GeoFrame) Col(name string) (Indexed, error) {
	if name == geom.GeometryColumn {
		gs, err := g.Geometry()
		if err != nil {
			return Indexed{}, err
		}
		return Indexed{Kind: KindGeoSeries, GeoSeries: gs}, nil
	}
	col, err := g.table.Col(name)
	if err != nil {
		return Indexed{}, err
	}
	return Indexed{Kind: KindSeries, Series: col}, nil
}

// Select returns a sub-table over the named columns, classified as a
// GeoFrame with the receiver's CRS when the selection still contains the
// geometry column and as a plain frame otherwise. The sub-table shares
// column storage with the receiver.
func (g *GeoFrame) Select(names ...string) (Indexed, error) {
	sub, err := g.table.Select(names...)
	if err != nil {
		return Indexed{}, err
	}
	if slices.Contains(names, geom.GeometryColumn) {
		return Indexed{Kind: KindGeoFrame, GeoFrame: New(sub, g.CRS)}, nil
	}
	return Indexed{Kind: KindFrame, Frame: sub}, nil
}
