package geoframe

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/paulmach/orb/geojson"

	"geoframe/pkg/frame"
	"geoframe/pkg/geom"
)

// FeatureCollection converts the frame into a GeoJSON feature collection,
// one feature per row in row order. Each feature's ID is the stringified
// row index value and its properties are all non-geometry columns.
func (g *GeoFrame) FeatureCollection() (*geojson.FeatureCollection, error) {
	gs, err := g.Geometry()
	if err != nil {
		return nil, err
	}

	index := g.table.Index()
	fc := geojson.NewFeatureCollection()
	for i := 0; i < g.Len(); i++ {
		f := geojson.NewFeature(gs.Geoms[i])
		f.ID = fmt.Sprint(index[i])
		for name, value := range g.table.Row(i) {
			if name == geom.GeometryColumn {
				continue
			}
			f.Properties[name] = value
		}
		fc.Append(f)
	}
	return fc, nil
}

// ToJSON returns the GeoJSON encoding of the frame.
func (g *GeoFrame) ToJSON() ([]byte, error) {
	fc, err := g.FeatureCollection()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fc)
}

// FromFeatureCollection builds a GeoFrame from a GeoJSON feature
// collection. Property columns are the sorted union of all feature
// properties; features missing a property get a nil cell. Feature
// IDs become the row index when every feature carries one.
func FromFeatureCollection(fc *geojson.FeatureCollection, crs string) (*GeoFrame, error) {
	n := len(fc.Features)

	var propNames []string
	seen := make(map[string]struct{})
	for _, f := range fc.Features {
		for k := range f.Properties {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				propNames = append(propNames, k)
			}
		}
	}
	sort.Strings(propNames)

	geoms := make([]any, n)
	ids := make([]any, 0, n)
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, fmt.Errorf("feature %d has no geometry", i)
		}
		geoms[i] = f.Geometry
		if f.ID != nil {
			ids = append(ids, f.ID)
		}
	}

	columns := []*frame.Series{frame.NewSeries(geom.GeometryColumn, geoms)}
	for _, name := range propNames {
		values := make([]any, n)
		for i, f := range fc.Features {
			values[i] = f.Properties[name]
		}
		columns = append(columns, frame.NewSeries(name, values))
	}

	table, err := frame.New(columns...)
	if err != nil {
		return nil, err
	}
	if len(ids) == n {
		if err := table.SetIndex(ids); err != nil {
			return nil, err
		}
	}
	return New(table, crs), nil
}
