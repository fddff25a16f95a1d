package geom

import (
	"github.com/paulmach/orb"
)

// GeoSeries is a named ordered sequence of geometry values expressed in a
// single coordinate reference system.
type GeoSeries struct {
	Name  string
	Geoms []orb.Geometry
	CRS   string
}

func NewGeoSeries(name string, geoms []orb.Geometry, crs string) *GeoSeries {
	return &GeoSeries{Name: name, Geoms: geoms, CRS: crs}
}

func (s *GeoSeries) Len() int {
	return len(s.Geoms)
}

// Copy returns a new series. A deep copy clones every geometry value, a
// shallow copy shares them.
func (s *GeoSeries) Copy(deep bool) *GeoSeries {
	geoms := s.Geoms
	if deep {
		geoms = make([]orb.Geometry, len(s.Geoms))
		for i, g := range s.Geoms {
			geoms[i] = orb.Clone(g)
		}
	}
	return &GeoSeries{Name: s.Name, Geoms: geoms, CRS: s.CRS}
}

// Types returns the distinct geometry type names in first-seen order.
func (s *GeoSeries) Types() []string {
	seen := make(map[string]struct{})
	var types []string
	for _, g := range s.Geoms {
		t := g.GeoJSONType()
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}
	return types
}
