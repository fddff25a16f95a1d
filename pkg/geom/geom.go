package geom

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// GeometryColumn is the reserved column name for geometry values.
const GeometryColumn = "geometry"

var ErrMixedGeometryTypes = errors.New("geometry column cannot contain multiple geometry types when writing to file")

// FromValues converts a column of untyped cell values into geometries.
// Every value must be an orb.Geometry.
func FromValues(values []any) ([]orb.Geometry, error) {
	geoms := make([]orb.Geometry, len(values))
	for i, v := range values {
		g, ok := v.(orb.Geometry)
		if !ok {
			return nil, fmt.Errorf("value at row %d is %T, not a geometry", i, v)
		}
		geoms[i] = g
	}
	return geoms, nil
}

// ToValues converts geometries back into untyped cell values.
func ToValues(geoms []orb.Geometry) []any {
	values := make([]any, len(geoms))
	for i, g := range geoms {
		values[i] = g
	}
	return values
}

// CommonType reconciles a set of distinct geometry type names into the
// single type a vector file schema can carry. One distinct type wins
// outright. Several distinct types are reconciled by their longest common
// suffix, so "Point" and "MultiPoint" collapse to "Point". No common
// suffix means the types cannot share a file schema.
//
// The suffix rule is purely lexical and can relate names that have no
// geometric relation; it is kept for compatibility with existing datasets.
func CommonType(types []string) (string, error) {
	if len(types) == 0 {
		return "", fmt.Errorf("no geometry types given")
	}
	common := types[0]
	for _, t := range types[1:] {
		common = commonSuffix(common, t)
	}
	if common == "" {
		return "", ErrMixedGeometryTypes
	}
	return common, nil
}

func commonSuffix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return a[len(a)-i:]
}
