package projection

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"geoframe/pkg/geom"
)

// Well-known CRS identifiers with built-in projections.
const (
	WGS84       = "EPSG:4326"
	WebMercator = "EPSG:3857"
)

var ErrUnknownProjection = errors.New("no projection registered for CRS pair")

type crsPair struct {
	from, to string
}

var registry = map[crsPair]orb.Projection{
	{WGS84, WebMercator}: project.WGS84.ToMercator,
	{WebMercator, WGS84}: project.Mercator.ToWGS84,
}

// Register adds a pointwise projection between two CRS identifiers.
// Registration is expected at package init; the registry is not safe for
// concurrent mutation.
func Register(from, to string, fn orb.Projection) {
	registry[crsPair{from, to}] = fn
}

// Lookup returns the projection from one CRS to another.
func Lookup(from, to string) (orb.Projection, error) {
	if from == to {
		return func(p orb.Point) orb.Point { return p }, nil
	}
	fn, ok := registry[crsPair{from, to}]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownProjection, from, to)
	}
	return fn, nil
}

// Transform reprojects a geometry from one CRS to another, applying the
// projection to every vertex independently. Segments joining reprojected
// vertices are taken as straight lines in the target projection, not
// geodesics. The input geometry is never modified.
func Transform(g orb.Geometry, from, to string) (orb.Geometry, error) {
	fn, err := Lookup(from, to)
	if err != nil {
		return nil, err
	}
	// project.Geometry transforms vertices in place, so work on a clone.
	return project.Geometry(orb.Clone(g), fn), nil
}

// TransformSeries reprojects every geometry of a series into the target
// CRS, returning a new series tagged with the target.
func TransformSeries(s *geom.GeoSeries, target string) (*geom.GeoSeries, error) {
	fn, err := Lookup(s.CRS, target)
	if err != nil {
		return nil, err
	}
	geoms := make([]orb.Geometry, len(s.Geoms))
	for i, g := range s.Geoms {
		geoms[i] = project.Geometry(orb.Clone(g), fn)
	}
	return geom.NewGeoSeries(s.Name, geoms, target), nil
}
