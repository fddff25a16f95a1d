package geoframe

// Renderer draws a GeoFrame. Rendering lives entirely outside this
// package; the frame only hands itself over.
type Renderer interface {
	Render(*GeoFrame) error
}

// Plot delegates drawing to the given renderer.
func (g *GeoFrame) Plot(r Renderer) error {
	return r.Render(g)
}
