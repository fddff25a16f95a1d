package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"geoframe/pkg/geoframe"
	"geoframe/pkg/geoio"
	"geoframe/pkg/geom"
	"geoframe/pkg/projection"
)

// APIHandler handles REST API requests over GeoJSON payloads.
type APIHandler struct{}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler() *APIHandler {
	return &APIHandler{}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReprojectHandler handles POST requests that reproject a GeoJSON
// FeatureCollection. The source CRS comes from the source_crs query
// parameter (default EPSG:4326), the target from crs (default EPSG:3857).
func (h *APIHandler) ReprojectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	source := r.URL.Query().Get("source_crs")
	if source == "" {
		source = projection.WGS84
	}
	target := r.URL.Query().Get("crs")
	if target == "" {
		target = projection.WebMercator
	}

	g, err := h.frameFromBody(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid GeoJSON: %v", err))
		return
	}
	g.CRS = source

	projected, err := g.ToCRS(target, false)
	if err != nil {
		if errors.Is(err, projection.ErrUnknownProjection) {
			h.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to reproject: %v", err))
		return
	}

	out, err := projected.ToJSON()
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to serialize result: %v", err))
		return
	}

	log.Info().Str("source_crs", source).Str("target_crs", target).Int("rows", g.Len()).Msg("reprojected feature collection")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// ExportHandler handles POST requests that write a GeoJSON
// FeatureCollection to a vector file on the server. Query parameters:
// path (required), driver (default ESRI Shapefile), crs (default
// EPSG:4326).
func (h *APIHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		h.sendError(w, http.StatusBadRequest, "missing path query parameter")
		return
	}
	driver := r.URL.Query().Get("driver")
	crs := r.URL.Query().Get("crs")
	if crs == "" {
		crs = projection.WGS84
	}

	g, err := h.frameFromBody(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid GeoJSON: %v", err))
		return
	}
	g.CRS = crs

	if err := geoio.WriteFile(r.Context(), g, path, driver); err != nil {
		if errors.Is(err, geom.ErrMixedGeometryTypes) {
			h.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to write file: %v", err))
		return
	}

	log.Info().Str("path", path).Int("rows", g.Len()).Msg("exported feature collection")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"path": path})
}

func (h *APIHandler) frameFromBody(r *http.Request) (*geoframe.GeoFrame, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	defer r.Body.Close()

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("no features in FeatureCollection")
	}
	return geoframe.FromFeatureCollection(fc, "")
}

// sendError sends an error response as JSON
func (h *APIHandler) sendError(w http.ResponseWriter, statusCode int, message string) {
	log.Warn().Int("status", statusCode).Str("error", message).Msg("request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
