package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/zipheat/internal/domain/colorscale"
)

// ScaleDependencies defines the scale operations used by ScaleHandler.
type ScaleDependencies interface {
	Scale() *colorscale.ThresholdScale
	ColorForValue(v float64) (int, colorscale.Color)
}

// ScaleHandler serves the threshold scale and single value lookups.
type ScaleHandler struct {
	deps ScaleDependencies
}

// NewScaleHandler creates a new scale handler.
func NewScaleHandler(deps ScaleDependencies) *ScaleHandler {
	return &ScaleHandler{deps: deps}
}

type scaleResponse struct {
	Boundaries []float64          `json:"boundaries"`
	Colors     []colorscale.Color `json:"colors"`
	NoData     colorscale.Color   `json:"no_data"`
}

// colorResponse carries a nil Value for NaN and infinities, which JSON
// cannot encode.
type colorResponse struct {
	Value  *float64         `json:"value"`
	Bucket int              `json:"bucket"`
	Color  colorscale.Color `json:"color"`
	Hex    string           `json:"hex"`
}

// HandleScale handles GET /api/scale requests.
func (h *ScaleHandler) HandleScale(w http.ResponseWriter, _ *http.Request) {
	s := h.deps.Scale()
	writeJSON(w, http.StatusOK, scaleResponse{
		Boundaries: s.Boundaries(),
		Colors:     s.Colors(),
		NoData:     s.NoData(),
	})
}

// HandleColor handles GET /api/color?value=x requests.
func (h *ScaleHandler) HandleColor(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("value"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing value", ErrBadValue))
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %q", ErrBadValue, raw))
		return
	}
	bucket, c := h.deps.ColorForValue(v)
	resp := colorResponse{Bucket: bucket, Color: c, Hex: c.Hex()}
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		resp.Value = &v
	}
	writeJSON(w, http.StatusOK, resp)
}
